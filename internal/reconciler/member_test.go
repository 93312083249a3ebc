/*
Copyright 2025 Konflux CI.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package reconciler

import (
	"context"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/record"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
	plat "github.com/rancherlabs/devops-project-operator/internal/platform/fake"
	"github.com/rancherlabs/devops-project-operator/internal/policy"
)

func TestMemberReconcilerCreatesBindingByPrincipalID(t *testing.T) {
	p := plat.New()
	cr := &rancherv1.Project{ObjectMeta: metav1.ObjectMeta{Name: "p1"}}
	r := &MemberReconciler{Platform: p, Recorder: record.NewFakeRecorder(10)}

	m := rancherv1.MemberSpec{PrincipalID: "user-1", Role: "owner"}
	if err := r.Step(context.Background(), cr, "proj-1", policy.Evaluate(nil, nil), m); err != nil {
		t.Fatalf("Step: %v", err)
	}

	members, err := p.GetProjectMembers(context.Background(), "proj-1")
	if err != nil || len(members) != 1 {
		t.Fatalf("expected 1 member, got %v, %v", members, err)
	}
	if members[0].UserPrincipalID != "user-1" {
		t.Fatalf("expected user-1 bound as user principal, got %+v", members[0])
	}
	if len(cr.Status.ConfiguredMembers) != 1 || cr.Status.ConfiguredMembers[0] != "user-1:owner" {
		t.Fatalf("expected configuredMembers=[user-1:owner], got %v", cr.Status.ConfiguredMembers)
	}
}

func TestMemberReconcilerResolvesPrincipalName(t *testing.T) {
	p := plat.New()
	p.AddPrincipal("alice", "user-alice")
	cr := &rancherv1.Project{ObjectMeta: metav1.ObjectMeta{Name: "p1"}}
	r := &MemberReconciler{Platform: p, Recorder: record.NewFakeRecorder(10)}

	m := rancherv1.MemberSpec{PrincipalName: "alice", Role: "member"}
	if err := r.Step(context.Background(), cr, "proj-1", policy.Evaluate(nil, nil), m); err != nil {
		t.Fatalf("Step: %v", err)
	}

	members, _ := p.GetProjectMembers(context.Background(), "proj-1")
	if len(members) != 1 || members[0].UserPrincipalID != "user-alice" {
		t.Fatalf("expected resolved binding, got %+v", members)
	}
}

func TestMemberReconcilerIsIdempotent(t *testing.T) {
	p := plat.New()
	cr := &rancherv1.Project{ObjectMeta: metav1.ObjectMeta{Name: "p1"}}
	r := &MemberReconciler{Platform: p, Recorder: record.NewFakeRecorder(10)}
	m := rancherv1.MemberSpec{PrincipalID: "user-1", Role: "owner"}

	for i := 0; i < 2; i++ {
		if err := r.Step(context.Background(), cr, "proj-1", policy.Evaluate(nil, nil), m); err != nil {
			t.Fatalf("Step #%d: %v", i, err)
		}
	}

	members, _ := p.GetProjectMembers(context.Background(), "proj-1")
	if len(members) != 1 {
		t.Fatalf("expected binding to not be duplicated, got %v", members)
	}
}
