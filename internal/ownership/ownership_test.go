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

package ownership

import (
	"context"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
	"github.com/rancherlabs/devops-project-operator/internal/constant"
)

func newScheme(t *testing.T) *fake.ClientBuilder {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := rancherv1.AddToScheme(scheme); err != nil {
		t.Fatalf("AddToScheme: %v", err)
	}
	return fake.NewClientBuilder().WithScheme(scheme)
}

func TestIsClaimedByAnother(t *testing.T) {
	p1 := &rancherv1.Project{
		ObjectMeta: metav1.ObjectMeta{Name: "p1"},
		Spec:       rancherv1.ProjectSpec{Namespaces: []string{"ns-shared"}},
	}
	p2 := &rancherv1.Project{
		ObjectMeta: metav1.ObjectMeta{Name: "p2"},
		Spec:       rancherv1.ProjectSpec{Namespaces: []string{}},
	}

	c := newScheme(t).WithObjects(p1, p2).Build()
	guard := NewGuard(c)

	if !guard.IsClaimedByAnother(context.Background(), "NS-Shared", "p2") {
		t.Fatal("expected ns-shared to be claimed by p1 when checked from p2")
	}
	if guard.IsClaimedByAnother(context.Background(), "ns-shared", "p1") {
		t.Fatal("p1 should not be considered claiming its own namespace against itself")
	}
	if guard.IsClaimedByAnother(context.Background(), "ns-other", "p2") {
		t.Fatal("ns-other is unclaimed")
	}
}

func TestIsManagedByUs(t *testing.T) {
	if !IsManagedByUs(map[string]string{constant.ManagedByKey: constant.ManagedByValue}) {
		t.Fatal("expected match")
	}
	if IsManagedByUs(map[string]string{constant.ManagedByKey: "someone-else"}) {
		t.Fatal("expected mismatch")
	}
	if IsManagedByUs(nil) {
		t.Fatal("expected false for nil markers")
	}
}
