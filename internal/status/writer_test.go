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

package status

import (
	"context"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
)

func newTestClient(t *testing.T, objs ...client.Object) client.WithWatch {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := rancherv1.AddToScheme(scheme); err != nil {
		t.Fatalf("AddToScheme: %v", err)
	}
	return fake.NewClientBuilder().WithScheme(scheme).WithStatusSubresource(&rancherv1.Project{}).WithObjects(objs...).Build()
}

func TestUpdateStatusSucceeds(t *testing.T) {
	cr := &rancherv1.Project{ObjectMeta: metav1.ObjectMeta{Name: "p1"}}
	c := newTestClient(t, cr)
	w := NewWriter(c)

	cr.Status.Phase = rancherv1.ProjectPhaseActive
	if err := w.UpdateStatus(context.Background(), cr); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	var got rancherv1.Project
	if err := c.Get(context.Background(), types.NamespacedName{Name: "p1"}, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status.Phase != rancherv1.ProjectPhaseActive {
		t.Fatalf("expected phase Active, got %q", got.Status.Phase)
	}
}

func TestUpdateSpecSucceeds(t *testing.T) {
	cr := &rancherv1.Project{ObjectMeta: metav1.ObjectMeta{Name: "p1"}}
	c := newTestClient(t, cr)
	w := NewWriter(c)

	cr.Spec.Namespaces = []string{"ns-a"}
	if err := w.UpdateSpec(context.Background(), cr); err != nil {
		t.Fatalf("UpdateSpec: %v", err)
	}

	var got rancherv1.Project
	if err := c.Get(context.Background(), types.NamespacedName{Name: "p1"}, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Spec.Namespaces) != 1 || got.Spec.Namespaces[0] != "ns-a" {
		t.Fatalf("expected namespaces=[ns-a], got %v", got.Spec.Namespaces)
	}
}
