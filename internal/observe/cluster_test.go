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

package observe

import (
	"context"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
	"github.com/rancherlabs/devops-project-operator/internal/platform"
	"github.com/rancherlabs/devops-project-operator/internal/status"
)

func newLoop(t *testing.T, objs ...*rancherv1.Project) *Loop {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := rancherv1.AddToScheme(scheme); err != nil {
		t.Fatalf("AddToScheme: %v", err)
	}
	builder := fake.NewClientBuilder().WithScheme(scheme).WithStatusSubresource(&rancherv1.Project{})
	for _, o := range objs {
		builder = builder.WithObjects(o)
	}
	c := builder.Build()

	return &Loop{
		Client:   c,
		Writer:   status.NewWriter(c),
		Recorder: record.NewFakeRecorder(10),
	}
}

func TestProcessNamespaceForProjectsAppendsNewNamespace(t *testing.T) {
	cr := &rancherv1.Project{
		ObjectMeta: metav1.ObjectMeta{Name: "p2"},
		Spec:       rancherv1.ProjectSpec{ClusterName: "alpha", Namespaces: []string{}},
		Status:     rancherv1.ProjectStatus{ProjectID: "proj-2"},
	}
	l := newLoop(t, cr)

	ns := platform.Namespace{
		Name:        "a",
		Annotations: map[string]string{namespaceAnnotation: "proj-2"},
	}

	err := l.ProcessNamespaceForProjects(context.Background(), "alpha", ns, []rancherv1.Project{*cr})
	if err != nil {
		t.Fatalf("ProcessNamespaceForProjects: %v", err)
	}

	var got rancherv1.Project
	if err := l.Client.Get(context.Background(), types.NamespacedName{Name: cr.Name}, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Spec.Namespaces) != 1 || got.Spec.Namespaces[0] != "a" {
		t.Fatalf("expected namespaces=[a], got %v", got.Spec.Namespaces)
	}
}

func TestProcessNamespaceForProjectsSkipsAlreadyPresent(t *testing.T) {
	cr := &rancherv1.Project{
		ObjectMeta: metav1.ObjectMeta{Name: "p2"},
		Spec:       rancherv1.ProjectSpec{ClusterName: "alpha", Namespaces: []string{"a"}},
		Status:     rancherv1.ProjectStatus{ProjectID: "proj-2"},
	}
	l := newLoop(t, cr)

	ns := platform.Namespace{Name: "a", Annotations: map[string]string{namespaceAnnotation: "proj-2"}}
	if err := l.ProcessNamespaceForProjects(context.Background(), "alpha", ns, []rancherv1.Project{*cr}); err != nil {
		t.Fatalf("ProcessNamespaceForProjects: %v", err)
	}

	var got rancherv1.Project
	if err := l.Client.Get(context.Background(), types.NamespacedName{Name: cr.Name}, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Spec.Namespaces) != 1 {
		t.Fatalf("expected no duplicate append, got %v", got.Spec.Namespaces)
	}
}

func TestProcessNamespaceForProjectsSkipsMissingAnnotation(t *testing.T) {
	cr := &rancherv1.Project{
		ObjectMeta: metav1.ObjectMeta{Name: "p2"},
		Spec:       rancherv1.ProjectSpec{ClusterName: "alpha"},
		Status:     rancherv1.ProjectStatus{ProjectID: "proj-2"},
	}
	l := newLoop(t, cr)

	ns := platform.Namespace{Name: "a"}
	if err := l.ProcessNamespaceForProjects(context.Background(), "alpha", ns, []rancherv1.Project{*cr}); err != nil {
		t.Fatalf("ProcessNamespaceForProjects: %v", err)
	}

	var got rancherv1.Project
	if err := l.Client.Get(context.Background(), types.NamespacedName{Name: cr.Name}, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Spec.Namespaces) != 0 {
		t.Fatalf("expected no import without projectId annotation, got %v", got.Spec.Namespaces)
	}
}
