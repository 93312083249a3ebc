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

package project

import (
	"context"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
	"github.com/rancherlabs/devops-project-operator/internal/config"
	"github.com/rancherlabs/devops-project-operator/internal/constant"
	"github.com/rancherlabs/devops-project-operator/internal/platform"
	plat "github.com/rancherlabs/devops-project-operator/internal/platform/fake"
)

func plat0Project(id, clusterID, name string) platform.Project {
	return platform.Project{
		ID:          id,
		ClusterID:   clusterID,
		Name:        name,
		Annotations: map[string]string{constant.ManagedByKey: constant.ManagedByValue},
	}
}

func plat0Namespace(name, projectID string) platform.Namespace {
	return platform.Namespace{
		Name:      name,
		ProjectID: projectID,
		Labels:    map[string]string{constant.ManagedByKey: constant.ManagedByValue},
	}
}

func newReconciler(t *testing.T, objs ...*rancherv1.Project) (*ProjectReconciler, *plat.Client) {
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

	p := plat.New()
	cfg := &config.Config{CleanupNamespaces: true}
	r := NewProjectReconciler(c, p, record.NewFakeRecorder(50), cfg)
	return r, p
}

func TestReconcileCreatesNewProject(t *testing.T) {
	cr := &rancherv1.Project{
		ObjectMeta: metav1.ObjectMeta{Name: "team-a"},
		Spec: rancherv1.ProjectSpec{
			ClusterName: "prod",
			Namespaces:  []string{"team-a-dev"},
		},
	}
	r, p := newReconciler(t, cr)
	p.AddCluster("prod", "c-1")

	ctx := context.Background()
	if _, err := r.Reconcile(ctx, ctrl.Request{NamespacedName: types.NamespacedName{Name: "team-a"}}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	var got rancherv1.Project
	if err := r.Get(ctx, types.NamespacedName{Name: "team-a"}, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status.Phase != rancherv1.ProjectPhaseActive {
		t.Fatalf("expected Active phase, got %q (err=%q)", got.Status.Phase, got.Status.ErrorMessage)
	}
	if got.Status.ProjectID == "" {
		t.Fatalf("expected projectId to be set")
	}
	if len(got.Status.CreatedNamespaces) != 1 || got.Status.CreatedNamespaces[0] != "team-a-dev" {
		t.Fatalf("expected createdNamespaces=[team-a-dev], got %v", got.Status.CreatedNamespaces)
	}
}

func TestReconcileMissingClusterSetsErrorPhase(t *testing.T) {
	cr := &rancherv1.Project{
		ObjectMeta: metav1.ObjectMeta{Name: "team-b"},
		Spec:       rancherv1.ProjectSpec{ClusterName: "nowhere"},
	}
	r, _ := newReconciler(t, cr)

	ctx := context.Background()
	if _, err := r.Reconcile(ctx, ctrl.Request{NamespacedName: types.NamespacedName{Name: "team-b"}}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	var got rancherv1.Project
	if err := r.Get(ctx, types.NamespacedName{Name: "team-b"}, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status.Phase != rancherv1.ProjectPhaseError {
		t.Fatalf("expected Error phase, got %q", got.Status.Phase)
	}
}

func TestReconcilePendingWhenCreateNotAllowed(t *testing.T) {
	cr := &rancherv1.Project{
		ObjectMeta: metav1.ObjectMeta{Name: "team-c"},
		Spec: rancherv1.ProjectSpec{
			ClusterName:        "prod",
			ManagementPolicies: []string{"Observe"},
		},
	}
	r, p := newReconciler(t, cr)
	p.AddCluster("prod", "c-1")

	ctx := context.Background()
	if _, err := r.Reconcile(ctx, ctrl.Request{NamespacedName: types.NamespacedName{Name: "team-c"}}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	var got rancherv1.Project
	if err := r.Get(ctx, types.NamespacedName{Name: "team-c"}, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status.Phase != rancherv1.ProjectPhasePending {
		t.Fatalf("expected Pending phase, got %q", got.Status.Phase)
	}
}

func TestReconcileImportsDiscoveredNamespacesWhenSpecEmpty(t *testing.T) {
	cr := &rancherv1.Project{
		ObjectMeta: metav1.ObjectMeta{Name: "team-d"},
		Spec:       rancherv1.ProjectSpec{ClusterName: "prod", ManagementPolicies: []string{"Observe"}},
	}
	r, p := newReconciler(t, cr)
	p.AddCluster("prod", "c-1")
	p.SeedProject(plat0Project("proj-1", "c-1", "team-d"))
	p.SeedNamespace("c-1", plat0Namespace("existing-ns", "proj-1"))

	ctx := context.Background()
	if _, err := r.Reconcile(ctx, ctrl.Request{NamespacedName: types.NamespacedName{Name: "team-d"}}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	var got rancherv1.Project
	if err := r.Get(ctx, types.NamespacedName{Name: "team-d"}, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	found := false
	for _, n := range got.Spec.Namespaces {
		if n == "existing-ns" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected existing-ns imported into spec.namespaces, got %v", got.Spec.Namespaces)
	}
}

func TestReconcileDeleteRemovesFinalizerWithoutDeleteProject(t *testing.T) {
	now := metav1.Now()
	cr := &rancherv1.Project{
		ObjectMeta: metav1.ObjectMeta{
			Name:              "team-e",
			Finalizers:        []string{constant.Finalizer},
			DeletionTimestamp: &now,
		},
		Spec:   rancherv1.ProjectSpec{ClusterName: "prod", ManagementPolicies: []string{"Create", "Delete"}},
		Status: rancherv1.ProjectStatus{ClusterID: "c-1", ProjectID: "proj-1"},
	}
	r, p := newReconciler(t, cr)
	p.AddCluster("prod", "c-1")
	p.SeedProject(plat0Project("proj-1", "c-1", "team-e"))

	ctx := context.Background()
	if _, err := r.Reconcile(ctx, ctrl.Request{NamespacedName: types.NamespacedName{Name: "team-e"}}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	var got rancherv1.Project
	err := r.Get(ctx, types.NamespacedName{Name: "team-e"}, &got)
	if err == nil {
		for _, f := range got.Finalizers {
			if f == constant.Finalizer {
				t.Fatalf("expected finalizer removed")
			}
		}
	}
	if proj, _ := p.GetProjectByName(ctx, "c-1", "team-e"); proj == nil {
		t.Fatalf("expected platform project team-e to be left in place")
	}
}
