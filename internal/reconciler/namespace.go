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

// Package reconciler drives a single Project's namespace and member
// bindings to their desired state against the platform (NamespaceReconciler
// and MemberReconciler).
package reconciler

import (
	"context"
	"fmt"
	"strings"

	"k8s.io/client-go/tools/record"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
	"github.com/rancherlabs/devops-project-operator/internal/ownership"
	"github.com/rancherlabs/devops-project-operator/internal/platform"
	"github.com/rancherlabs/devops-project-operator/internal/policy"
)

// NamespaceReconciler drives a single namespace to its desired state:
// create, assign, move, detach or delete, respecting ownership and policy.
type NamespaceReconciler struct {
	Platform platform.Client
	Guard    *ownership.Guard
	Recorder record.EventRecorder
}

// ErrNamespaceConflict is returned when a namespace is claimed by another
// Project CR; the caller must abort the whole reconcile immediately.
type ErrNamespaceConflict struct {
	Namespace string
}

func (e *ErrNamespaceConflict) Error() string {
	return fmt.Sprintf("Namespace %q is already claimed by another Project CR and cannot be moved.", e.Namespace)
}

// Step drives namespace n (lowercased here before use) to its desired
// state for cr. It returns *ErrNamespaceConflict when ownership is claimed
// by another CR — the caller must stop processing this reconcile entirely.
// Any other error is isolated to this namespace: the caller should log it,
// count it, and continue to the next namespace.
func (r *NamespaceReconciler) Step(ctx context.Context, cr *rancherv1.Project, clusterID, projectID string, decision policy.Decision, n string) error {
	n = strings.ToLower(n)

	if isTombstoned(cr, n) {
		return nil
	}

	ns, err := r.Platform.GetNamespace(ctx, clusterID, n)
	if err != nil {
		return fmt.Errorf("get namespace %q: %w", n, err)
	}

	switch {
	case ns == nil:
		if !decision.AllowNsCreate {
			return nil
		}
		if _, err := r.Platform.CreateNamespace(ctx, clusterID, projectID, n); err != nil {
			return fmt.Errorf("create namespace %q: %w", n, err)
		}
		cr.Status.CreatedNamespaces = appendUnique(cr.Status.CreatedNamespaces, n)
		r.Recorder.Eventf(cr, "Normal", EventNamespaceCreated, "Created namespace %q", n)

	case ns.ProjectID == projectID:
		// already satisfied

	case ns.ProjectID != "":
		if r.Guard.IsClaimedByAnother(ctx, n, cr.Name) {
			r.Recorder.Eventf(cr, "Warning", EventNamespaceConflict, "Namespace %q is already claimed by another Project CR", n)
			return &ErrNamespaceConflict{Namespace: n}
		}
		if decision.AllowNsUpdate {
			if err := r.Platform.UpdateNamespaceProject(ctx, clusterID, n, projectID); err != nil {
				return fmt.Errorf("move namespace %q: %w", n, err)
			}
			r.Recorder.Eventf(cr, "Normal", EventNamespaceMoved, "Moved namespace %q into this project", n)
		}

	default: // ns.ProjectID == ""
		if decision.AllowNsUpdate {
			if err := r.Platform.UpdateNamespaceProject(ctx, clusterID, n, projectID); err != nil {
				return fmt.Errorf("assign namespace %q: %w", n, err)
			}
			r.Recorder.Eventf(cr, "Normal", EventNamespaceAssigned, "Assigned namespace %q to this project", n)
		}
	}
	return nil
}

// SweepDisappeared re-lists the project's platform namespaces and, for any
// one not named in cr.Spec.Namespaces, either deletes or detaches it
// according to policy, subject to the managed-by precondition.
func (r *NamespaceReconciler) SweepDisappeared(ctx context.Context, cr *rancherv1.Project, clusterID, projectID string, decision policy.Decision, cleanupNamespaces bool) error {
	current, err := r.Platform.GetProjectNamespaces(ctx, projectID)
	if err != nil {
		return fmt.Errorf("list project namespaces: %w", err)
	}

	desired := lowerSet(cr.Spec.Namespaces)

	for _, ns := range current {
		name := strings.ToLower(ns.Name)
		if desired[name] {
			continue
		}
		if !ownership.IsManagedByUs(ns.Labels) {
			continue
		}

		switch {
		case decision.AllowNsDelete && cleanupNamespaces:
			if ok, err := r.Platform.DeleteNamespace(ctx, clusterID, name); err != nil {
				r.Recorder.Eventf(cr, "Warning", EventNamespaceRemovalFailed, "Failed to delete namespace %q: %v", name, err)
				return fmt.Errorf("delete namespace %q: %w", name, err)
			} else if ok {
				r.Recorder.Eventf(cr, "Normal", EventNamespaceDeleted, "Deleted namespace %q no longer in spec", name)
			}
		case decision.AllowNsUpdate:
			if ok, err := r.Platform.RemoveNamespaceFromProject(ctx, clusterID, name); err != nil {
				r.Recorder.Eventf(cr, "Warning", EventNamespaceRemovalFailed, "Failed to detach namespace %q: %v", name, err)
				return fmt.Errorf("detach namespace %q: %w", name, err)
			} else if ok {
				r.Recorder.Eventf(cr, "Normal", EventNamespaceRemoved, "Removed namespace %q from this project", name)
			}
		}
	}
	return nil
}

// RecordManualRemovals computes the set of platform-project namespace names
// and, for any name still in cr.Spec.Namespaces but absent from that set and
// not already tombstoned, appends it to status.manuallyRemovedNamespaces and
// emits NamespaceManuallyRemoved. Must run before SweepDisappeared observes
// post-sweep state, per the spec ordering (manual-removal pass precedes the
// disappearance sweep's own effects on subsequent reconciles).
func (r *NamespaceReconciler) RecordManualRemovals(ctx context.Context, cr *rancherv1.Project, projectID string) error {
	current, err := r.Platform.GetProjectNamespaces(ctx, projectID)
	if err != nil {
		return fmt.Errorf("list project namespaces: %w", err)
	}
	currentSet := make(map[string]bool, len(current))
	for _, ns := range current {
		currentSet[strings.ToLower(ns.Name)] = true
	}

	for _, n := range cr.Spec.Namespaces {
		n = strings.ToLower(n)
		if currentSet[n] || isTombstoned(cr, n) {
			continue
		}
		cr.Status.ManuallyRemovedNamespaces = appendUnique(cr.Status.ManuallyRemovedNamespaces, n)
		r.Recorder.Eventf(cr, "Normal", EventNamespaceManuallyRemoved, "Namespace %q was removed from the platform project out-of-band and will not be recreated", n)
	}
	return nil
}

func isTombstoned(cr *rancherv1.Project, n string) bool {
	for _, t := range cr.Status.ManuallyRemovedNamespaces {
		if strings.EqualFold(t, n) {
			return true
		}
	}
	return false
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}
