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

// Package project implements the ProjectReconciler: it drives a Project
// CR's platform project, namespace bindings and member bindings to their
// desired state, and tears them down on deletion subject to policy.
package project

import (
	"context"
	"fmt"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
	"github.com/rancherlabs/devops-project-operator/internal/condition"
	"github.com/rancherlabs/devops-project-operator/internal/config"
	"github.com/rancherlabs/devops-project-operator/internal/constant"
	"github.com/rancherlabs/devops-project-operator/internal/metrics"
	"github.com/rancherlabs/devops-project-operator/internal/ownership"
	"github.com/rancherlabs/devops-project-operator/internal/platform"
	"github.com/rancherlabs/devops-project-operator/internal/policy"
	"github.com/rancherlabs/devops-project-operator/internal/reconciler"
	"github.com/rancherlabs/devops-project-operator/internal/status"
)

// ProjectReconciler reconciles a Project object.
type ProjectReconciler struct {
	client.Client
	Platform  platform.Client
	Guard     *ownership.Guard
	Writer    *status.Writer
	Recorder  record.EventRecorder
	Config    *config.Config
	Namespace *reconciler.NamespaceReconciler
	Member    *reconciler.MemberReconciler
}

// NewProjectReconciler wires a ProjectReconciler and its sub-components from
// a controller-runtime client, a platform client and the resolved config.
func NewProjectReconciler(c client.Client, p platform.Client, recorder record.EventRecorder, cfg *config.Config) *ProjectReconciler {
	guard := ownership.NewGuard(c)
	return &ProjectReconciler{
		Client:    c,
		Platform:  p,
		Guard:     guard,
		Writer:    status.NewWriter(c),
		Recorder:  recorder,
		Config:    cfg,
		Namespace: &reconciler.NamespaceReconciler{Platform: p, Guard: guard, Recorder: recorder},
		Member:    &reconciler.MemberReconciler{Platform: p, Recorder: recorder},
	}
}

// +kubebuilder:rbac:groups=rancher.devops.io,resources=projects,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=rancher.devops.io,resources=projects/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=rancher.devops.io,resources=projects/finalizers,verbs=update

// Reconcile is part of the main kubernetes reconciliation loop which aims to
// move the current state of the cluster closer to the desired state.
//
// For more details, check Reconcile and its Result here:
// - https://pkg.go.dev/sigs.k8s.io/controller-runtime@v0.21.0/pkg/reconcile
func (r *ProjectReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	cr := &rancherv1.Project{}
	if err := r.Get(ctx, req.NamespacedName, cr); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	decision := policy.Evaluate(cr.Spec.ManagementPolicies, cr.Spec.NamespaceManagementPolicies)

	if !cr.DeletionTimestamp.IsZero() {
		return r.reconcileDelete(ctx, cr, decision)
	}

	if !controllerutil.ContainsFinalizer(cr, constant.Finalizer) {
		controllerutil.AddFinalizer(cr, constant.Finalizer)
		if err := r.Update(ctx, cr); err != nil {
			return ctrl.Result{}, fmt.Errorf("add finalizer: %w", err)
		}
	}

	start := time.Now()
	err := r.reconcile(ctx, cr, decision)
	metrics.ReconcileDuration.WithLabelValues(resultLabel(err)).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Error(err, "reconcile failed", "name", cr.Name)
		metrics.ReconciliationErrorsTotal.WithLabelValues(ErrorTypeReconciliationFailed).Inc()
		r.recordFailure(ctx, cr, err)
		r.Recorder.Eventf(cr, "Warning", EventReconcileFailed, "Reconcile failed: %v", err)
		return ctrl.Result{}, nil
	}
	return ctrl.Result{}, nil
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// reconcile implements the body of spec §4.5, swallowing all errors into
// cr.Status.ErrorMessage/Phase rather than returning them to the framework:
// a best-effort status write happens either way, and the caller still
// counts and logs the failure.
func (r *ProjectReconciler) reconcile(ctx context.Context, cr *rancherv1.Project, decision policy.Decision) error {
	r.Recorder.Event(cr, "Normal", EventReconcileStarted, "Starting reconcile")

	clusterID, err := r.Platform.GetClusterIdByName(ctx, cr.Spec.ClusterName)
	if err != nil {
		return fmt.Errorf("resolve cluster %q: %w", cr.Spec.ClusterName, err)
	}
	if clusterID == "" {
		metrics.ReconciliationErrorsTotal.WithLabelValues(ErrorTypeClusterNotFound).Inc()
		r.Recorder.Eventf(cr, "Warning", EventClusterNotFound, "Cluster %q not found on the platform", cr.Spec.ClusterName)
		return r.failStatus(ctx, cr, rancherv1.ProjectPhaseError, fmt.Sprintf("cluster %q not found", cr.Spec.ClusterName))
	}
	cr.Status.ClusterID = clusterID
	r.Recorder.Eventf(cr, "Normal", EventClusterResolved, "Resolved cluster %q to id %q", cr.Spec.ClusterName, clusterID)

	projectName := cr.Spec.DisplayName
	if projectName == "" {
		projectName = cr.Name
	}

	existing, err := r.Platform.GetProjectByName(ctx, clusterID, projectName)
	if err != nil {
		return fmt.Errorf("look up project %q: %w", projectName, err)
	}

	if existing == nil {
		if !decision.AllowCreate {
			return r.failStatus(ctx, cr, rancherv1.ProjectPhasePending, "")
		}
		r.Recorder.Eventf(cr, "Normal", EventCreatingProject, "Creating platform project %q", projectName)
		annotations := map[string]string{constant.ManagedByKey: constant.ManagedByValue}
		p, err := r.Platform.CreateProject(ctx, clusterID, projectName, cr.Spec.Description, annotations)
		if err != nil {
			metrics.ReconciliationErrorsTotal.WithLabelValues(ErrorTypeProjectCreationFailed).Inc()
			r.Recorder.Eventf(cr, "Warning", EventProjectCreationFailed, "Failed to create platform project %q: %v", projectName, err)
			return fmt.Errorf("create project %q: %w", projectName, err)
		}
		cr.Status.ProjectID = p.ID
		r.Recorder.Eventf(cr, "Normal", EventProjectCreated, "Created platform project %q (%s)", projectName, p.ID)
	} else {
		cr.Status.ProjectID = existing.ID
		if ownership.IsManagedByUs(existing.Annotations) {
			r.Recorder.Eventf(cr, "Normal", EventProjectTakenOver, "Adopted existing platform project %q (%s)", projectName, existing.ID)
		}
		if decision.AllowObserve {
			if err := r.importDiscovered(ctx, cr, clusterID, existing.ID); err != nil {
				return fmt.Errorf("import discovered state: %w", err)
			}
		}
	}

	projectID := cr.Status.ProjectID

	if err := r.Namespace.RecordManualRemovals(ctx, cr, projectID); err != nil {
		return fmt.Errorf("record manual removals: %w", err)
	}

	var stepFailed bool

	cr.Status.CreatedNamespaces = nil
	for _, n := range cr.Spec.Namespaces {
		if err := r.Namespace.Step(ctx, cr, clusterID, projectID, decision, n); err != nil {
			if conflict, ok := err.(*reconciler.ErrNamespaceConflict); ok {
				return r.failStatus(ctx, cr, rancherv1.ProjectPhaseError, conflict.Error())
			}
			metrics.ReconciliationErrorsTotal.WithLabelValues("namespace_processing_failed").Inc()
			metrics.NamespacesProcessingFailedTotal.Inc()
			logf.FromContext(ctx).Error(err, "processing namespace", "namespace", n)
			cr.Status.ErrorMessage = err.Error()
			stepFailed = true
			continue
		}
	}

	if err := r.Namespace.SweepDisappeared(ctx, cr, clusterID, projectID, decision, r.Config.CleanupNamespaces); err != nil {
		return fmt.Errorf("sweep disappeared namespaces: %w", err)
	}

	if err := r.Namespace.RecordManualRemovals(ctx, cr, projectID); err != nil {
		return fmt.Errorf("record manual removals: %w", err)
	}

	cr.Status.ConfiguredMembers = nil
	for _, m := range cr.Spec.Members {
		if err := r.Member.Step(ctx, cr, projectID, decision, m); err != nil {
			metrics.ReconciliationErrorsTotal.WithLabelValues("member_add_failed").Inc()
			logf.FromContext(ctx).Error(err, "processing member", "principal", m.PrincipalName)
			cr.Status.ErrorMessage = err.Error()
			stepFailed = true
			continue
		}
	}

	if cr.Status.ProjectID != "" && decision.AllowCreate && !stepFailed {
		cr.Status.Phase = rancherv1.ProjectPhaseActive
		cr.Status.ErrorMessage = ""
		condition.SetReadyCondition(cr, condition.ReasonReconcileSucceeded, "platform project and its namespace/member bindings are reconciled")
	} else if stepFailed {
		cr.Status.Phase = rancherv1.ProjectPhaseError
		condition.SetFailedCondition(cr, condition.TypeReady, condition.ReasonReconcileFailed, fmt.Errorf("%s", cr.Status.ErrorMessage))
	} else {
		cr.Status.ErrorMessage = ""
	}

	now := metav1.Now()
	cr.Status.LastReconcileTime = &now
	if cr.Status.CreatedTimestamp == nil && cr.Status.ProjectID != "" {
		cr.Status.CreatedTimestamp = &now
	}
	cr.Status.LastUpdatedTimestamp = &now

	if err := r.Writer.UpdateStatus(ctx, cr); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	r.Recorder.Event(cr, "Normal", EventReconcileCompleted, "Reconcile completed")
	return nil
}

// importDiscovered performs the one-shot import of discovered namespaces and
// members into an empty spec, per spec §4.5's "existing project found"
// branch, then tags every discovered namespace with the managed-by marker
// if it is untagged, regardless of whether an import happened.
func (r *ProjectReconciler) importDiscovered(ctx context.Context, cr *rancherv1.Project, clusterID, projectID string) error {
	changed := false

	namespaces, err := r.Platform.GetProjectNamespaces(ctx, projectID)
	if err != nil {
		return fmt.Errorf("list project namespaces: %w", err)
	}
	if len(cr.Spec.Namespaces) == 0 {
		for _, ns := range namespaces {
			cr.Spec.Namespaces = append(cr.Spec.Namespaces, strings.ToLower(ns.Name))
			changed = true
		}
	}

	if len(cr.Spec.Members) == 0 {
		members, err := r.Platform.GetProjectMembers(ctx, projectID)
		if err != nil {
			return fmt.Errorf("list project members: %w", err)
		}
		for _, m := range members {
			principalID := m.UserPrincipalID
			if principalID == "" {
				principalID = m.GroupPrincipalID
			}
			cr.Spec.Members = append(cr.Spec.Members, rancherv1.MemberSpec{
				PrincipalID: principalID,
				Role:        rancherv1.MemberRole(m.RoleTemplateID),
			})
			changed = true
		}
	}

	if changed {
		// UpdateSpec decodes the stored object into cr, which replaces the
		// cluster and project ids set in memory earlier in this pass.
		inMemoryStatus := cr.Status.DeepCopy()
		if err := r.Writer.UpdateSpec(ctx, cr); err != nil {
			return err
		}
		cr.Status = *inMemoryStatus
		r.Recorder.Event(cr, "Normal", EventProjectObserved, "Imported discovered namespaces/members into spec")
	}

	for _, ns := range namespaces {
		if ownership.IsManagedByUs(ns.Labels) {
			continue
		}
		if err := r.Platform.UpdateNamespaceProject(ctx, clusterID, ns.Name, projectID); err != nil {
			logf.FromContext(ctx).Error(err, "tagging discovered namespace with managed-by marker", "namespace", ns.Name)
		}
	}
	return nil
}

// failStatus writes a terminal phase/message and returns only the status
// write's error: this is not a reconcile error, it is a deliberate early stop
// (missing cluster, create forbidden by policy with no existing project, or
// a namespace claimed by another Project).
func (r *ProjectReconciler) failStatus(ctx context.Context, cr *rancherv1.Project, phase rancherv1.ProjectPhase, message string) error {
	cr.Status.Phase = phase
	cr.Status.ErrorMessage = message
	now := metav1.Now()
	cr.Status.LastReconcileTime = &now

	reason, condMessage := condition.ReasonCreateNotAllowed, message
	if phase == rancherv1.ProjectPhaseError {
		reason = condition.ReasonReconcileFailed
	}
	if condMessage == "" {
		condMessage = "no existing platform project and management policy forbids creating one"
	}
	condition.SetCondition(cr, metav1.Condition{
		Type:    condition.TypeReady,
		Status:  metav1.ConditionFalse,
		Reason:  reason,
		Message: condMessage,
	})
	return r.Writer.UpdateStatus(ctx, cr)
}

// recordFailure best-effort writes the Error phase after an uncaught
// reconcile error, per spec §4.5's "on any uncaught exception" clause. Write
// failures here are logged, not propagated: the framework will requeue on
// the original error already returned to it.
func (r *ProjectReconciler) recordFailure(ctx context.Context, cr *rancherv1.Project, cause error) {
	cr.Status.Phase = rancherv1.ProjectPhaseError
	cr.Status.ErrorMessage = cause.Error()
	now := metav1.Now()
	cr.Status.LastReconcileTime = &now
	condition.SetFailedCondition(cr, condition.TypeReady, condition.ReasonReconcileFailed, cause)
	if err := r.Writer.UpdateStatus(ctx, cr); err != nil {
		logf.FromContext(ctx).Error(err, "best-effort status write after reconcile failure also failed")
	}
}

// reconcileDelete implements spec §4.5's Delete(cr): per-namespace
// cleanup-or-detach gated on policy and CleanupNamespaces, never an
// unconditional DeleteProject, then finalizer removal.
func (r *ProjectReconciler) reconcileDelete(ctx context.Context, cr *rancherv1.Project, decision policy.Decision) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	if !controllerutil.ContainsFinalizer(cr, constant.Finalizer) {
		return ctrl.Result{}, nil
	}

	r.Recorder.Event(cr, "Normal", EventDeletionStarted, "Starting deletion")

	if !decision.AllowDelete {
		log.Info("allowDelete not set, abandoning platform project by design", "name", cr.Name)
	} else if cr.Status.ProjectID == "" {
		log.Info("no platform project recorded, nothing to clean up", "name", cr.Name)
	} else {
		for _, n := range cr.Status.CreatedNamespaces {
			switch {
			case decision.AllowNsDelete && r.Config.CleanupNamespaces:
				if _, err := r.Platform.DeleteNamespace(ctx, cr.Status.ClusterID, n); err != nil {
					metrics.ReconciliationErrorsTotal.WithLabelValues(ErrorTypeDeletionFailed).Inc()
					r.Recorder.Eventf(cr, "Warning", EventDeletionFailed, "Failed to delete namespace %q: %v", n, err)
					condition.SetFailedCondition(cr, condition.TypeReady, condition.ReasonDeletionFailed, err)
					_ = r.Writer.UpdateStatus(ctx, cr)
					return ctrl.Result{}, fmt.Errorf("delete namespace %q: %w", n, err)
				}
			case decision.AllowNsUpdate:
				if _, err := r.Platform.RemoveNamespaceFromProject(ctx, cr.Status.ClusterID, n); err != nil {
					metrics.ReconciliationErrorsTotal.WithLabelValues(ErrorTypeDeletionFailed).Inc()
					r.Recorder.Eventf(cr, "Warning", EventDeletionFailed, "Failed to detach namespace %q: %v", n, err)
					condition.SetFailedCondition(cr, condition.TypeReady, condition.ReasonDeletionFailed, err)
					_ = r.Writer.UpdateStatus(ctx, cr)
					return ctrl.Result{}, fmt.Errorf("detach namespace %q: %w", n, err)
				}
			}
		}
		r.Recorder.Event(cr, "Normal", EventProjectDeleted, "Project namespaces cleaned up or detached; platform project left to the managed-by check")
	}

	controllerutil.RemoveFinalizer(cr, constant.Finalizer)
	if err := r.Update(ctx, cr); err != nil {
		return ctrl.Result{}, fmt.Errorf("remove finalizer: %w", err)
	}
	return ctrl.Result{}, nil
}

// SetupWithManager sets up the controller with the Manager.
func (r *ProjectReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&rancherv1.Project{}).
		Named("project").
		Complete(r)
}
