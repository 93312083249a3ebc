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

// Event reasons emitted on the Project CR itself, distinct from the
// namespace/member-level reasons in internal/reconciler.
const (
	EventReconcileStarted   = "ReconcileStarted"
	EventClusterResolved    = "ClusterResolved"
	EventCreatingProject    = "CreatingProject"
	EventProjectCreated     = "ProjectCreated"
	EventProjectTakenOver   = "ProjectTakenOver"
	EventProjectObserved    = "ProjectObserved"
	EventReconcileCompleted = "ReconcileCompleted"

	EventDeletionStarted = "DeletionStarted"
	EventProjectDeleted  = "ProjectDeleted"

	EventClusterNotFound       = "ClusterNotFound"
	EventProjectCreationFailed = "ProjectCreationFailed"
	EventReconcileFailed       = "ReconcileFailed"
	EventDeletionFailed        = "DeletionFailed"
)

// Error taxonomy labels for the reconciliation_errors_total metric that are
// specific to ProjectReconciler (namespace/member-level labels live in
// internal/reconciler/events.go).
const (
	ErrorTypeClusterNotFound       = "cluster_not_found"
	ErrorTypeProjectCreationFailed = "project_creation_failed"
	ErrorTypeReconciliationFailed  = "reconciliation_failed"
	ErrorTypeDeletionFailed        = "deletion_failed"
)
