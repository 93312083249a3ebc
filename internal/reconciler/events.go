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

// Event reasons emitted by NamespaceReconciler and MemberReconciler.
const (
	EventNamespaceCreated         = "NamespaceCreated"
	EventNamespaceAssigned        = "NamespaceAssigned"
	EventNamespaceMoved           = "NamespaceMoved"
	EventNamespaceRemoved         = "NamespaceRemoved"
	EventNamespaceDeleted         = "NamespaceDeleted"
	EventNamespaceManuallyRemoved = "NamespaceManuallyRemoved"
	EventMemberAdded              = "MemberAdded"

	EventNamespaceConflict         = "NamespaceConflict"
	EventNamespaceProcessingFailed = "NamespaceProcessingFailed"
	EventNamespaceRemovalFailed    = "NamespaceRemovalFailed"
	EventMemberAddFailed           = "MemberAddFailed"
)

// Error-taxonomy labels, shared with the reconciliation-errors metric.
// ErrorTypeNamespaceCreationFailed and ErrorTypeNamespaceRemovalFailed are
// not recorded on it (see internal/metrics).
const (
	ErrorTypeNamespaceConflict         = "namespace_conflict"
	ErrorTypeNamespaceProcessingFailed = "namespace_processing_failed"
	ErrorTypeNamespaceCreationFailed   = "namespace_creation_failed"
	ErrorTypeNamespaceRemovalFailed    = "namespace_removal_failed"
	ErrorTypeMemberAddFailed           = "member_add_failed"
)
