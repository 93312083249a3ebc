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

package condition

// TypeReady indicates the overall readiness of a Project: its platform
// project exists and its desired namespaces and members are configured.
const TypeReady = "Ready"

// Reason constants surfaced on the Ready condition.
const (
	ReasonReconcileSucceeded = "ReconcileSucceeded"
	ReasonClusterNotFound    = "ClusterNotFound"
	ReasonCreateNotAllowed   = "CreateNotAllowed"
	ReasonProjectCreateFailed = "ProjectCreateFailed"
	ReasonReconcileFailed    = "ReconcileFailed"
	ReasonDeletionFailed     = "DeletionFailed"
)
