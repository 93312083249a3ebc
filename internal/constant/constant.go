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

// Package constant holds identifiers shared across the operator's packages.
package constant

const (
	// ManagedByKey is the annotation/label key the operator stamps on every
	// platform project and namespace it creates, and the precondition every
	// destructive platform call is gated on.
	ManagedByKey = "app.kubernetes.io/managed-by"
	// ManagedByValue is the operator's identity for the managed-by marker.
	ManagedByValue = "rancher-devops-operator"

	// FieldManager is this controller's field-manager name. The CR update calls in
	// this repository do not pass it.
	FieldManager = "rancher-devops-operator"

	// Finalizer is set on every Project CR so Delete(cr) is guaranteed to run
	// before the API server removes the resource.
	Finalizer = "rancher.devops.io/project-finalizer"
)
