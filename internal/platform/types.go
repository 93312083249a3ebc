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

// Package platform declares the typed client interface the reconciliation
// engine consumes to talk to the downstream cluster-management platform,
// along with the domain objects it exchanges.
package platform

// Project is a project as the platform represents it.
type Project struct {
	ID          string
	ClusterID   string
	Name        string
	Description string
	Annotations map[string]string
}

// Namespace is a namespace as the platform represents it.
type Namespace struct {
	Name        string
	ClusterID   string
	ProjectID   string
	Annotations map[string]string
	Labels      map[string]string
}

// Member is a project-scoped role binding as the platform represents it.
type Member struct {
	ID               string
	ProjectID        string
	RoleTemplateID   string
	UserPrincipalID  string
	GroupPrincipalID string
}
