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

package platform

import "context"

// Client is the capability set the reconciliation engine consumes from the
// downstream cluster-management platform. Implementations must be safe for
// concurrent use by multiple reconciles.
type Client interface {
	// GetClusterIdByName returns the platform cluster id for name, or "" if
	// no such cluster is registered.
	GetClusterIdByName(ctx context.Context, name string) (string, error)

	// GetProjectByName returns the project named name in clusterId, matched
	// case-sensitively, or nil if none exists.
	GetProjectByName(ctx context.Context, clusterID, name string) (*Project, error)

	// CreateProject creates a project in clusterId with the given name,
	// description and annotations (the caller always includes the
	// managed-by annotation).
	CreateProject(ctx context.Context, clusterID, name, description string, annotations map[string]string) (*Project, error)

	// DeleteProject deletes a project. Implementations must refuse (return
	// false, nil) if the project's managed-by annotation does not match the
	// operator's identity.
	DeleteProject(ctx context.Context, projectID string) (bool, error)

	// GetNamespace returns the namespace named name in clusterId, or nil if
	// it does not exist.
	GetNamespace(ctx context.Context, clusterID, name string) (*Namespace, error)

	// CreateNamespace creates namespace name (already lowercased by the
	// caller) bound to projectID, stamped with the managed-by label and
	// annotation.
	CreateNamespace(ctx context.Context, clusterID, projectID, name string) (*Namespace, error)

	// UpdateNamespaceProject rebinds namespace name to newProjectID,
	// preserving existing labels and setting the managed-by marker if it is
	// missing.
	UpdateNamespaceProject(ctx context.Context, clusterID, name, newProjectID string) error

	// RemoveNamespaceFromProject clears the namespace's project binding.
	// Implementations must refuse (return false, nil) if the namespace is
	// not managed by this operator.
	RemoveNamespaceFromProject(ctx context.Context, clusterID, name string) (bool, error)

	// DeleteNamespace deletes the namespace. Implementations must refuse
	// (return false, nil) if the namespace is not managed by this operator.
	DeleteNamespace(ctx context.Context, clusterID, name string) (bool, error)

	// GetProjectNamespaces lists all namespaces currently bound to projectID.
	GetProjectNamespaces(ctx context.Context, projectID string) ([]Namespace, error)

	// GetProjectMembers lists all member bindings on projectID.
	GetProjectMembers(ctx context.Context, projectID string) ([]Member, error)

	// CreateProjectMember creates a role binding for principalID on
	// projectID with the given role template.
	CreateProjectMember(ctx context.Context, projectID, principalID, roleTemplateID string) (*Member, error)

	// GetPrincipalIdByName resolves a principal name to its platform id,
	// matched case-insensitively, or "" if not found.
	GetPrincipalIdByName(ctx context.Context, name string) (string, error)

	// GetClusterKubeconfig returns a downstream-cluster access config for
	// the ObserveLoop, or "" if unavailable.
	GetClusterKubeconfig(ctx context.Context, clusterID string) (string, error)
}
