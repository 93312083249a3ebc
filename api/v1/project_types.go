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

package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ProjectPhase is the coarse reconciliation state of a Project, surfaced in status.phase.
// +kubebuilder:validation:Enum=Pending;Active;Error
type ProjectPhase string

const (
	// ProjectPhasePending means the project has not yet been reconciled against the platform.
	ProjectPhasePending ProjectPhase = "Pending"
	// ProjectPhaseActive means the last reconcile completed without error.
	ProjectPhaseActive ProjectPhase = "Active"
	// ProjectPhaseError means the last reconcile attempt failed; errorMessage carries the detail.
	ProjectPhaseError ProjectPhase = "Error"
)

// MemberRole is a platform role-template id (e.g. "project-owner",
// "project-member"), passed through to the platform's roleTemplateId
// field unvalidated: the operator does not maintain its own closed
// vocabulary of platform roles.
type MemberRole string

// MemberSpec declares one principal's desired membership on the platform project.
type MemberSpec struct {
	// PrincipalName is the human-readable identity (e.g. a username or group name) resolved
	// to a platform principal ID at reconcile time. Optional when PrincipalID is set directly.
	// +optional
	PrincipalName string `json:"principalName,omitempty"`

	// PrincipalID, when set, is used directly and PrincipalName is not resolved against the
	// platform's principal lookup. Optional.
	// +optional
	PrincipalID string `json:"principalId,omitempty"`

	// Role is the project role granted to this principal.
	Role MemberRole `json:"role"`
}

// ResourceQuotaSpec holds platform project resource-quota fields as opaque values; the
// operator does not interpret or validate them, and the reconciler does not send them to
// the platform.
type ResourceQuotaSpec struct {
	// Limit is an opaque map of quota keys (e.g. "limitsCpu", "limitsMemory") to limit strings.
	// +optional
	Limit map[string]string `json:"limit,omitempty"`
}

// ProjectSpec is the desired state of a platform project and the namespaces/members bound to it.
type ProjectSpec struct {
	// ClusterName identifies the downstream cluster this project belongs to, by the name the
	// platform knows it by. Changes after creation are not rejected.
	// +kubebuilder:validation:MinLength=1
	ClusterName string `json:"clusterName"`

	// DisplayName is the human-facing project name on the platform. Defaults to the CR name
	// when empty.
	// +optional
	DisplayName string `json:"displayName,omitempty"`

	// Description is an opaque free-text field passed through to the platform.
	// +optional
	Description string `json:"description,omitempty"`

	// Namespaces is the desired set of namespace names bound to this project. Names are
	// compared case-insensitively and normalized to lowercase on the wire.
	// +optional
	Namespaces []string `json:"namespaces,omitempty"`

	// Members is the desired set of principal-to-role bindings on this project.
	// +optional
	Members []MemberSpec `json:"members,omitempty"`

	// ResourceQuota is stored on the CR as declared; the reconciler does not send it to the
	// platform project.
	// +optional
	ResourceQuota *ResourceQuotaSpec `json:"resourceQuota,omitempty"`

	// ManagementPolicies controls which platform-project-level operations the operator is
	// allowed to perform. Valid values: "Create", "Delete", "Observe". Defaults to {"Create"}
	// when empty.
	// +optional
	ManagementPolicies []string `json:"managementPolicies,omitempty"`

	// NamespaceManagementPolicies controls which namespace-level operations the operator is
	// allowed to perform. Valid values: "Create", "Update", "Delete". Defaults to
	// {"Create", "Update"} when empty.
	// +optional
	NamespaceManagementPolicies []string `json:"namespaceManagementPolicies,omitempty"`
}

// ProjectStatus is the observed state of a Project, written exclusively by the operator.
type ProjectStatus struct {
	// ProjectID is the platform's identifier for the backing project, once created or found.
	// +optional
	ProjectID string `json:"projectId,omitempty"`

	// ClusterID is the platform's identifier for spec.clusterName, resolved at reconcile time.
	// +optional
	ClusterID string `json:"clusterId,omitempty"`

	// Phase summarizes the outcome of the most recent reconcile attempt.
	// +optional
	Phase ProjectPhase `json:"phase,omitempty"`

	// CreatedNamespaces records namespace names this operator has created on the platform.
	// It is an audit trail, not the authoritative desired set; spec.namespaces remains
	// authoritative for reconciliation.
	// +optional
	CreatedNamespaces []string `json:"createdNamespaces,omitempty"`

	// ManuallyRemovedNamespaces records namespaces still present in spec.namespaces that were
	// found absent from the platform project on a prior reconcile (i.e. removed out-of-band),
	// so the operator does not recreate them without an explicit spec change.
	// +optional
	ManuallyRemovedNamespaces []string `json:"manuallyRemovedNamespaces,omitempty"`

	// ConfiguredMembers records "principalId:role" entries for the spec members found bound,
	// or bound by the operator, on the platform project during the most recent reconcile.
	// +optional
	ConfiguredMembers []string `json:"configuredMembers,omitempty"`

	// LastReconcileTime is the timestamp of the most recent reconcile attempt, successful or not.
	// +optional
	LastReconcileTime *metav1.Time `json:"lastReconcileTime,omitempty"`

	// CreatedTimestamp is the timestamp at which the platform project was first created or
	// adopted by this CR.
	// +optional
	CreatedTimestamp *metav1.Time `json:"createdTimestamp,omitempty"`

	// LastUpdatedTimestamp is the timestamp of the most recent reconcile that reached its final
	// status write, including one in which a namespace or member step failed.
	// +optional
	LastUpdatedTimestamp *metav1.Time `json:"lastUpdatedTimestamp,omitempty"`

	// ErrorMessage carries the detail of the most recent reconcile failure. Cleared on success.
	// +optional
	ErrorMessage string `json:"errorMessage,omitempty"`

	// Conditions holds the standard Kubernetes status conditions for this resource, keyed by
	// type. The "Ready" type mirrors Phase in a form tooling built against status conditions
	// (e.g. kstatus) can consume directly.
	// +optional
	// +patchMergeKey=type
	// +patchStrategy=merge
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty" patchStrategy:"merge" patchMergeKey:"type"`
}

// GetConditions implements condition.Accessor.
func (p *Project) GetConditions() []metav1.Condition {
	return p.Status.Conditions
}

// SetConditions implements condition.Accessor.
func (p *Project) SetConditions(conditions []metav1.Condition) {
	p.Status.Conditions = conditions
}

// Project declares a platform project, its namespace bindings and member bindings, and
// instructs the operator to reconcile them against the downstream cluster-management platform.
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Cluster
// +kubebuilder:printcolumn:name="Cluster",type=string,JSONPath=`.spec.clusterName`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type Project struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ProjectSpec   `json:"spec,omitempty"`
	Status ProjectStatus `json:"status,omitempty"`
}

// ProjectList contains a list of Project.
// +kubebuilder:object:root=true
type ProjectList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Project `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Project{}, &ProjectList{})
}
