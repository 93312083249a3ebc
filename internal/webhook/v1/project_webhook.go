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
	"context"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
)

var projectlog = logf.Log.WithName("project-resource")

var validManagementPolicies = map[string]bool{"create": true, "delete": true, "observe": true}
var validNamespaceManagementPolicies = map[string]bool{"create": true, "update": true, "delete": true}

// SetupProjectWebhookWithManager registers the validating webhook for Project in the manager.
func SetupProjectWebhookWithManager(mgr ctrl.Manager) error {
	return ctrl.NewWebhookManagedBy(mgr).For(&rancherv1.Project{}).
		WithValidator(&ProjectCustomValidator{Client: mgr.GetClient()}).
		Complete()
}

// +kubebuilder:webhook:path=/validate-rancher-devops-io-v1-project,mutating=false,failurePolicy=fail,sideEffects=None,groups=rancher.devops.io,resources=projects,verbs=create;update,versions=v1,name=vproject-v1.kb.io,admissionReviewVersions=v1

// ProjectCustomValidator rejects Projects whose policy lists use a value
// outside the closed vocabulary, or whose spec.namespaces contains a
// case-insensitive duplicate. It does not enforce the cross-CR single-owner
// invariant: that check requires listing every Project and is handled by
// the OwnershipGuard at reconcile time, because an admission-time check here
// would be a TOCTOU race between two concurrent creates — a secondary net,
// not the primary guard.
type ProjectCustomValidator struct {
	Client client.Client
}

var _ webhook.CustomValidator = &ProjectCustomValidator{}

// ValidateCreate implements webhook.CustomValidator.
func (v *ProjectCustomValidator) ValidateCreate(ctx context.Context, obj runtime.Object) (admission.Warnings, error) {
	p, ok := obj.(*rancherv1.Project)
	if !ok {
		return nil, fmt.Errorf("expected a Project object but got %T", obj)
	}
	projectlog.Info("validating Project upon creation", "name", p.GetName())
	return nil, validateProjectSpec(p)
}

// ValidateUpdate implements webhook.CustomValidator.
func (v *ProjectCustomValidator) ValidateUpdate(ctx context.Context, oldObj, newObj runtime.Object) (admission.Warnings, error) {
	p, ok := newObj.(*rancherv1.Project)
	if !ok {
		return nil, fmt.Errorf("expected a Project object for the newObj but got %T", newObj)
	}
	projectlog.Info("validating Project upon update", "name", p.GetName())
	return nil, validateProjectSpec(p)
}

// ValidateDelete implements webhook.CustomValidator.
func (v *ProjectCustomValidator) ValidateDelete(ctx context.Context, obj runtime.Object) (admission.Warnings, error) {
	return nil, nil
}

func validateProjectSpec(p *rancherv1.Project) error {
	for _, policyValue := range p.Spec.ManagementPolicies {
		if !validManagementPolicies[strings.ToLower(policyValue)] {
			return fmt.Errorf("managementPolicies: %q is not one of Create, Delete, Observe", policyValue)
		}
	}
	for _, policyValue := range p.Spec.NamespaceManagementPolicies {
		if !validNamespaceManagementPolicies[strings.ToLower(policyValue)] {
			return fmt.Errorf("namespaceManagementPolicies: %q is not one of Create, Update, Delete", policyValue)
		}
	}

	seen := make(map[string]string, len(p.Spec.Namespaces))
	for _, n := range p.Spec.Namespaces {
		lower := strings.ToLower(n)
		if original, ok := seen[lower]; ok {
			return fmt.Errorf("namespaces: %q and %q are the same namespace (case-insensitive)", original, n)
		}
		seen[lower] = n
	}

	return nil
}
