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

// Package ownership implements the cross-CR namespace-ownership guard and
// the managed-by precondition checked before every destructive platform call.
package ownership

import (
	"context"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
	"github.com/rancherlabs/devops-project-operator/internal/constant"
)

// Guard checks namespace ownership across Project CRs and the managed-by
// marker on platform objects.
type Guard struct {
	Client client.Client
}

// NewGuard returns a Guard backed by c.
func NewGuard(c client.Client) *Guard {
	return &Guard{Client: c}
}

// IsClaimedByAnother reports whether nsName appears in spec.namespaces of
// any Project other than currentCRName. Errors listing CRs are logged as
// warnings and treated as "not claimed": the guard fails open for reads
// because the operator's own CR list is the only source of truth here, and
// blocking reconciliation on a transient list error would stall every CR.
func (g *Guard) IsClaimedByAnother(ctx context.Context, nsName, currentCRName string) bool {
	logger := log.FromContext(ctx)
	nsName = strings.ToLower(nsName)

	var list rancherv1.ProjectList
	if err := g.Client.List(ctx, &list); err != nil {
		logger.Error(err, "listing Projects to check namespace ownership; treating as unclaimed", "namespace", nsName)
		return false
	}

	for _, p := range list.Items {
		if p.Name == currentCRName {
			continue
		}
		for _, n := range p.Spec.Namespaces {
			if strings.EqualFold(n, nsName) {
				return true
			}
		}
	}
	return false
}

// IsManagedByUs inspects obj's managed-by marker (a project's annotations,
// or a namespace's labels) and reports whether it matches this operator's
// identity. Called before every destructive platform call.
func IsManagedByUs(markers map[string]string) bool {
	return markers[constant.ManagedByKey] == constant.ManagedByValue
}
