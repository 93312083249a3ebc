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

import (
	"context"
	"fmt"

	"k8s.io/client-go/tools/record"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
	"github.com/rancherlabs/devops-project-operator/internal/platform"
	"github.com/rancherlabs/devops-project-operator/internal/policy"
)

// MemberReconciler drives one desired member binding to its platform state.
// Removal of bindings that disappear from spec.members is not performed in
// this revision (spec Design Notes: "Member removal is absent").
type MemberReconciler struct {
	Platform platform.Client
	Recorder record.EventRecorder
}

// Step resolves m's principal id if necessary, checks for an existing
// binding, and creates one if absent and allowed by decision. On success it
// appends "principalId:role" to cr.Status.ConfiguredMembers.
func (r *MemberReconciler) Step(ctx context.Context, cr *rancherv1.Project, projectID string, decision policy.Decision, m rancherv1.MemberSpec) error {
	principalID := m.PrincipalID
	if principalID == "" && m.PrincipalName != "" {
		id, err := r.Platform.GetPrincipalIdByName(ctx, m.PrincipalName)
		if err != nil {
			return fmt.Errorf("resolve principal %q: %w", m.PrincipalName, err)
		}
		if id == "" {
			r.Recorder.Eventf(cr, "Warning", EventMemberAddFailed, "Could not resolve principal %q", m.PrincipalName)
			return fmt.Errorf("principal %q not found", m.PrincipalName)
		}
		principalID = id
	}

	role := string(m.Role)

	existing, err := r.Platform.GetProjectMembers(ctx, projectID)
	if err != nil {
		return fmt.Errorf("list project members: %w", err)
	}
	for _, e := range existing {
		if e.RoleTemplateID != role {
			continue
		}
		if e.UserPrincipalID == principalID || e.GroupPrincipalID == principalID {
			cr.Status.ConfiguredMembers = appendUnique(cr.Status.ConfiguredMembers, principalID+":"+role)
			return nil
		}
	}

	if !decision.AllowCreate {
		return nil
	}

	if _, err := r.Platform.CreateProjectMember(ctx, projectID, principalID, role); err != nil {
		r.Recorder.Eventf(cr, "Warning", EventMemberAddFailed, "Failed to add member %q: %v", principalID, err)
		return fmt.Errorf("create project member %q: %w", principalID, err)
	}
	cr.Status.ConfiguredMembers = appendUnique(cr.Status.ConfiguredMembers, principalID+":"+role)
	r.Recorder.Eventf(cr, "Normal", EventMemberAdded, "Added member %q with role %q", principalID, role)
	return nil
}
