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

// Package status applies spec and status updates to a Project CR with
// bounded conflict-retry: refetch, carry the in-memory fields onto the
// refetched object, and retry.
package status

import (
	"context"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
)

// maxAttempts bounds the refetch-and-retry loop for both UpdateSpec and
// UpdateStatus; the spec-declared backoff is 100ms * attempt.
const maxAttempts = 3

// Writer is the StatusWriter component: it carries in-memory spec/status
// edits onto a Project CR, retrying on optimistic-concurrency conflicts.
type Writer struct {
	Client client.Client
}

// NewWriter returns a Writer backed by c.
func NewWriter(c client.Client) *Writer {
	return &Writer{Client: c}
}

// UpdateSpec persists cr.Spec, making up to maxAttempts attempts in all when
// the server reports version conflicts. On each retry it refetches the CR by name,
// re-applies cr.Spec onto the refetched object, and sleeps 100ms*attempt
// between attempts.
func (w *Writer) UpdateSpec(ctx context.Context, cr *rancherv1.Project) error {
	desired := *cr.Spec.DeepCopy()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		cr.Spec = desired
		err := w.Client.Update(ctx, cr)
		if err == nil {
			return nil
		}
		if !apierrors.IsConflict(err) || attempt == maxAttempts {
			return fmt.Errorf("update Project %q spec: %w", cr.Name, err)
		}

		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		if err := w.Client.Get(ctx, types.NamespacedName{Name: cr.Name}, cr); err != nil {
			return fmt.Errorf("refetch Project %q after spec conflict: %w", cr.Name, err)
		}
	}
	return fmt.Errorf("update Project %q spec: exhausted %d attempts", cr.Name, maxAttempts)
}

// UpdateStatus persists cr.Status, with the same refetch-and-retry
// discipline as UpdateSpec.
func (w *Writer) UpdateStatus(ctx context.Context, cr *rancherv1.Project) error {
	desired := *cr.Status.DeepCopy()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		cr.Status = desired
		err := w.Client.Status().Update(ctx, cr)
		if err == nil {
			return nil
		}
		if !apierrors.IsConflict(err) || attempt == maxAttempts {
			return fmt.Errorf("update Project %q status: %w", cr.Name, err)
		}

		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		if err := w.Client.Get(ctx, types.NamespacedName{Name: cr.Name}, cr); err != nil {
			return fmt.Errorf("refetch Project %q after status conflict: %w", cr.Name, err)
		}
	}
	return fmt.Errorf("update Project %q status: exhausted %d attempts", cr.Name, maxAttempts)
}
