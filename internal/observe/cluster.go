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

package observe

import (
	"context"
	"strings"
	"time"

	logf "sigs.k8s.io/controller-runtime/pkg/log"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
	"github.com/rancherlabs/devops-project-operator/internal/metrics"
	"github.com/rancherlabs/devops-project-operator/internal/platform"
)

// reconnectBackoff is the delay before reopening a terminated watch stream.
const reconnectBackoff = 5 * time.Second

// namespaceAnnotation is the platform-applied annotation recording which
// project a namespace is bound to.
const namespaceAnnotation = "field.cattle.io/projectId"

// watchCluster opens a streaming watch on clusterName's namespaces and feeds
// each Added/Modified event through ProcessNamespaceForProjects. On stream
// termination it reconnects after reconnectBackoff.
//
// The downstream watch transport is provided by platform.Client's consumed
// kubeconfig (GetClusterKubeconfig); constructing a client from it is
// infrastructure this package does not own (internal/observe/kubewatch builds
// a client-go clientset from it) — instead watchCluster calls
// WatchNamespaces, the narrow seam tests and
// real deployments both implement, and drains it the same way regardless of
// transport.
func (l *Loop) watchCluster(ctx context.Context, clusterName string) {
	log := logf.FromContext(ctx).WithName("observe-loop").WithValues("cluster", clusterName, "mode", "watch")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		events, err := l.Watcher.WatchNamespaces(ctx, clusterName)
		if err != nil {
			log.Error(err, "opening namespace watch, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectBackoff):
				continue
			}
		}

		for ns := range events {
			l.processNamespace(ctx, clusterName, ns)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectBackoff):
		}
	}
}

// pollCluster lists clusterName's namespaces every PollingInterval and feeds
// each one through ProcessNamespaceForProjects.
func (l *Loop) pollCluster(ctx context.Context, clusterName string) {
	log := logf.FromContext(ctx).WithName("observe-loop").WithValues("cluster", clusterName, "mode", "poll")

	ticker := time.NewTicker(l.Config.PollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			namespaces, err := l.Watcher.ListNamespaces(ctx, clusterName)
			if err != nil {
				log.Error(err, "listing namespaces")
				continue
			}
			for _, ns := range namespaces {
				l.processNamespace(ctx, clusterName, ns)
			}
		}
	}
}

// processNamespace re-lists Observe-eligible Projects and delegates to
// ProcessNamespaceForProjects.
func (l *Loop) processNamespace(ctx context.Context, clusterName string, ns platform.Namespace) {
	log := logf.FromContext(ctx).WithName("observe-loop")

	var list rancherv1.ProjectList
	if err := l.Client.List(ctx, &list); err != nil {
		log.Error(err, "listing Projects while processing discovered namespace")
		return
	}

	var observeCRs []rancherv1.Project
	for _, p := range list.Items {
		if hasObservePolicy(p) {
			observeCRs = append(observeCRs, p)
		}
	}

	if err := l.ProcessNamespaceForProjects(ctx, clusterName, ns, observeCRs); err != nil {
		log.Error(err, "processing discovered namespace", "namespace", ns.Name)
	}
}

// ProcessNamespaceForProjects extracts ns's bound projectId and, for the
// first observe-eligible CR in observeCRs that targets that cluster and
// project, appends ns.Name to that CR's spec (unless already listed) and
// writes it through StatusWriter with conflict-retry.
func (l *Loop) ProcessNamespaceForProjects(ctx context.Context, clusterName string, ns platform.Namespace, observeCRs []rancherv1.Project) error {
	projectID := ns.Annotations[namespaceAnnotation]
	if projectID == "" {
		return nil
	}

	for i := range observeCRs {
		cr := &observeCRs[i]
		if cr.Spec.ClusterName != clusterName || cr.Status.ProjectID != projectID {
			continue
		}
		if containsFold(cr.Spec.Namespaces, ns.Name) {
			continue
		}

		cr.Spec.Namespaces = append(cr.Spec.Namespaces, ns.Name)
		if err := l.Writer.UpdateSpec(ctx, cr); err != nil {
			return err
		}
		metrics.ObserveNamespacesDiscoveredTotal.Inc()
		l.Recorder.Eventf(cr, "Normal", "NamespaceDiscovered", "Discovered namespace %q bound to this project on the platform", ns.Name)
		return nil
	}
	return nil
}

func containsFold(values []string, v string) bool {
	for _, existing := range values {
		if strings.EqualFold(existing, v) {
			return true
		}
	}
	return false
}
