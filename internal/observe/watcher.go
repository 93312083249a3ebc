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

	"github.com/rancherlabs/devops-project-operator/internal/platform"
)

// Watcher is the narrow seam between the ObserveLoop and a downstream
// cluster's namespace inventory, decoupling this package from how a
// kubeconfig obtained via platform.Client.GetClusterKubeconfig is turned
// into a live connection — that construction is container/deployment
// wiring, not reconciliation-engine logic.
type Watcher interface {
	// WatchNamespaces opens a streaming watch on clusterName's namespaces,
	// delivering one platform.Namespace per Added or Modified event. The
	// channel is closed when the stream terminates; the caller reconnects.
	WatchNamespaces(ctx context.Context, clusterName string) (<-chan platform.Namespace, error)

	// ListNamespaces lists all namespaces currently in clusterName.
	ListNamespaces(ctx context.Context, clusterName string) ([]platform.Namespace, error)
}
