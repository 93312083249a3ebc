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

// Package kubewatch is the production implementation of observe.Watcher: it
// turns a downstream cluster's kubeconfig, obtained from the platform
// client, into a live typed client-go clientset and watches or lists its
// namespaces.
package kubewatch

import (
	"context"
	"fmt"
	"sync"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/rancherlabs/devops-project-operator/internal/platform"
)

// Watcher implements observe.Watcher against real downstream clusters,
// resolving each cluster name to a kubeconfig via Platform and caching one
// clientset per cluster.
type Watcher struct {
	Platform platform.Client

	mu      sync.Mutex
	clients map[string]kubernetes.Interface
}

// New returns a Watcher backed by p.
func New(p platform.Client) *Watcher {
	return &Watcher{Platform: p, clients: make(map[string]kubernetes.Interface)}
}

func (w *Watcher) clientFor(ctx context.Context, clusterName string) (kubernetes.Interface, error) {
	w.mu.Lock()
	if c, ok := w.clients[clusterName]; ok {
		w.mu.Unlock()
		return c, nil
	}
	w.mu.Unlock()

	clusterID, err := w.Platform.GetClusterIdByName(ctx, clusterName)
	if err != nil {
		return nil, fmt.Errorf("resolve cluster %q: %w", clusterName, err)
	}
	if clusterID == "" {
		return nil, fmt.Errorf("cluster %q not found", clusterName)
	}

	kubeconfig, err := w.Platform.GetClusterKubeconfig(ctx, clusterID)
	if err != nil {
		return nil, fmt.Errorf("get kubeconfig for cluster %q: %w", clusterName, err)
	}
	if kubeconfig == "" {
		return nil, fmt.Errorf("no kubeconfig available for cluster %q", clusterName)
	}

	restCfg, err := clientcmd.RESTConfigFromKubeConfig([]byte(kubeconfig))
	if err != nil {
		return nil, fmt.Errorf("parse kubeconfig for cluster %q: %w", clusterName, err)
	}

	clientset, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("build client for cluster %q: %w", clusterName, err)
	}

	w.mu.Lock()
	w.clients[clusterName] = clientset
	w.mu.Unlock()
	return clientset, nil
}

// WatchNamespaces implements observe.Watcher.
func (w *Watcher) WatchNamespaces(ctx context.Context, clusterName string) (<-chan platform.Namespace, error) {
	client, err := w.clientFor(ctx, clusterName)
	if err != nil {
		return nil, err
	}

	watcher, err := client.CoreV1().Namespaces().Watch(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("open namespace watch on cluster %q: %w", clusterName, err)
	}

	out := make(chan platform.Namespace)
	go func() {
		defer close(out)
		defer watcher.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.ResultChan():
				if !ok {
					return
				}
				if event.Type != watch.Added && event.Type != watch.Modified {
					continue
				}
				ns, ok := event.Object.(*corev1.Namespace)
				if !ok {
					continue
				}
				select {
				case out <- toNamespace(ns):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// ListNamespaces implements observe.Watcher.
func (w *Watcher) ListNamespaces(ctx context.Context, clusterName string) ([]platform.Namespace, error) {
	client, err := w.clientFor(ctx, clusterName)
	if err != nil {
		return nil, err
	}

	list, err := client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list namespaces on cluster %q: %w", clusterName, err)
	}

	out := make([]platform.Namespace, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, toNamespace(&list.Items[i]))
	}
	return out, nil
}

func toNamespace(ns *corev1.Namespace) platform.Namespace {
	return platform.Namespace{
		Name:        ns.Name,
		Annotations: ns.Annotations,
		Labels:      ns.Labels,
	}
}
