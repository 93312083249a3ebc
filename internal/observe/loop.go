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

// Package observe implements the background loop that inventories
// downstream clusters named by any Project with the Observe policy, and
// folds discovered namespaces back into Project specs.
package observe

import (
	"context"
	"strings"
	"sync"
	"time"

	"k8s.io/client-go/tools/record"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	rancherv1 "github.com/rancherlabs/devops-project-operator/api/v1"
	"github.com/rancherlabs/devops-project-operator/internal/config"
	"github.com/rancherlabs/devops-project-operator/internal/platform"
	"github.com/rancherlabs/devops-project-operator/internal/status"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// watchEntry tracks one actively-watched or polled downstream cluster.
type watchEntry struct {
	cancel context.CancelFunc
}

// Loop is the ObserveLoop component (C6), registered on the manager as a
// manager.Runnable.
type Loop struct {
	Client   client.Client
	Platform platform.Client
	Watcher  Watcher
	Writer   *status.Writer
	Config   *config.Config
	Recorder record.EventRecorder

	mu      sync.Mutex
	watched map[string]*watchEntry
}

// Start runs the ObserveLoop until ctx is cancelled, refreshing the set of
// watched/polled clusters every ClusterCheckInterval.
func (l *Loop) Start(ctx context.Context) error {
	log := logf.FromContext(ctx).WithName("observe-loop")

	if l.Config.ObserveMethod == config.ObserveMethodNone {
		log.Info("observe method is none, observe loop idling")
		<-ctx.Done()
		return nil
	}

	l.mu.Lock()
	l.watched = make(map[string]*watchEntry)
	l.mu.Unlock()

	ticker := time.NewTicker(l.Config.ClusterCheckInterval)
	defer ticker.Stop()

	l.refreshClusterSet(ctx)
	for {
		select {
		case <-ctx.Done():
			l.mu.Lock()
			for _, w := range l.watched {
				w.cancel()
			}
			l.mu.Unlock()
			return nil
		case <-ticker.C:
			l.refreshClusterSet(ctx)
		}
	}
}

// refreshClusterSet lists CRs with the Observe policy, computes the set of
// distinct cluster names, and starts/stops per-cluster workers to match it.
func (l *Loop) refreshClusterSet(ctx context.Context) {
	log := logf.FromContext(ctx).WithName("observe-loop")

	var list rancherv1.ProjectList
	if err := l.Client.List(ctx, &list); err != nil {
		log.Error(err, "listing Projects for observe loop")
		return
	}

	desired := make(map[string]bool)
	for _, p := range list.Items {
		if hasObservePolicy(p) {
			desired[p.Spec.ClusterName] = true
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for name := range desired {
		if _, ok := l.watched[name]; ok {
			continue
		}
		clusterCtx, cancel := context.WithCancel(ctx)
		l.watched[name] = &watchEntry{cancel: cancel}
		go l.runCluster(clusterCtx, name)
	}

	for name, entry := range l.watched {
		if !desired[name] {
			entry.cancel()
			delete(l.watched, name)
		}
	}
}

// runCluster watches or polls cluster clusterName until ctx is cancelled.
func (l *Loop) runCluster(ctx context.Context, clusterName string) {
	switch l.Config.ObserveMethod {
	case config.ObserveMethodPoll:
		l.pollCluster(ctx, clusterName)
	default:
		l.watchCluster(ctx, clusterName)
	}
}

// hasObservePolicy reports whether p's managementPolicies contains Observe,
// case-insensitively, applying the same default-empty-list semantics as
// internal/policy.
func hasObservePolicy(p rancherv1.Project) bool {
	if len(p.Spec.ManagementPolicies) == 0 {
		return false
	}
	for _, v := range p.Spec.ManagementPolicies {
		if strings.EqualFold(v, "observe") {
			return true
		}
	}
	return false
}
