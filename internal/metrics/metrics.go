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

// Package metrics registers the operator's Prometheus collectors against
// controller-runtime's shared metrics registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	// ReconcileDuration observes the wall-clock time of one ProjectReconciler.Reconcile
	// call, labeled by outcome ("success" or "error").
	ReconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rancher_operator_reconcile_duration_seconds",
			Help:    "Duration of Project reconcile calls in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	// ReconciliationErrorsTotal counts reconcile failures labeled by the
	// error taxonomy (spec §7): cluster_not_found, project_creation_failed,
	// namespace_conflict, namespace_processing_failed, member_add_failed,
	// reconciliation_failed, deletion_failed. A failed namespace create is
	// counted as namespace_processing_failed and a failed sweep as
	// reconciliation_failed; the namespace_creation_failed and
	// namespace_removal_failed labels are not recorded.
	ReconciliationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rancher_operator_reconciliation_errors_total",
			Help: "Total reconciliation errors, labeled by error_type.",
		},
		[]string{"error_type"},
	)

	// ObserveNamespacesDiscoveredTotal counts namespaces the ObserveLoop has
	// folded into a Project's spec.
	ObserveNamespacesDiscoveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rancher_operator_observe_namespaces_discovered_total",
			Help: "Total namespaces discovered and imported by the observe loop.",
		},
	)

	// NamespacesProcessingFailedTotal counts per-namespace reconcile failures.
	NamespacesProcessingFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rancher_operator_namespaces_processing_failed_total",
			Help: "Total per-namespace reconcile failures.",
		},
	)
)

// Register adds all collectors to controller-runtime's metrics registry.
// Safe to call once at process startup.
func Register() {
	metrics.Registry.MustRegister(
		ReconcileDuration,
		ReconciliationErrorsTotal,
		ObserveNamespacesDiscoveredTotal,
		NamespacesProcessingFailedTotal,
	)
}
