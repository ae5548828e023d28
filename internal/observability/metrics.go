// Package observability – domain metrics.
//
// This file exposes Prometheus collectors for the interaction lifecycle, kept
// separate from the HTTP middleware instrumentation so that dashboards can
// distinguish transport load from coordination outcomes. Label cardinality is
// bounded: status takes one of four terminal values.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// InteractionsCreated counts interactions successfully persisted as pending.
	InteractionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "interactions_created_total",
		Help: "Total number of interaction records created.",
	})

	// InteractionsResolved counts transitions out of pending by terminal status.
	InteractionsResolved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "interactions_resolved_total",
		Help: "Total number of interactions resolved, by terminal status.",
	}, []string{"status"})

	// PushSendFailures counts Notifier delivery failures (interaction trigger
	// and generic sends alike).
	PushSendFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "push_send_failures_total",
		Help: "Total number of failed push delivery attempts.",
	})

	// WaitPolls counts store reads performed by the wait coordinator's
	// polling loop.
	WaitPolls = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "interaction_wait_polls_total",
		Help: "Total number of store polls performed while waiting.",
	})
)

func init() {
	prometheus.MustRegister(InteractionsCreated, InteractionsResolved, PushSendFailures, WaitPolls)
}
