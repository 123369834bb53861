// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the fetch counters. sieve runs as a batch CLI, so the
// counters are written to a node_exporter textfile rather than served.
var Registry = prometheus.NewRegistry()

var (
	fetchAttempts = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "sieve_fetch_attempts_total",
		Help: "Total number of feed fetch attempts, including retries",
	})

	fetchFailures = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "sieve_fetch_failures_total",
		Help: "Total number of failed feed fetch attempts",
	})

	fetchExhausted = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "sieve_fetch_exhausted_total",
		Help: "Number of fetches that gave up after exhausting the retry budget",
	})
)

// WriteMetrics writes the current counter values to path in the Prometheus
// text exposition format.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
