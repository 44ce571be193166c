package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "potarin_client",
			Name:      "request_attempts_total",
			Help:      "Network attempts issued, including retries.",
		},
		[]string{"endpoint"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "potarin_client",
			Name:      "request_retries_total",
			Help:      "Attempts that were retried after a retryable failure.",
		},
		[]string{"endpoint"},
	)

	failuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "potarin_client",
			Name:      "request_failures_total",
			Help:      "Failed attempts by classified kind.",
		},
		[]string{"endpoint", "kind"},
	)

	breakerRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "potarin_client",
			Name:      "breaker_rejections_total",
			Help:      "Calls rejected by an open circuit breaker.",
		},
		[]string{"endpoint"},
	)
)
