package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	breakerTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "potarin_client",
			Name:      "breaker_transitions_total",
			Help:      "Circuit breaker state transitions per endpoint.",
		},
		[]string{"endpoint", "from", "to"},
	)

	monitorProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "potarin_client",
			Name:      "monitor_probes_total",
			Help:      "Connectivity monitor health probes by result.",
		},
		[]string{"result"},
	)
)
