package upstream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeRetry = "retry"
	outcomeError = "error"
)

//nolint:gochecknoglobals
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coffer",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Outbound requests by upstream and outcome.",
	}, []string{"upstream", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coffer",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Duration of a single outbound request attempt.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"upstream"})

	adaptiveFailures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "coffer",
		Subsystem: "upstream",
		Name:      "adaptive_recent_failures",
		Help:      "Current recent-failures counter of the adaptive pacer.",
	}, []string{"upstream"})
)
