package coffer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coffer",
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Pipeline runs by result.",
	}, []string{"result"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "coffer",
		Subsystem: "pipeline",
		Name:      "run_duration_seconds",
		Help:      "Wall time of a pipeline run.",
		Buckets:   prometheus.ExponentialBuckets(30, 2, 10),
	})

	enrichedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coffer",
		Subsystem: "pipeline",
		Name:      "enriched_items_total",
		Help:      "Enrichment outcomes per candidate.",
	}, []string{"outcome"})

	publishedItems = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "coffer",
		Subsystem: "pipeline",
		Name:      "published_items",
		Help:      "Rows in the last published snapshot.",
	})
)
