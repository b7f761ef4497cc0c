package metric

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	GatherCallCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gather",
			Subsystem: "take",
			Name:      "calls_total",
			Help:      "chunked gather calls by physical type and variant",
		}, []string{"type", "variant"})

	GatherRowsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gather",
			Subsystem: "take",
			Name:      "rows_total",
			Help:      "rows materialized by chunked gather",
		}, []string{"type"})

	ViewBuffersHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gather",
			Subsystem: "view",
			Name:      "buffers_retained",
			Help:      "data buffers kept by a view gather output",
			Buckets:   prometheus.ExponentialBuckets(1, 2.0, 12),
		}, []string{"path"})

	TableFanOutHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gather",
			Subsystem: "table",
			Name:      "duration_seconds",
			Help:      "table level gather durations",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2.0, 20),
		}, []string{"mode"})
)

const (
	VariantPlain = "plain"
	VariantOpt   = "opt"

	PathSingleChunk = "single"
	PathMultiChunk  = "multi"

	ModeSequential = "seq"
	ModeParallel   = "par"
)

var registerOnce sync.Once

// Register adds every gather collector to registry once.
func Register(registry prometheus.Registerer) {
	registerOnce.Do(func() {
		registry.MustRegister(GatherCallCounter)
		registry.MustRegister(GatherRowsCounter)
		registry.MustRegister(ViewBuffersHistogram)
		registry.MustRegister(TableFanOutHistogram)
	})
}
