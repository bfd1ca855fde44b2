package metrics

import (
	"category/extractor/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExtractionRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extraction_runs_total",
			Help: "Total number of extraction runs",
		},
	)

	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "extraction_run_duration_seconds",
			Help: "Duration of an extraction run in seconds",
		},
	)

	ProductsEmitted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "extraction_products_emitted",
			Help:    "Number of products returned per extraction run",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	TierInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_tier_invocations_total",
			Help: "Number of times each cascade tier ran",
		},
		[]string{"tier"},
	)

	TierCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_tier_candidates_total",
			Help: "Raw candidates produced per cascade tier",
		},
		[]string{"tier"},
	)

	LookupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_lookup_failures_total",
			Help: "External lookups that failed and were skipped",
		},
		[]string{"source"},
	)

	ProductsBySource = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_products_by_source_total",
			Help: "Products emitted per winning source kind",
		},
		[]string{"source"},
	)

	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_jobs_processed_total",
			Help: "Asynchronous extraction jobs handled by workers",
		},
		[]string{"status"},
	)
)

func init() {
	// Every source kind is exported from startup, including ones that never fired
	for _, kind := range domain.SourceKinds {
		ProductsBySource.WithLabelValues(kind.String())
	}
}
