package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MemoHit  = "hit"
	MemoMiss = "miss"

	CorrectionApplied = "applied"
	CorrectionSkipped = "skipped"

	SourceMemory = "memory"
	SourceRedis  = "redis"
	SourceRemote = "remote"
)

// VariationMetrics records resolver and variation detail activity.
type VariationMetrics struct {
	memo          *prometheus.CounterVec
	corrections   *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchFailures *prometheus.CounterVec
}

// NewVariationMetrics registers the variation metrics on the provided registerer.
func NewVariationMetrics(reg prometheus.Registerer) *VariationMetrics {
	if reg == nil {
		return &VariationMetrics{}
	}
	memo := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "variation_filter_memo_total",
		Help: "Variation filter lookups by memo result.",
	}, []string{"result"})
	corrections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "variation_selection_corrections_total",
		Help: "Invalid selections handled by the corrector.",
	}, []string{"outcome"})
	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "variation_detail_fetch_duration_seconds",
		Help:    "Duration of variation detail lookups in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	fetchFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "variation_detail_fetch_failures_total",
		Help: "Failed variation detail fetches by error code.",
	}, []string{"code"})
	reg.MustRegister(memo, corrections, fetchDuration, fetchFailures)
	return &VariationMetrics{
		memo:          memo,
		corrections:   corrections,
		fetchDuration: fetchDuration,
		fetchFailures: fetchFailures,
	}
}

// IncMemo counts a filter memo lookup.
func (m *VariationMetrics) IncMemo(result string) {
	if m == nil || m.memo == nil {
		return
	}
	m.memo.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncCorrection counts a corrector run.
func (m *VariationMetrics) IncCorrection(outcome string) {
	if m == nil || m.corrections == nil {
		return
	}
	m.corrections.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveFetch records how long a detail lookup took for the source that served it.
func (m *VariationMetrics) ObserveFetch(source string, duration time.Duration) {
	if m == nil || m.fetchDuration == nil {
		return
	}
	m.fetchDuration.WithLabelValues(normalizeLabel(source)).Observe(duration.Seconds())
}

// IncFetchFailure counts a failed remote fetch.
func (m *VariationMetrics) IncFetchFailure(code string) {
	if m == nil || m.fetchFailures == nil {
		return
	}
	m.fetchFailures.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
