package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"SmartBank/internal/services/timeseries"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	filters     *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	sourceHits  *prometheus.CounterVec
	uploads     *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New registers the recorder's collectors on reg, or on the default
// registry when reg is nil.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		filters: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartbank_series_filter_total",
				Help: "Range selections applied, by series and rule kind",
			},
			[]string{"series", "rule"},
		),
		fallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartbank_series_fallback_total",
				Help: "Selections that matched nothing and fell back to the full series",
			},
			[]string{"series"},
		),
		sourceHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartbank_series_source_hits_total",
				Help: "Series loads served by each source",
			},
			[]string{"source", "series"},
		),
		uploads: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartbank_uploads_total",
				Help: "Processed uploads by detected data kind",
			},
			[]string{"kind"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartbank_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smartbank_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFilter counts one selection over series.
func (r *Recorder) RecordFilter(series string, rule timeseries.RuleKind) {
	r.filters.WithLabelValues(series, rule.String()).Inc()
}

// RecordFallback counts an empty selection replaced by the original series.
func (r *Recorder) RecordFallback(series string) {
	r.fallbacks.WithLabelValues(series).Inc()
}

func (r *Recorder) RecordSourceHit(source, series string) {
	r.sourceHits.WithLabelValues(source, series).Inc()
}

func (r *Recorder) RecordUpload(kind string) {
	r.uploads.WithLabelValues(kind).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
