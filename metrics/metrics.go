package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// Registry holds the batch counters. A nil *Registry records nothing.
type Registry struct {
	reg           *prometheus.Registry
	OrdersSeen    *prometheus.CounterVec
	OrdersSkipped *prometheus.CounterVec
	Outputs       *prometheus.CounterVec
	Diagnostics   *prometheus.CounterVec
	BatchSeconds  *prometheus.HistogramVec
	LastBatch     *prometheus.GaugeVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	seen := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "woc_orders_seen_total",
		Help: "Orders read from uploaded exports.",
	}, []string{"pipeline"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "woc_orders_skipped_total",
		Help: "Orders excluded by the inclusion filter.",
	}, []string{"pipeline", "reason"})
	outputs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "woc_outputs_total",
		Help: "Monday rows and work-order sheets produced.",
	}, []string{"pipeline"})
	diags := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "woc_diagnostics_total",
		Help: "Per-order diagnostics by kind and field.",
	}, []string{"kind", "field"})
	batch := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "woc_batch_duration_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"pipeline"})
	last := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "woc_last_batch_timestamp_seconds",
	}, []string{"pipeline"})

	r.MustRegister(seen, skipped, outputs, diags, batch, last)
	return &Registry{
		reg:           r,
		OrdersSeen:    seen,
		OrdersSkipped: skipped,
		Outputs:       outputs,
		Diagnostics:   diags,
		BatchSeconds:  batch,
		LastBatch:     last,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// Batch records one finished pipeline run.
func (r *Registry) Batch(pipeline string, seen, produced int, skipped map[woc.SkipReason]int, started time.Time) {
	if r == nil {
		return
	}
	r.OrdersSeen.WithLabelValues(pipeline).Add(float64(seen))
	r.Outputs.WithLabelValues(pipeline).Add(float64(produced))
	for reason, n := range skipped {
		r.OrdersSkipped.WithLabelValues(pipeline, string(reason)).Add(float64(n))
	}
	r.BatchSeconds.WithLabelValues(pipeline).Observe(time.Since(started).Seconds())
	r.LastBatch.WithLabelValues(pipeline).SetToCurrentTime()
}

// Observe counts diagnostics by kind and field.
func (r *Registry) Observe(entries []woc.Diagnostic) {
	if r == nil {
		return
	}
	for _, e := range entries {
		r.Diagnostics.WithLabelValues(string(e.Kind), e.Field).Inc()
	}
}
