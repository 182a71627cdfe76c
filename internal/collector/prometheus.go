package collector

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector exports per-operation counters and a latency
// histogram to a dedicated registry, for the optional --prometheus-port
// export path described in SPEC_FULL.md's domain stack. A private
// registry (rather than prometheus.DefaultRegisterer) keeps repeated
// runs of the CLI in the same process from panicking on duplicate
// registration.
type PrometheusCollector struct {
	registry *prometheus.Registry

	opsTotal    *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewPrometheusCollector builds and registers the metric families.
func NewPrometheusCollector() *PrometheusCollector {
	reg := prometheus.NewRegistry()

	p := &PrometheusCollector{
		registry: reg,
		opsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cstress_operations_total",
			Help: "Total number of completed operations by kind and outcome",
		}, []string{"op_kind", "outcome"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cstress_errors_total",
			Help: "Total number of failed operations by kind",
		}, []string{"op_kind"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cstress_operation_latency_seconds",
			Help:    "Operation latency in seconds by kind",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 20),
		}, []string{"op_kind"}),
	}

	reg.MustRegister(p.opsTotal, p.errorsTotal, p.latency)
	return p
}

func (p *PrometheusCollector) Collect(ev Event) {
	outcome := "success"
	if !ev.Success {
		outcome = "error"
		p.errorsTotal.WithLabelValues(ev.Kind.String()).Inc()
	}
	p.opsTotal.WithLabelValues(ev.Kind.String(), outcome).Inc()
	p.latency.WithLabelValues(ev.Kind.String()).Observe(float64(ev.LatencyNanos()) / 1e9)
}

// Handler returns the HTTP handler serving this collector's registry,
// for mounting at --prometheus-port.
func (p *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
