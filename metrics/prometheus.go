// Package metrics exports squant operational metrics to Prometheus.
package metrics

import (
	"time"

	"github.com/hupe1980/squant"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements squant.MetricsCollector.
type PrometheusCollector struct {
	opLatency *prometheus.HistogramVec
	values    prometheus.Counter
	clipped   prometheus.Counter
	vectors   prometheus.Counter
}

var _ squant.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates the collector and registers its metrics with reg.
// It panics if a metric with the same name is already registered.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "squant_operation_latency_seconds",
			Help:    "Latency of quantize and load operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		values: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squant_values_quantized_total",
			Help: "Total values encoded",
		}),
		clipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squant_values_clipped_total",
			Help: "Total values clamped to their dimension's trimmed range",
		}),
		vectors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "squant_vectors_loaded_total",
			Help: "Total vectors read from sources",
		}),
	}

	reg.MustRegister(c.opLatency, c.values, c.clipped, c.vectors)
	return c
}

// RecordQuantize implements squant.MetricsCollector.
func (c *PrometheusCollector) RecordQuantize(values, clipped int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("quantize", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.values.Add(float64(values))
	c.clipped.Add(float64(clipped))
}

// RecordLoad implements squant.MetricsCollector.
func (c *PrometheusCollector) RecordLoad(vectors int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("load", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.vectors.Add(float64(vectors))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
