package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/squant"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg)

	c.RecordQuantize(100, 4, time.Millisecond, nil)
	c.RecordQuantize(10, 0, time.Millisecond, errors.New("bad shape"))
	c.RecordLoad(25, time.Millisecond, nil)

	assert.Equal(t, float64(100), testutil.ToFloat64(c.values))
	assert.Equal(t, float64(4), testutil.ToFloat64(c.clipped))
	assert.Equal(t, float64(25), testutil.ToFloat64(c.vectors))

	// quantize/success, quantize/error, load/success
	assert.Equal(t, 3, testutil.CollectAndCount(c.opLatency))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"squant_operation_latency_seconds",
		"squant_values_quantized_total",
		"squant_values_clipped_total",
		"squant_vectors_loaded_total",
	}, names)
}

func TestPrometheusCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusCollector(reg)

	assert.Panics(t, func() { NewPrometheusCollector(reg) })
}

func TestPrometheusCollector_WithCompressor(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := squant.New(1, squant.WithMetricsCollector(NewPrometheusCollector(reg)))
	require.NoError(t, err)

	_, err = c.Quantize(context.Background(), []float32{0, 1, 2, 3}, 2, 2)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "squant_values_quantized_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(reg, "squant_operation_latency_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
