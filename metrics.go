package squant

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// The metrics package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordQuantize is called after each quantize call. values is numVectors × dim,
	// clipped is the number of values clamped to their dimension's range, and err is
	// nil if successful.
	RecordQuantize(values, clipped int, duration time.Duration, err error)

	// RecordLoad is called after vectors are read from a source.
	RecordLoad(vectors int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuantize(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QuantizeCount      atomic.Int64
	QuantizeErrors     atomic.Int64
	QuantizeTotalNanos atomic.Int64
	ValuesQuantized    atomic.Int64
	ValuesClipped      atomic.Int64
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
	VectorsLoaded      atomic.Int64
}

// RecordQuantize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuantize(values, clipped int, duration time.Duration, err error) {
	b.QuantizeCount.Add(1)
	b.QuantizeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QuantizeErrors.Add(1)
		return
	}
	b.ValuesQuantized.Add(int64(values))
	b.ValuesClipped.Add(int64(clipped))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(vectors int, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.VectorsLoaded.Add(int64(vectors))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QuantizeCount:    b.QuantizeCount.Load(),
		QuantizeErrors:   b.QuantizeErrors.Load(),
		QuantizeAvgNanos: b.getAvgQuantizeNanos(),
		ValuesQuantized:  b.ValuesQuantized.Load(),
		ValuesClipped:    b.ValuesClipped.Load(),
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		VectorsLoaded:    b.VectorsLoaded.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQuantizeNanos() int64 {
	count := b.QuantizeCount.Load()
	if count == 0 {
		return 0
	}
	return b.QuantizeTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QuantizeCount    int64
	QuantizeErrors   int64
	QuantizeAvgNanos int64
	ValuesQuantized  int64
	ValuesClipped    int64
	LoadCount        int64
	LoadErrors       int64
	VectorsLoaded    int64
}
