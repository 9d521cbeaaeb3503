package squant

import "github.com/hupe1980/squant/quantization"

type options struct {
	quantization     []quantization.Option
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures a Compressor.
type Option func(*options)

// WithBits sets the code width in [1, 8]. The default is 8.
func WithBits(bits int) Option {
	return func(o *options) {
		o.quantization = append(o.quantization, quantization.WithBits(bits))
	}
}

// WithPolicy selects how percentile bounds are computed.
func WithPolicy(p quantization.Policy) Option {
	return func(o *options) {
		o.quantization = append(o.quantization, quantization.WithPolicy(p))
	}
}

// WithWorkers caps the goroutines used per batch. 0 uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.quantization = append(o.quantization, quantization.WithWorkers(n))
	}
}

// WithParallelThreshold sets the batch size, in values, from which quantization
// fans out to multiple goroutines.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		o.quantization = append(o.quantization, quantization.WithParallelThreshold(n))
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector. If nil is passed, metrics are disabled.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}
