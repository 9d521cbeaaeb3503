package squant

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/squant/fvecs"
	"github.com/hupe1980/squant/quantization"
)

// Compressor quantizes vector batches and reports on each call through its
// logger and metrics collector.
//
// A Compressor is safe for concurrent use.
type Compressor struct {
	q       *quantization.Quantizer
	logger  *Logger
	metrics MetricsCollector
}

// Batch is a quantized batch tagged with a unique id for logs and metrics.
type Batch struct {
	*quantization.QuantizedBatch
	ID uuid.UUID
}

// LoadOptions selects which vectors QuantizeSource reads.
type LoadOptions struct {
	// Sample draws vectors at random instead of reading the first n.
	Sample bool
	// Seed makes the random draw reproducible.
	Seed uint64
}

// New creates a Compressor that keeps the central quantile fraction of every
// dimension. quantile must lie in (0, 1].
func New(quantile float64, optFns ...Option) (*Compressor, error) {
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	q, err := quantization.New(quantile, opts.quantization...)
	if err != nil {
		return nil, err
	}

	return &Compressor{
		q:       q,
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}, nil
}

// Quantizer returns the underlying quantizer.
func (c *Compressor) Quantizer() *quantization.Quantizer {
	return c.q
}

// Quantize quantizes a row-major batch of numVectors vectors of length dim.
func (c *Compressor) Quantize(ctx context.Context, values []float32, numVectors, dim int) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.New()
	logger := c.logger.WithBatch(id).WithShape(numVectors, dim)

	start := time.Now()
	qb, err := c.q.Quantize(values, numVectors, dim)
	duration := time.Since(start)

	logger.LogQuantize(ctx, qb, duration, err)
	if err != nil {
		c.metrics.RecordQuantize(len(values), 0, duration, err)
		return nil, translateError(err)
	}
	c.metrics.RecordQuantize(len(values), qb.TotalClipped(), duration, nil)

	return &Batch{QuantizedBatch: qb, ID: id}, nil
}

// QuantizeSource reads n vectors from src and quantizes them. With opts.Sample
// the vectors are drawn at random and n is capped at the source size.
func (c *Compressor) QuantizeSource(ctx context.Context, src fvecs.Source, n int, opts LoadOptions) (*Batch, error) {
	values, err := c.load(ctx, src, n, opts)
	if err != nil {
		return nil, err
	}

	dim := src.Dim()
	return c.Quantize(ctx, values, len(values)/dim, dim)
}

func (c *Compressor) load(ctx context.Context, src fvecs.Source, n int, opts LoadOptions) ([]float32, error) {
	var (
		values []float32
		err    error
	)

	start := time.Now()
	if opts.Sample {
		values, err = src.Sample(ctx, n, fvecs.NewRand(opts.Seed))
	} else {
		values, err = src.Load(ctx, n)
	}
	duration := time.Since(start)

	vectors := 0
	if err == nil {
		vectors = len(values) / src.Dim()
	}

	c.logger.LogLoad(ctx, vectors, opts.Sample, duration, err)
	c.metrics.RecordLoad(vectors, duration, err)

	return values, translateError(err)
}
