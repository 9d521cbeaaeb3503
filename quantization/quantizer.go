package quantization

import (
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Quantizer compresses flat batches of float32 vectors into per-dimension
// scalar-quantized codes.
//
// A Quantizer holds configuration only. It is safe for concurrent use and each
// Quantize call is independent of every other call.
type Quantizer struct {
	quantile float64
	opts     options
}

// New creates a Quantizer that keeps the central quantile fraction of each
// dimension's values when deriving that dimension's range.
//
// quantile must lie in (0, 1]; 1 disables trimming (plain min/max quantization).
func New(quantile float64, optFns ...Option) (*Quantizer, error) {
	if err := validateQuantile(quantile); err != nil {
		return nil, err
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := validateBits(opts.bits); err != nil {
		return nil, err
	}
	if !opts.policy.valid() {
		return nil, invalidParameter("unknown percentile policy %d", int(opts.policy))
	}
	if opts.workers < 0 {
		return nil, invalidParameter("workers %d must not be negative", opts.workers)
	}
	if opts.parallelThreshold < 0 {
		return nil, invalidParameter("parallel threshold %d must not be negative", opts.parallelThreshold)
	}

	return &Quantizer{quantile: quantile, opts: opts}, nil
}

// Quantile returns the retained fraction of each dimension's distribution.
func (q *Quantizer) Quantile() float64 { return q.quantile }

// Bits returns the code width.
func (q *Quantizer) Bits() int { return q.opts.bits }

// Policy returns the percentile policy.
func (q *Quantizer) Policy() Policy { return q.opts.policy }

// Quantize derives per-dimension parameters from values and encodes every value.
//
// values is a row-major flattening of numVectors vectors of length dim. The
// call either returns a complete batch or an error; values is never modified.
func (q *Quantizer) Quantize(values []float32, numVectors, dim int) (*QuantizedBatch, error) {
	if err := checkShape(len(values), numVectors, dim); err != nil {
		return nil, err
	}
	if dim == 0 {
		return nil, &InsufficientDataError{Dimension: -1}
	}
	if numVectors == 0 {
		return nil, &InsufficientDataError{Dimension: 0}
	}

	workers := q.workerCount(len(values))

	bounds := make([]Bounds, dim)
	params := make([]DimensionParams, dim)
	if err := q.estimate(values, numVectors, dim, workers, bounds, params); err != nil {
		return nil, err
	}

	codes := make([]byte, len(values))
	clipped := q.encode(values, numVectors, dim, workers, bounds, params, codes)

	return newQuantizedBatch(q.quantile, q.opts.bits, numVectors, dim, bounds, params, codes, clipped), nil
}

// QuantizeVectors flattens vectors and quantizes them. All vectors must share a length.
func (q *Quantizer) QuantizeVectors(vectors [][]float32) (*QuantizedBatch, error) {
	if len(vectors) == 0 {
		return nil, &InsufficientDataError{Dimension: 0}
	}

	dim := len(vectors[0])
	total := 0
	for _, v := range vectors {
		total += len(v)
	}

	flat := make([]float32, 0, total)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, &ShapeMismatchError{NumVectors: len(vectors), Dim: dim, Actual: total}
		}
		flat = append(flat, v...)
	}

	return q.Quantize(flat, len(vectors), dim)
}

func checkShape(n, numVectors, dim int) error {
	if numVectors < 0 || dim < 0 {
		return &ShapeMismatchError{NumVectors: numVectors, Dim: dim, Actual: n}
	}
	if dim > 0 && numVectors > math.MaxInt/dim {
		return &ShapeMismatchError{NumVectors: numVectors, Dim: dim, Actual: n}
	}
	if numVectors*dim != n {
		return &ShapeMismatchError{NumVectors: numVectors, Dim: dim, Actual: n}
	}
	return nil
}

func (q *Quantizer) workerCount(total int) int {
	if total < q.opts.parallelThreshold {
		return 1
	}
	if q.opts.workers > 0 {
		return q.opts.workers
	}
	return runtime.GOMAXPROCS(0)
}

// estimate runs the bound estimator and parameter deriver for every dimension.
// Dimensions are split into contiguous chunks; the error reported is always the
// one for the lowest failing dimension, independent of scheduling.
func (q *Quantizer) estimate(values []float32, numVectors, dim, workers int, bounds []Bounds, params []DimensionParams) error {
	chunks := splitRange(dim, workers)
	if len(chunks) == 1 {
		return q.estimateDims(values, numVectors, dim, chunks[0], bounds, params)
	}

	errs := make([]error, len(chunks))

	var g errgroup.Group
	g.SetLimit(workers)
	for c, r := range chunks {
		g.Go(func() error {
			errs[c] = q.estimateDims(values, numVectors, dim, r, bounds, params)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (q *Quantizer) estimateDims(values []float32, numVectors, dim int, r span, bounds []Bounds, params []DimensionParams) error {
	buf := getScratch(numVectors)
	defer putScratch(buf)
	col := *buf

	for i := r.start; i < r.end; i++ {
		for v := range numVectors {
			x := values[v*dim+i]
			if !isFinite(x) {
				return &NonFiniteError{Index: v*dim + i, Value: x}
			}
			col[v] = x
		}

		b := estimateInPlace(col, q.quantile, q.opts.policy)
		bounds[i] = b
		params[i] = DeriveParams(b, q.opts.bits)
	}

	return nil
}

// encode maps every value to its code in row-major order and returns the number
// of clamped values per dimension.
func (q *Quantizer) encode(values []float32, numVectors, dim, workers int, bounds []Bounds, params []DimensionParams, codes []byte) []int {
	chunks := splitRange(numVectors, workers)
	counts := make([][]int, len(chunks))

	if len(chunks) == 1 {
		counts[0] = q.encodeRows(values, dim, chunks[0], bounds, params, codes)
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for c, r := range chunks {
			g.Go(func() error {
				counts[c] = q.encodeRows(values, dim, r, bounds, params, codes)
				return nil
			})
		}
		_ = g.Wait()
	}

	clipped := counts[0]
	for _, cs := range counts[1:] {
		for i, n := range cs {
			clipped[i] += n
		}
	}
	return clipped
}

func (q *Quantizer) encodeRows(values []float32, dim int, r span, bounds []Bounds, params []DimensionParams, codes []byte) []int {
	bits := q.opts.bits
	clipped := make([]int, dim)

	for v := r.start; v < r.end; v++ {
		row := values[v*dim : (v+1)*dim]
		out := codes[v*dim : (v+1)*dim]
		for i, x := range row {
			if !bounds[i].Contains(x) {
				clipped[i]++
			}
			out[i] = params[i].Encode(x, bits)
		}
	}

	return clipped
}

type span struct {
	start, end int
}

// splitRange cuts [0, n) into at most parts contiguous spans of near-equal size.
func splitRange(n, parts int) []span {
	parts = max(min(parts, n), 1)
	size := (n + parts - 1) / parts

	spans := make([]span, 0, parts)
	for start := 0; start < n; start += size {
		spans = append(spans, span{start: start, end: min(start+size, n)})
	}
	if len(spans) == 0 {
		spans = append(spans, span{})
	}
	return spans
}

var scratchPool = sync.Pool{
	New: func() any {
		s := make([]float32, 0)
		return &s
	},
}

func getScratch(n int) *[]float32 {
	p := scratchPool.Get().(*[]float32)
	if cap(*p) < n {
		*p = make([]float32, n)
	}
	*p = (*p)[:n]
	return p
}

func putScratch(p *[]float32) {
	scratchPool.Put(p)
}
