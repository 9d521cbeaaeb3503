package quantization

import (
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/hupe1980/squant/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		for _, q := range []float64{1e-9, 0.5, 0.99, 1} {
			qz, err := New(q)
			require.NoError(t, err)
			assert.Equal(t, q, qz.Quantile())
			assert.Equal(t, DefaultBits, qz.Bits())
			assert.Equal(t, PolicyNearestRank, qz.Policy())
		}
	})

	t.Run("InvalidQuantile", func(t *testing.T) {
		for _, q := range []float64{0, -1, 1.5, math.NaN(), math.Inf(1)} {
			_, err := New(q)
			assert.ErrorIs(t, err, ErrInvalidParameter, "q=%v", q)
		}
	})

	t.Run("InvalidOptions", func(t *testing.T) {
		opts := map[string]Option{
			"bits=0":    WithBits(0),
			"bits=9":    WithBits(9),
			"policy":    WithPolicy(Policy(-1)),
			"workers":   WithWorkers(-2),
			"threshold": WithParallelThreshold(-1),
		}
		for name, opt := range opts {
			_, err := New(0.99, opt)
			assert.ErrorIs(t, err, ErrInvalidParameter, name)
		}
	})
}

func TestQuantizeShapeMismatch(t *testing.T) {
	q, err := New(0.99)
	require.NoError(t, err)

	tests := []struct {
		name       string
		n          int
		numVectors int
		dim        int
	}{
		{name: "TooFew", n: 5, numVectors: 2, dim: 3},
		{name: "TooMany", n: 7, numVectors: 2, dim: 3},
		{name: "NegativeVectors", n: 6, numVectors: -2, dim: -3},
		{name: "NegativeDim", n: 0, numVectors: 0, dim: -1},
		{name: "Overflow", n: 4, numVectors: math.MaxInt/2 + 1, dim: 4},
		{name: "EmptyWithShape", n: 0, numVectors: 3, dim: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := q.Quantize(make([]float32, tt.n), tt.numVectors, tt.dim)
			require.ErrorIs(t, err, ErrShapeMismatch)

			var sm *ShapeMismatchError
			require.ErrorAs(t, err, &sm)
			assert.Equal(t, tt.n, sm.Actual)
		})
	}
}

func TestQuantizeInsufficientData(t *testing.T) {
	q, err := New(0.99)
	require.NoError(t, err)

	_, err = q.Quantize(nil, 0, 4)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = q.Quantize(nil, 4, 0)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = q.QuantizeVectors(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestQuantizeNonFinite(t *testing.T) {
	values := testutil.NewRNG(1).GaussianBatch(50, 4)
	values[3*4+2] = float32(math.NaN())
	values[10*4+1] = float32(math.Inf(1))

	for _, workers := range []int{1, 4} {
		q, err := New(0.99, WithWorkers(workers), WithParallelThreshold(0))
		require.NoError(t, err)

		_, err = q.Quantize(values, 50, 4)
		require.ErrorIs(t, err, ErrNonFinite)

		var nf *NonFiniteError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, 10*4+1, nf.Index, "lowest failing dimension wins, workers=%d", workers)
	}
}

func TestQuantizeCodesInRange(t *testing.T) {
	rng := testutil.NewRNG(42)
	values := rng.GaussianBatch(400, 16)
	rng.InjectOutliers(values, 0.01, 50)

	for bits := MinBits; bits <= MaxBits; bits++ {
		for _, quantile := range []float64{0.5, 0.9, 0.99, 1} {
			q, err := New(quantile, WithBits(bits))
			require.NoError(t, err)

			batch, err := q.Quantize(values, 400, 16)
			require.NoError(t, err)
			require.Len(t, batch.Codes(), 400*16)

			maxCode := MaxCode(bits)
			for _, c := range batch.Codes() {
				require.LessOrEqual(t, c, maxCode, "bits=%d q=%v", bits, quantile)
			}
		}
	}
}

func TestQuantizeDeterministic(t *testing.T) {
	values := testutil.NewRNG(9).GaussianBatch(300, 24)

	q, err := New(0.95)
	require.NoError(t, err)

	a, err := q.Quantize(values, 300, 24)
	require.NoError(t, err)
	b, err := q.Quantize(values, 300, 24)
	require.NoError(t, err)

	assert.Equal(t, a.Params(), b.Params())
	assert.Equal(t, a.Codes(), b.Codes())
}

func TestQuantizeParallelMatchesSequential(t *testing.T) {
	rng := testutil.NewRNG(13)
	values := rng.ShiftedGaussianBatch(517, 37, []float32{-3, 0, 10}, []float32{0.1, 1, 5})
	rng.InjectOutliers(values, 0.005, 40)

	for _, p := range []Policy{PolicyNearestRank, PolicyLinear} {
		seq, err := New(0.98, WithPolicy(p), WithWorkers(1))
		require.NoError(t, err)
		par, err := New(0.98, WithPolicy(p), WithWorkers(7), WithParallelThreshold(0))
		require.NoError(t, err)

		a, err := seq.Quantize(values, 517, 37)
		require.NoError(t, err)
		b, err := par.Quantize(values, 517, 37)
		require.NoError(t, err)

		assert.Equal(t, a.Params(), b.Params(), p.String())
		assert.Equal(t, a.Bounds(), b.Bounds(), p.String())
		assert.Equal(t, a.Codes(), b.Codes(), p.String())
		assert.Equal(t, a.TotalClipped(), b.TotalClipped(), p.String())
	}
}

func TestQuantizeRoundTripWithinOneStep(t *testing.T) {
	numVectors, dim := 256, 8
	values := testutil.NewRNG(21).UniformBatch(numVectors, dim, -4, 9)

	q, err := New(0.9)
	require.NoError(t, err)
	batch, err := q.Quantize(values, numVectors, dim)
	require.NoError(t, err)

	params := batch.Params()
	bounds := batch.Bounds()
	for j, v := range values {
		d := j % dim
		if !bounds[d].Contains(v) {
			continue
		}
		got, err := batch.Dequantize(batch.Codes()[j], d)
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(float64(got-v)), params[d].Scale, "j=%d", j)
	}
}

func TestQuantizeMonotone(t *testing.T) {
	numVectors, dim := 300, 3
	values := testutil.NewRNG(5).GaussianBatch(numVectors, dim)

	q, err := New(0.95)
	require.NoError(t, err)
	batch, err := q.Quantize(values, numVectors, dim)
	require.NoError(t, err)

	codes := batch.Codes()
	for d := range dim {
		col := testutil.Column(values, numVectors, dim, d)
		order := make([]int, numVectors)
		for i := range order {
			order[i] = i
		}
		slices.SortFunc(order, func(a, b int) int {
			switch {
			case col[a] < col[b]:
				return -1
			case col[a] > col[b]:
				return 1
			default:
				return 0
			}
		})

		for i := 1; i < len(order); i++ {
			prev := codes[order[i-1]*dim+d]
			cur := codes[order[i]*dim+d]
			assert.LessOrEqual(t, prev, cur, "dim=%d", d)
		}
	}
}

func TestQuantizeConstantDimension(t *testing.T) {
	numVectors, dim := 20, 3
	values := testutil.NewRNG(3).GaussianBatch(numVectors, dim)
	for v := range numVectors {
		values[v*dim+1] = 0.25
	}

	q, err := New(0.99)
	require.NoError(t, err)
	batch, err := q.Quantize(values, numVectors, dim)
	require.NoError(t, err)

	p := batch.Params()[1]
	assert.Equal(t, 0.0, p.Scale)
	assert.Equal(t, 0.25, p.Offset)

	for v := range numVectors {
		assert.Equal(t, MidpointCode(8), batch.Codes()[v*dim+1])
	}

	got, err := batch.Dequantize(MidpointCode(8), 1)
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), got)

	assert.True(t, batch.ConstantDims().Contains(1))
	assert.Equal(t, uint64(1), batch.ConstantDims().GetCardinality())
}

func TestQuantizeOutlierScenario(t *testing.T) {
	q, err := New(0.99)
	require.NoError(t, err)

	batch, err := q.Quantize([]float32{1.0, 2.0, 3.0, 100.0}, 4, 1)
	require.NoError(t, err)

	codes := batch.Codes()
	for i := 1; i < len(codes); i++ {
		assert.LessOrEqual(t, codes[i-1], codes[i])
	}
	assert.Equal(t, MaxCode(8), codes[3])
	assert.Equal(t, uint8(0), codes[0])
	assert.Equal(t, 4, batch.NumVectors())
	assert.Equal(t, 1, len(batch.Params()))
}

func TestQuantizeFullQuantileMatchesMinMax(t *testing.T) {
	numVectors, dim := 128, 6
	values := testutil.NewRNG(77).GaussianBatch(numVectors, dim)

	q, err := New(1.0)
	require.NoError(t, err)
	batch, err := q.Quantize(values, numVectors, dim)
	require.NoError(t, err)

	// Direct min-max scaling reference.
	want := make([]byte, len(values))
	for d := range dim {
		col := testutil.Column(values, numVectors, dim, d)
		f64 := make([]float64, len(col))
		for i, v := range col {
			f64[i] = float64(v)
		}
		lo, hi := floats.Min(f64), floats.Max(f64)
		scale := (hi - lo) / 255

		for v := range numVectors {
			x := (float64(values[v*dim+d]) - lo) / scale
			want[v*dim+d] = uint8(math.Round(math.Min(math.Max(x, 0), 255)))
		}

		b := batch.Bounds()[d]
		assert.Equal(t, float32(lo), b.Low)
		assert.Equal(t, float32(hi), b.High)
	}

	assert.Equal(t, want, batch.Codes())
	assert.Equal(t, 0, batch.TotalClipped())
}

func TestQuantizeVectors(t *testing.T) {
	q, err := New(1.0)
	require.NoError(t, err)

	batch, err := q.QuantizeVectors([][]float32{{0, 10}, {1, 11}, {4, 14}})
	require.NoError(t, err)
	assert.Equal(t, 3, batch.NumVectors())
	assert.Equal(t, 2, batch.Dim())
	assert.Equal(t, []byte{0, 0, 64, 64, 255, 255}, batch.Codes())

	_, err = q.QuantizeVectors([][]float32{{0, 1}, {2}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestQuantizeDoesNotModifyInput(t *testing.T) {
	values := testutil.NewRNG(8).GaussianBatch(64, 4)
	orig := slices.Clone(values)

	q, err := New(0.9, WithWorkers(3), WithParallelThreshold(0))
	require.NoError(t, err)
	_, err = q.Quantize(values, 64, 4)
	require.NoError(t, err)

	assert.Equal(t, orig, values)
}

func TestQuantizerConcurrentUse(t *testing.T) {
	values := testutil.NewRNG(17).GaussianBatch(200, 10)

	q, err := New(0.97, WithParallelThreshold(0))
	require.NoError(t, err)
	ref, err := q.Quantize(values, 200, 10)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*QuantizedBatch, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := q.Quantize(values, 200, 10)
			if err == nil {
				results[i] = b
			}
		}()
	}
	wg.Wait()

	for _, b := range results {
		require.NotNil(t, b)
		assert.Equal(t, ref.Codes(), b.Codes())
	}
}

func TestSplitRange(t *testing.T) {
	assert.Equal(t, []span{{0, 10}}, splitRange(10, 1))
	assert.Equal(t, []span{{0, 4}, {4, 8}, {8, 10}}, splitRange(10, 3))
	assert.Equal(t, []span{{0, 1}, {1, 2}}, splitRange(2, 8))
	assert.Equal(t, []span{{0, 0}}, splitRange(0, 4))
}

func BenchmarkQuantize(b *testing.B) {
	numVectors, dim := 2000, 960
	values := testutil.NewRNG(1).GaussianBatch(numVectors, dim)

	for _, workers := range []int{1, 0} {
		q, err := New(0.99, WithWorkers(workers))
		require.NoError(b, err)

		name := "sequential"
		if workers == 0 {
			name = "parallel"
		}
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(values) * 4))
			for i := 0; i < b.N; i++ {
				_, _ = q.Quantize(values, numVectors, dim)
			}
		})
	}
}
