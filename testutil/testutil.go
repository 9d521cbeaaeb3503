package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// UniformBatch generates a flat row-major batch with values in [minVal, maxVal).
func (r *RNG) UniformBatch(num, dim int, minVal, maxVal float32) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	data := make([]float32, num*dim)
	for i := range data {
		data[i] = minVal + r.rand.Float32()*span
	}
	return data
}

// GaussianBatch generates a flat row-major batch of standard normal values.
func (r *RNG) GaussianBatch(num, dim int) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dim)
	for i := range data {
		data[i] = float32(r.rand.NormFloat64())
	}
	return data
}

// ShiftedGaussianBatch generates a batch where dimension d is drawn from
// N(means[d%len(means)], scales[d%len(scales)]²), so each coordinate has its own range.
func (r *RNG) ShiftedGaussianBatch(num, dim int, means, scales []float32) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dim)
	for v := range num {
		for d := range dim {
			mean := means[d%len(means)]
			scale := scales[d%len(scales)]
			data[v*dim+d] = mean + float32(r.rand.NormFloat64())*scale
		}
	}
	return data
}

// InjectOutliers multiplies roughly rate·len(values) randomly chosen values by
// factor and returns the positions that were changed.
func (r *RNG) InjectOutliers(values []float32, rate float64, factor float32) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var positions []int
	for i := range values {
		if r.rand.Float64() < rate {
			values[i] *= factor
			positions = append(positions, i)
		}
	}
	return positions
}

// Column copies dimension d of a flat row-major batch.
func Column(values []float32, num, dim, d int) []float32 {
	col := make([]float32, num)
	for v := range num {
		col[v] = values[v*dim+d]
	}
	return col
}

// Rows splits a flat row-major batch into per-vector slices sharing its backing array.
func Rows(values []float32, num, dim int) [][]float32 {
	rows := make([][]float32, num)
	for v := range num {
		rows[v] = values[v*dim : (v+1)*dim]
	}
	return rows
}
