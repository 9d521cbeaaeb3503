// Package testutil provides test helpers for squant.
//
// This package is intended for use in tests and benchmarks only.
// It generates seeded, reproducible flat batches in the row-major layout the
// quantizer consumes.
//
// # Random Batches
//
//	rng := testutil.NewRNG(seed)
//	values := rng.GaussianBatch(1000, 128)           // standard normal
//	values = rng.UniformBatch(1000, 128, -1, 1)      // uniform [-1, 1)
//	rng.InjectOutliers(values, 0.001, 100)           // scale 0.1% of values by 100
//
// # Column Views
//
//	col := testutil.Column(values, 1000, 128, 7)     // all values of dimension 7
package testutil
