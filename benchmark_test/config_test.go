package benchmark_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hupe1980/squant"
	"github.com/hupe1980/squant/blobstore"
	"github.com/hupe1980/squant/fvecs"
	"github.com/hupe1980/squant/testutil"
)

// Standard dimensions used across benchmarks for consistency.
const (
	dimSmall  = 128 // SIFT
	dimMedium = 768 // OpenAI text-embedding-3-small, Cohere v3
	dimLarge  = 960 // GIST
)

// Standard batch sizes.
const (
	sizeSmall  = 1_000
	sizeMedium = 10_000
)

// Seed for deterministic benchmarks.
const benchSeed = 42

// outlierBatch returns Gaussian vectors with a small fraction of extreme values.
func outlierBatch(num, dim int) []float32 {
	rng := testutil.NewRNG(benchSeed)
	values := rng.GaussianBatch(num, dim)
	rng.InjectOutliers(values, 0.001, 50)
	return values
}

// writeDataset stores num vectors as an .fvecs file under a temp dir and opens it.
func writeDataset(b *testing.B, name string, num, dim int) fvecs.Source {
	b.Helper()

	dir := b.TempDir()
	store := blobstore.NewLocalStore(dir)

	blob, err := store.Create(context.Background(), name)
	if err != nil {
		b.Fatalf("create %s: %v", name, err)
	}

	cw, err := fvecs.NewCompressor(blob, fvecs.CompressionFromName(name))
	if err != nil {
		b.Fatalf("compressor: %v", err)
	}
	enc, err := fvecs.NewEncoder(cw, dim)
	if err != nil {
		b.Fatalf("encoder: %v", err)
	}
	if err := enc.EncodeBatch(outlierBatch(num, dim)); err != nil {
		b.Fatalf("encode: %v", err)
	}
	if err := enc.Flush(); err != nil {
		b.Fatalf("flush: %v", err)
	}
	if err := cw.Close(); err != nil {
		b.Fatalf("close compressor: %v", err)
	}
	if err := blob.Close(); err != nil {
		b.Fatalf("close blob: %v", err)
	}

	src, err := fvecs.Open(context.Background(), store, name, dim)
	if err != nil {
		b.Fatalf("open %s: %v", filepath.Join(dir, name), err)
	}
	b.Cleanup(func() { _ = src.Close() })
	return src
}

func newCompressor(b *testing.B, quantile float64, opts ...squant.Option) *squant.Compressor {
	b.Helper()
	c, err := squant.New(quantile, opts...)
	if err != nil {
		b.Fatalf("new compressor: %v", err)
	}
	return c
}
