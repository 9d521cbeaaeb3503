package fvecs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/hupe1980/squant/blobstore"
)

// Source is a set of equal-length vectors that can be loaded or sampled.
type Source interface {
	// Dim returns the vector dimension.
	Dim() int
	// Count returns the number of vectors.
	Count() int
	// Load returns the first n vectors as one row-major slice.
	// It fails with ErrNotEnoughRecords if the source holds fewer than n.
	Load(ctx context.Context, n int) ([]float32, error)
	// Sample returns min(n, Count()) distinct vectors chosen by rng.
	Sample(ctx context.Context, n int, rng *rand.Rand) ([]float32, error)
	// Close releases the source.
	Close() error
}

// Open opens the named vector file in store.
//
// Plain files are served by a Reader. Compressed files (detected from the name
// unless WithCompression is given) are decompressed into memory; stores that
// implement blobstore.Downloader fetch them in one parallel download.
func Open(ctx context.Context, store blobstore.Store, name string, dim int, optFns ...Option) (Source, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidArgument, dim)
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.autoDetect {
		opts.compression = CompressionFromName(name)
	}

	if opts.compression == CompressionNone {
		blob, err := store.Open(ctx, name)
		if err != nil {
			return nil, err
		}
		r, err := NewReader(blob, dim, optFns...)
		if err != nil {
			_ = blob.Close()
			return nil, err
		}
		return r, nil
	}

	raw, err := fetch(ctx, store, name, opts)
	if err != nil {
		return nil, err
	}
	defer raw.Close()

	return ReadAll(raw, dim, opts.compression)
}

// ReadAll decompresses and decodes a whole stream into an in-memory Source.
func ReadAll(r io.Reader, dim int, c CompressionType) (Source, error) {
	rc, err := NewDecompressor(r, c)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	dec, err := NewDecoder(rc, dim)
	if err != nil {
		return nil, err
	}
	values, err := dec.DecodeN(nil, -1)
	if err != nil {
		return nil, err
	}
	return NewMemorySource(values, dim)
}

func fetch(ctx context.Context, store blobstore.Store, name string, opts options) (io.ReadCloser, error) {
	if d, ok := store.(blobstore.Downloader); ok {
		buf := manager.NewWriteAtBuffer(nil)
		if _, err := d.Download(ctx, name, buf); err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	if blob.Size() == 0 {
		return blobCloser{Reader: bytes.NewReader(nil), blob: blob}, nil
	}

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		_ = blob.Close()
		return nil, err
	}

	limiter := newLimiter(opts.bytesPerSec, 1<<16)
	return blobCloser{Reader: newThrottledReader(ctx, rc, limiter), body: rc, blob: blob}, nil
}

type blobCloser struct {
	io.Reader
	body io.Closer
	blob blobstore.Blob
}

func (c blobCloser) Close() error {
	if c.body != nil {
		_ = c.body.Close()
	}
	return c.blob.Close()
}

// MemorySource is a Source over vectors held in memory.
type MemorySource struct {
	values []float32
	dim    int
}

var _ Source = (*MemorySource)(nil)

// NewMemorySource wraps a row-major slice of vectors. The slice is not copied.
func NewMemorySource(values []float32, dim int) (*MemorySource, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidArgument, dim)
	}
	if len(values)%dim != 0 {
		return nil, fmt.Errorf("%w: %d values is not a multiple of dimension %d", ErrInvalidArgument, len(values), dim)
	}
	return &MemorySource{values: values, dim: dim}, nil
}

// Dim returns the vector dimension.
func (s *MemorySource) Dim() int { return s.dim }

// Count returns the number of vectors.
func (s *MemorySource) Count() int { return len(s.values) / s.dim }

// Load returns a copy of the first n vectors.
func (s *MemorySource) Load(ctx context.Context, n int) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidArgument, n)
	}
	if n > s.Count() {
		return nil, fmt.Errorf("%w: requested %d, have %d", ErrNotEnoughRecords, n, s.Count())
	}
	return append([]float32(nil), s.values[:n*s.dim]...), nil
}

// Sample returns min(n, Count()) distinct vectors chosen by rng.
func (s *MemorySource) Sample(ctx context.Context, n int, rng *rand.Rand) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidArgument, n)
	}

	idx := SampleIndices(rng, s.Count(), n)
	out := make([]float32, 0, len(idx)*s.dim)
	for _, i := range idx {
		out = append(out, s.values[i*s.dim:(i+1)*s.dim]...)
	}
	return out, nil
}

// Close is a no-op.
func (s *MemorySource) Close() error { return nil }
