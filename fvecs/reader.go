package fvecs

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/hupe1980/squant/blobstore"
	"golang.org/x/time/rate"
)

// Reader gives random access to the records of an uncompressed vector file.
//
// A Reader is safe for concurrent use. Closing it closes the blob.
type Reader struct {
	blob    blobstore.Blob
	dim     int
	count   int
	recSize int64
	mapped  []byte
	limiter *rate.Limiter
	bufPool sync.Pool
}

var _ Source = (*Reader)(nil)

// NewReader wraps blob. The blob size must be a whole number of records of the
// given dimension.
func NewReader(blob blobstore.Blob, dim int, optFns ...Option) (*Reader, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidArgument, dim)
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	recSize := RecordSize(dim)
	size := blob.Size()
	if size%recSize != 0 {
		full := size / recSize
		return nil, &MalformedRecordError{Index: int(full), Offset: full * recSize, Declared: -1, Expected: dim}
	}

	r := &Reader{
		blob:    blob,
		dim:     dim,
		count:   int(size / recSize),
		recSize: recSize,
		limiter: newLimiter(opts.bytesPerSec, recSize),
	}
	r.bufPool.New = func() any {
		b := make([]byte, recSize)
		return &b
	}

	// Mapped local files skip the copy, unless reads are throttled.
	if m, ok := blob.(blobstore.Mappable); ok && r.limiter == nil {
		if data, err := m.Bytes(); err == nil {
			r.mapped = data
		}
	}

	return r, nil
}

// Dim returns the record dimension.
func (r *Reader) Dim() int { return r.dim }

// Count returns the number of records in the file.
func (r *Reader) Count() int { return r.count }

// Record reads record i.
func (r *Reader) Record(ctx context.Context, i int) ([]float32, error) {
	if i < 0 || i >= r.count {
		return nil, fmt.Errorf("%w: record %d of %d", ErrInvalidArgument, i, r.count)
	}
	out := make([]float32, r.dim)
	if err := r.readRecord(ctx, i, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Load reads the first n records in file order as one row-major slice.
func (r *Reader) Load(ctx context.Context, n int) ([]float32, error) {
	if err := r.checkCount(n); err != nil {
		return nil, err
	}
	out := make([]float32, n*r.dim)
	if n == 0 {
		return out, nil
	}
	r.advise(blobstore.AccessSequential)

	if r.mapped != nil {
		for i := range n {
			if err := r.readRecord(ctx, i, out[i*r.dim:(i+1)*r.dim]); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	rc, err := r.blob.ReadRange(ctx, 0, int64(n)*r.recSize)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	dec, err := NewDecoder(newThrottledReader(ctx, rc, r.limiter), r.dim)
	if err != nil {
		return nil, err
	}
	for i := range n {
		if err := dec.Decode(out[i*r.dim : (i+1)*r.dim]); err != nil {
			return nil, fmt.Errorf("fvecs: load record %d: %w", i, err)
		}
	}
	return out, nil
}

// Sample reads min(n, Count()) distinct records chosen by rng, in the order drawn.
func (r *Reader) Sample(ctx context.Context, n int, rng *rand.Rand) ([]float32, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidArgument, n)
	}
	r.advise(blobstore.AccessRandom)

	idx := SampleIndices(rng, r.count, n)
	out := make([]float32, len(idx)*r.dim)
	for j, i := range idx {
		if err := r.readRecord(ctx, i, out[j*r.dim:(j+1)*r.dim]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Close closes the underlying blob.
func (r *Reader) Close() error {
	return r.blob.Close()
}

func (r *Reader) checkCount(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidArgument, n)
	}
	if n > r.count {
		return fmt.Errorf("%w: requested %d, have %d", ErrNotEnoughRecords, n, r.count)
	}
	return nil
}

func (r *Reader) advise(pattern blobstore.AccessPattern) {
	if a, ok := r.blob.(blobstore.Advisable); ok {
		// Hints only.
		_ = a.Advise(pattern)
	}
}

func (r *Reader) readRecord(ctx context.Context, i int, dst []float32) error {
	off := int64(i) * r.recSize

	if r.mapped != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		return decodeRecord(r.mapped[off:off+r.recSize], dst, i, off)
	}

	if r.limiter != nil {
		if err := r.limiter.WaitN(ctx, int(r.recSize)); err != nil {
			return err
		}
	}

	bp := r.bufPool.Get().(*[]byte)
	defer r.bufPool.Put(bp)

	if err := blobstore.ReadFull(ctx, r.blob, *bp, off); err != nil {
		return fmt.Errorf("fvecs: read record %d: %w", i, err)
	}
	return decodeRecord(*bp, dst, i, off)
}
