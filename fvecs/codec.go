package fvecs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Decoder reads records sequentially from a stream.
type Decoder struct {
	r      *bufio.Reader
	dim    int
	index  int
	offset int64
	rec    []byte
}

// NewDecoder returns a Decoder for records of the given dimension.
func NewDecoder(r io.Reader, dim int) (*Decoder, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidArgument, dim)
	}
	return &Decoder{
		r:   bufio.NewReaderSize(r, 1<<16),
		dim: dim,
		rec: make([]byte, RecordSize(dim)),
	}, nil
}

// Decode reads the next record into dst, which must have length Dim.
// It returns io.EOF when the stream ends cleanly between records.
func (d *Decoder) Decode(dst []float32) error {
	if len(dst) != d.dim {
		return fmt.Errorf("%w: buffer length %d, dimension %d", ErrInvalidArgument, len(dst), d.dim)
	}

	n, err := io.ReadFull(d.r, d.rec)
	switch {
	case err == io.EOF:
		return io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		declared := -1
		if n >= headerSize {
			declared = peekDim(d.rec)
		}
		return &MalformedRecordError{Index: d.index, Offset: d.offset, Declared: declared, Expected: d.dim}
	case err != nil:
		return err
	}

	if err := decodeRecord(d.rec, dst, d.index, d.offset); err != nil {
		return err
	}
	d.index++
	d.offset += int64(len(d.rec))
	return nil
}

// DecodeN appends up to n records to dst. n < 0 reads to the end of the stream.
func (d *Decoder) DecodeN(dst []float32, n int) ([]float32, error) {
	for i := 0; n < 0 || i < n; i++ {
		start := len(dst)
		dst = append(dst, make([]float32, d.dim)...)
		if err := d.Decode(dst[start:]); err != nil {
			dst = dst[:start]
			if err == io.EOF {
				return dst, nil
			}
			return dst, err
		}
	}
	return dst, nil
}

// Count returns the number of records decoded so far.
func (d *Decoder) Count() int { return d.index }

// Encoder writes records to a stream.
type Encoder struct {
	w   *bufio.Writer
	dim int
	buf []byte
}

// NewEncoder returns an Encoder for records of the given dimension.
// Flush must be called once all records are written.
func NewEncoder(w io.Writer, dim int) (*Encoder, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidArgument, dim)
	}
	return &Encoder{
		w:   bufio.NewWriterSize(w, 1<<16),
		dim: dim,
		buf: make([]byte, 0, RecordSize(dim)),
	}, nil
}

// Encode writes one record.
func (e *Encoder) Encode(vec []float32) error {
	if len(vec) != e.dim {
		return fmt.Errorf("%w: vector length %d, dimension %d", ErrInvalidArgument, len(vec), e.dim)
	}
	e.buf = appendRecord(e.buf[:0], vec)
	_, err := e.w.Write(e.buf)
	return err
}

// EncodeBatch writes a row-major batch of records.
func (e *Encoder) EncodeBatch(values []float32) error {
	if len(values)%e.dim != 0 {
		return fmt.Errorf("%w: %d values is not a multiple of dimension %d", ErrInvalidArgument, len(values), e.dim)
	}
	for off := 0; off < len(values); off += e.dim {
		if err := e.Encode(values[off : off+e.dim]); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}
