package fvecs

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the stream compression of a vector file.
type CompressionType uint8

const (
	// CompressionNone indicates a plain file with random access.
	CompressionNone CompressionType = iota
	// CompressionZSTD indicates a zstd stream (.zst).
	CompressionZSTD
	// CompressionLZ4 indicates an LZ4 frame stream (.lz4).
	CompressionLZ4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZSTD:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("CompressionType(%d)", uint8(c))
	}
}

// CompressionFromName derives the compression from a file name's extension.
func CompressionFromName(name string) CompressionType {
	switch {
	case strings.HasSuffix(name, ".zst"), strings.HasSuffix(name, ".zstd"):
		return CompressionZSTD
	case strings.HasSuffix(name, ".lz4"):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// NewDecompressor wraps r with a decompressing reader.
func NewDecompressor(r io.Reader, c CompressionType) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionZSTD:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %s", ErrInvalidArgument, c)
	}
}

// NewCompressor wraps w with a compressing writer. Close flushes the stream but
// does not close w.
func NewCompressor(w io.Writer, c CompressionType) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionZSTD:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %s", ErrInvalidArgument, c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
