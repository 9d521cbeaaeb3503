package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store opens immutable data blobs such as vector files.
type Store interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes at offset off. It follows io.ReaderAt semantics.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// ReadRange returns a reader over at most length bytes starting at off.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	// Size returns the size of the blob in bytes.
	Size() int64
	io.Closer
}

// Writer is implemented by stores that can create blobs.
type Writer interface {
	// Create creates a blob. The content becomes visible once Close returns nil.
	Create(ctx context.Context, name string) (WritableBlob, error)
}

// WritableBlob is a blob under construction.
type WritableBlob interface {
	io.WriteCloser
}

// Downloader is implemented by remote stores that can fetch a whole blob faster
// than a single sequential range read, e.g. with parallel part requests.
type Downloader interface {
	Download(ctx context.Context, name string, w io.WriterAt) (int64, error)
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// AccessPattern describes how a reader is about to walk a blob.
type AccessPattern int

const (
	// AccessSequential reads the blob front to back.
	AccessSequential AccessPattern = iota + 1
	// AccessRandom reads scattered records.
	AccessRandom
)

// Advisable is an optional interface for Blobs that accept access hints.
type Advisable interface {
	Advise(pattern AccessPattern) error
}

// ReadFull reads exactly len(p) bytes at off.
// A short read at the end of the blob is reported as io.ErrUnexpectedEOF.
func ReadFull(ctx context.Context, b Blob, p []byte, off int64) error {
	n, err := b.ReadAt(ctx, p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
