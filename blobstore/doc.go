// Package blobstore provides read access to vector files wherever they live.
//
// A Store opens immutable Blobs by name. Blobs support positioned reads, used to
// pick individual records while sampling, and range reads for streaming.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, read-only mmap
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with range reads and parallel downloads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Optional Capabilities
//
// Stores may also implement Writer (creating blobs) and Downloader (whole-blob
// fetches). Blobs may implement Mappable (zero-copy access) and Advisable
// (access pattern hints). Callers detect them with type assertions.
//
// # Locations
//
// ParseURI splits "s3://bucket/key", "minio://bucket/key", "file:///dir/name" or a
// plain path into the store root and the blob name.
package blobstore
