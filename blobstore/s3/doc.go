// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "datasets/")
//
//	src, err := fvecs.Open(ctx, store, "gist/gist_base.fvecs", 960)
//
// # Features
//
//   - Range reads, one GetObject per record, for sampling without a full download
//   - Parallel whole-object downloads via the transfer manager (compressed files)
//   - Streaming multipart uploads
//   - Configurable prefix
package s3
