// Package fvecs reads and writes vector datasets in the .fvecs format.
//
// Each record is a little-endian int32 dimension followed by that many
// little-endian float32 values:
//
//	┌──────────┬────────────┬────────────┬─────┬──────────────┐
//	│ dim int32│ v[0] f32   │ v[1] f32   │ ... │ v[dim-1] f32 │
//	└──────────┴────────────┴────────────┴─────┴──────────────┘
//
// Every record of a file carries the same dimension. Plain files are read with
// random access through a blobstore.Blob, so a sample of records can be drawn
// from a multi-gigabyte file on local disk or in object storage without reading
// all of it. Files ending in .zst or .lz4 are decompressed as a stream and held
// in memory.
//
//	src, err := fvecs.Open(ctx, store, "gist_base.fvecs", 960)
//	if err != nil { ... }
//	defer src.Close()
//
//	values, err := src.Sample(ctx, 10, fvecs.NewRand(42)) // 10 random records, row-major
package fvecs
