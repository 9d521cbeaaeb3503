// Package squant compresses batches of embedding vectors into 8-bit (or
// narrower) scalar codes using per-dimension, quantile-trimmed ranges.
//
// Real embeddings carry a few extreme values per dimension. Plain min/max scalar
// quantization lets those outliers stretch the range and waste most of the code
// space. squant trims the same fraction from both tails of every dimension first,
// then maps the remaining range onto the code space and clamps the outliers.
//
// # Quick Start
//
//	c, _ := squant.New(0.99) // keep the central 99% of each dimension
//	batch, _ := c.Quantize(ctx, values, numVectors, dim)
//
//	params := batch.Params() // per-dimension scale and offset
//	codes := batch.Codes()   // numVectors × dim bytes, row-major
//	v, _ := batch.Dequantize(codes[0], 0)
//
// # Vector Files
//
// Batches can be read straight from .fvecs files on local disk, S3 or MinIO:
//
//	store := blobstore.NewLocalStore("./data")
//	src, _ := fvecs.Open(ctx, store, "gist_base.fvecs", 960)
//	batch, _ := c.QuantizeSource(ctx, src, 10, squant.LoadOptions{Sample: true, Seed: 1})
//
// # Observability
//
// Every call is tagged with a batch id, logged through a slog-based Logger and
// reported to a MetricsCollector:
//
//	c, _ := squant.New(0.99,
//	    squant.WithLogger(squant.NewJSONLogger(os.Stderr, slog.LevelInfo)),
//	    squant.WithMetricsCollector(metrics.NewPrometheusCollector(prometheus.DefaultRegisterer)),
//	)
//
// The quantization package holds the algorithm itself and can be used without
// this wrapper.
package squant
