// Package quantization compresses batches of float32 vectors into per-dimension
// scalar-quantized integer codes.
//
// # Overview
//
// For every dimension the quantizer trims the same fraction of extreme values from
// both tails (quantile trimming), maps the remaining range onto the full span of a
// W-bit code and encodes every value, clamping anything outside the range:
//
//	q, _ := quantization.New(0.99)                 // keep the central 99% per dimension
//	batch, _ := q.Quantize(values, numVectors, dim) // values is row-major
//	batch.Params()                                  // per-dimension (scale, offset)
//	batch.Codes()                                   // numVectors × dim codes
//	v, _ := batch.Dequantize(code, d)               // offset + code·scale
//
// A quantile of 1 keeps everything and degenerates to plain min/max scalar
// quantization.
//
// # Pipeline
//
//	┌──────────────────┐   ┌───────────────────┐   ┌─────────────────┐
//	│ Bound Estimator  │ → │ Parameter Deriver │ → │ Mapping pass    │
//	│ (per dimension)  │   │ (scale, offset)   │   │ (row blocks)    │
//	└──────────────────┘   └───────────────────┘   └─────────────────┘
//
// The bound estimator reads order statistics with in-place quickselect
// (PolicyNearestRank) or interpolates between them (PolicyLinear). Both passes
// are split across goroutines for large batches; the result is bit-identical to
// the single-threaded path.
//
// # Code Width
//
// Codes are 8 bits wide by default (SQ8: 4x smaller than float32). WithBits
// selects any width in [1, 8]; codes are still stored one per byte.
//
// # Constant Dimensions
//
// A dimension whose trimmed range is empty gets Scale == 0. All of its values
// encode to the midpoint code 2^(W−1) and every code decodes back to the constant.
//
// # Thread Safety
//
// A Quantizer holds configuration only and may be shared between goroutines.
// A QuantizedBatch is immutable.
package quantization
