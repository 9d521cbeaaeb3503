package quantization

import (
	"fmt"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// QuantizedBatch is the immutable result of a Quantize call: the per-dimension
// parameters followed by the row-major code array.
//
// Params()[i] applies to every code at position v*Dim()+i.
type QuantizedBatch struct {
	params     []DimensionParams
	codes      []byte
	bounds     []Bounds
	clipped    []int
	constant   *roaring.Bitmap
	quantile   float64
	bits       int
	numVectors int
	dim        int
}

func newQuantizedBatch(quantile float64, bits, numVectors, dim int, bounds []Bounds, params []DimensionParams, codes []byte, clipped []int) *QuantizedBatch {
	constant := roaring.New()
	for i, p := range params {
		if p.Constant() {
			constant.Add(uint32(i))
		}
	}
	constant.RunOptimize()

	return &QuantizedBatch{
		params:     params,
		codes:      codes,
		bounds:     bounds,
		clipped:    clipped,
		constant:   constant,
		quantile:   quantile,
		bits:       bits,
		numVectors: numVectors,
		dim:        dim,
	}
}

// NumVectors returns the number of quantized vectors.
func (b *QuantizedBatch) NumVectors() int { return b.numVectors }

// Dim returns the vector dimensionality.
func (b *QuantizedBatch) Dim() int { return b.dim }

// Bits returns the code width.
func (b *QuantizedBatch) Bits() int { return b.bits }

// Quantile returns the quantile the batch was trimmed with.
func (b *QuantizedBatch) Quantile() float64 { return b.quantile }

// Params returns a copy of the per-dimension parameters.
func (b *QuantizedBatch) Params() []DimensionParams {
	return slices.Clone(b.params)
}

// Bounds returns a copy of the per-dimension trimmed ranges.
func (b *QuantizedBatch) Bounds() []Bounds {
	return slices.Clone(b.bounds)
}

// Codes returns the row-major code array. The slice is shared with the batch
// and must not be modified.
func (b *QuantizedBatch) Codes() []byte {
	return b.codes
}

// Vector returns the codes of vector i. The slice is shared with the batch and
// must not be modified.
func (b *QuantizedBatch) Vector(i int) ([]byte, error) {
	if i < 0 || i >= b.numVectors {
		return nil, fmt.Errorf("%w: vector %d of %d", ErrDimensionOutOfRange, i, b.numVectors)
	}
	return b.codes[i*b.dim : (i+1)*b.dim : (i+1)*b.dim], nil
}

// Dequantize reconstructs the value a code stands for in dimension dim.
func (b *QuantizedBatch) Dequantize(code uint8, dim int) (float32, error) {
	if dim < 0 || dim >= b.dim {
		return 0, fmt.Errorf("%w: dimension %d of %d", ErrDimensionOutOfRange, dim, b.dim)
	}
	return b.params[dim].Decode(code), nil
}

// DequantizeVector reconstructs vector i.
func (b *QuantizedBatch) DequantizeVector(i int) ([]float32, error) {
	codes, err := b.Vector(i)
	if err != nil {
		return nil, err
	}

	out := make([]float32, b.dim)
	for d, c := range codes {
		out[d] = b.params[d].Decode(c)
	}
	return out, nil
}

// ConstantDims returns the set of dimensions that use the constant sentinel.
// The returned bitmap is a copy.
func (b *QuantizedBatch) ConstantDims() *roaring.Bitmap {
	return b.constant.Clone()
}

// Clipped returns how many values of dimension dim fell outside its trimmed range
// and were clamped.
func (b *QuantizedBatch) Clipped(dim int) (int, error) {
	if dim < 0 || dim >= b.dim {
		return 0, fmt.Errorf("%w: dimension %d of %d", ErrDimensionOutOfRange, dim, b.dim)
	}
	return b.clipped[dim], nil
}

// TotalClipped returns the number of clamped values across all dimensions.
func (b *QuantizedBatch) TotalClipped() int {
	total := 0
	for _, n := range b.clipped {
		total += n
	}
	return total
}

// CompressionRatio returns the float32 to code size ratio if codes were bit-packed.
// Codes are stored one per byte, so the in-memory ratio is 4.
func (b *QuantizedBatch) CompressionRatio() float64 {
	return 32.0 / float64(b.bits)
}

// ReconstructionError compares the batch against the values it was built from and
// returns the mean and maximum absolute reconstruction error.
func (b *QuantizedBatch) ReconstructionError(values []float32) (mean, maxErr float64, err error) {
	if len(values) != len(b.codes) {
		return 0, 0, &ShapeMismatchError{NumVectors: b.numVectors, Dim: b.dim, Actual: len(values)}
	}

	var sum float64
	for j, v := range values {
		d := math.Abs(float64(b.params[j%b.dim].Decode(b.codes[j])) - float64(v))
		sum += d
		if d > maxErr {
			maxErr = d
		}
	}

	return sum / float64(len(values)), maxErr, nil
}
