package quantization

import "math"

const (
	// MinBits is the narrowest supported code width.
	MinBits = 1
	// MaxBits is the widest supported code width; codes are stored one per byte.
	MaxBits = 8
	// DefaultBits is the conventional SQ8 code width.
	DefaultBits = 8
)

// DimensionParams maps one dimension between real values and integer codes.
//
// A value v encodes to round(clamp((v−Offset)/Scale, 0, 2^bits−1)) and a code c
// decodes to Offset + c·Scale. A zero Scale marks a constant dimension: every
// value encodes to the midpoint code and every code decodes to Offset.
type DimensionParams struct {
	Scale  float64
	Offset float64
}

// DeriveParams converts a dimension's bounds into its scale and offset for the
// given code width.
func DeriveParams(b Bounds, bits int) DimensionParams {
	if b.Constant() {
		return DimensionParams{Scale: 0, Offset: float64(b.Low)}
	}

	return DimensionParams{
		Scale:  (float64(b.High) - float64(b.Low)) / float64(MaxCode(bits)),
		Offset: float64(b.Low),
	}
}

// Constant reports whether Scale is the constant-dimension sentinel.
func (p DimensionParams) Constant() bool {
	return p.Scale == 0
}

// Encode maps v to its code. Values outside the dimension's range are clamped.
func (p DimensionParams) Encode(v float32, bits int) uint8 {
	if p.Scale == 0 {
		return MidpointCode(bits)
	}

	maxCode := MaxCode(bits)
	x := (float64(v) - p.Offset) / p.Scale
	switch {
	case x <= 0:
		return 0
	case x >= float64(maxCode):
		return maxCode
	default:
		return uint8(math.Round(x))
	}
}

// Decode reconstructs the approximate value of a code.
func (p DimensionParams) Decode(code uint8) float32 {
	if p.Scale == 0 {
		return float32(p.Offset)
	}
	return float32(p.Offset + float64(code)*p.Scale)
}

// MaxCode returns 2^bits − 1.
func MaxCode(bits int) uint8 {
	return uint8(int(1)<<bits - 1)
}

// MidpointCode returns 2^(bits−1), the code used for constant dimensions.
func MidpointCode(bits int) uint8 {
	return uint8(int(1) << (bits - 1))
}

func validateBits(bits int) error {
	if bits < MinBits || bits > MaxBits {
		return invalidParameter("code width %d outside [%d, %d]", bits, MinBits, MaxBits)
	}
	return nil
}
