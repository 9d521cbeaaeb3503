package quantization

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Policy selects how percentile bounds are read from a dimension's values.
// The policy is fixed per Quantizer and never depends on the data.
type Policy int

const (
	// PolicyNearestRank picks order statistics directly, rounding the low rank down and
	// the high rank up so the retained range never covers less than the requested mass.
	// It uses in-place selection and runs in expected linear time.
	PolicyNearestRank Policy = iota

	// PolicyLinear interpolates linearly between adjacent order statistics using
	// gonum's stat.LinInterp estimator. It sorts a copy of the values.
	PolicyLinear
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyNearestRank:
		return "nearest"
	case PolicyLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a policy name ("nearest" or "linear") to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "nearest", "nearest-rank", "":
		return PolicyNearestRank, nil
	case "linear":
		return PolicyLinear, nil
	default:
		return 0, invalidParameter("unknown percentile policy %q", s)
	}
}

func (p Policy) valid() bool {
	return p == PolicyNearestRank || p == PolicyLinear
}

// Bounds is the trimmed [Low, High] range of a single dimension.
type Bounds struct {
	Low  float32
	High float32
}

// Constant reports whether the range is degenerate.
func (b Bounds) Constant() bool {
	return b.High <= b.Low
}

// Contains reports whether v lies inside the range.
func (b Bounds) Contains(v float32) bool {
	return v >= b.Low && v <= b.High
}

// rankEpsilon absorbs floating point noise in t·(n−1) before flooring or ceiling,
// so that q = 1 always lands exactly on the first and last element.
const rankEpsilon = 1e-9

// EstimateBounds returns the symmetric quantile-trimmed range of values.
//
// Low is the value at percentile (1−q)/2 and High the value at percentile
// 1−(1−q)/2. With q = 1 the result is the exact minimum and maximum.
// values is not modified.
func EstimateBounds(values []float32, quantile float64, policy Policy) (Bounds, error) {
	if err := validateQuantile(quantile); err != nil {
		return Bounds{}, err
	}
	if !policy.valid() {
		return Bounds{}, invalidParameter("unknown percentile policy %d", int(policy))
	}
	if len(values) == 0 {
		return Bounds{}, &InsufficientDataError{Dimension: 0}
	}
	for i, v := range values {
		if !isFinite(v) {
			return Bounds{}, &NonFiniteError{Index: i, Value: v}
		}
	}

	scratch := slices.Clone(values)
	return estimateInPlace(scratch, quantile, policy), nil
}

// estimateInPlace computes bounds over finite, non-empty scratch and may reorder it.
func estimateInPlace(scratch []float32, quantile float64, policy Policy) Bounds {
	if len(scratch) == 1 {
		return Bounds{Low: scratch[0], High: scratch[0]}
	}

	tail := (1 - quantile) / 2

	if policy == PolicyLinear {
		sorted := make([]float64, len(scratch))
		for i, v := range scratch {
			sorted[i] = float64(v)
		}
		slices.Sort(sorted)
		return Bounds{
			Low:  float32(stat.Quantile(tail, stat.LinInterp, sorted, nil)),
			High: float32(stat.Quantile(1-tail, stat.LinInterp, sorted, nil)),
		}
	}

	lo, hi := rankIndices(len(scratch), tail)
	low := selectKth(scratch, lo)
	if hi == lo {
		return Bounds{Low: low, High: low}
	}
	// After selection everything right of lo is >= low, so the high rank can be
	// selected within that suffix.
	high := selectKth(scratch[lo:], hi-lo)

	return Bounds{Low: low, High: high}
}

// rankIndices returns the zero-based order statistic ranks for a tail fraction.
func rankIndices(n int, tail float64) (lo, hi int) {
	last := float64(n - 1)
	lo = int(math.Floor(tail*last + rankEpsilon))
	hi = int(math.Ceil((1-tail)*last - rankEpsilon))

	lo = min(max(lo, 0), n-1)
	hi = min(max(hi, lo), n-1)
	return lo, hi
}

func validateQuantile(q float64) error {
	if math.IsNaN(q) || q <= 0 || q > 1 {
		return invalidParameter("quantile %v outside (0, 1]", q)
	}
	return nil
}

func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
