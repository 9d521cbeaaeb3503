package quantization

import (
	"math/bits"
	"slices"
)

// selectKth reorders a so that a[k] holds the k-th smallest element, every element
// before k is <= a[k] and every element after k is >= a[k]. It returns a[k].
//
// The algorithm is quickselect with a median-of-three pivot and three-way
// partitioning, so runs of equal values (constant dimensions) terminate in a single
// pass. If the partition depth exceeds 2·log2(n) the remaining window is sorted
// with slices.Sort, which bounds the worst case at O(n log n).
func selectKth(a []float32, k int) float32 {
	lo, hi := 0, len(a)-1
	budget := 2 * bits.Len(uint(len(a)))

	for hi > lo {
		if budget == 0 {
			slices.Sort(a[lo : hi+1])
			return a[k]
		}
		budget--

		lt, gt := partition3(a, lo, hi)
		switch {
		case k < lt:
			hi = lt - 1
		case k > gt:
			lo = gt + 1
		default:
			return a[k]
		}
	}

	return a[k]
}

// partition3 partitions a[lo..hi] into < pivot, == pivot and > pivot regions and
// returns the bounds of the equal region.
func partition3(a []float32, lo, hi int) (lt, gt int) {
	pivot := medianOf3(a[lo], a[lo+(hi-lo)/2], a[hi])

	lt, gt = lo, hi
	for i := lo; i <= gt; {
		switch {
		case a[i] < pivot:
			a[lt], a[i] = a[i], a[lt]
			lt++
			i++
		case a[i] > pivot:
			a[i], a[gt] = a[gt], a[i]
			gt--
		default:
			i++
		}
	}

	return lt, gt
}

func medianOf3(a, b, c float32) float32 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		return a
	}
	return b
}
