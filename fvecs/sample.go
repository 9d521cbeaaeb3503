package fvecs

import "math/rand/v2"

// NewRand returns a deterministic generator for Sample.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SampleIndices draws min(n, count) distinct indices from [0, count) in random
// order. It runs a partial Fisher–Yates shuffle over a sparse swap table, so the
// cost depends on n, not on count.
func SampleIndices(rng *rand.Rand, count, n int) []int {
	n = max(min(n, count), 0)
	out := make([]int, n)
	swapped := make(map[int]int, n)

	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}

	for i := range n {
		j := i + rng.IntN(count-i)
		out[i] = at(j)
		swapped[j] = at(i)
	}
	return out
}
