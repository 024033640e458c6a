package embed

import (
	"hash/fnv"
	"math"
)

// DefaultDim matches the upstream embedding model's output dimension.
const DefaultDim = 1024

// fallbackVector creates a deterministic stand-in vector for text. The same
// text always yields the same vector, so runs that degrade at different
// points still agree on what a given text looks like.
func fallbackVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(NormalizeKey(text)))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%2000)/1000.0 - 1.0
	}

	// Normalize to unit length
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares > 0 {
		inv := float32(1.0 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= inv
		}
	}
	return vector
}
