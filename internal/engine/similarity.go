package engine

import (
	"fmt"
	"math"
)

// DimensionMismatchError signals that two embeddings of different length
// reached the similarity scorer. This is an upstream provider contract
// violation and is fatal for the affected job only.
type DimensionMismatchError struct {
	A, B int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: %d vs %d", e.A, e.B)
}

// Similarity computes the cosine similarity of two equal-length vectors and
// rescales the raw [-1,1] range to [0,1] so all component scores share a
// common scale. A zero vector yields the neutral 0.5.
func Similarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{A: len(a), B: len(b)}
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.5, nil
	}

	cosine := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	cosine = math.Max(-1, math.Min(1, cosine))

	return (cosine + 1) / 2, nil
}
