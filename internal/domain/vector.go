package domain

import (
	"fmt"
	"math"
)

// CosineSimilarity computes the cosine similarity of two equal-length vectors
// and maps it from its natural [-1, 1] range into [0, 1] via (cos+1)/2.
//
// Returns ErrVectorDimMismatch when lengths differ and ErrDegenerateVector
// when either vector has zero magnitude; a catalog item may legitimately carry
// an all-zero placeholder vector when ingestion could not embed it, so callers
// treat the latter as a 0.0 score rather than a failure.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrVectorDimMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, ErrDegenerateVector
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2, nil
}
