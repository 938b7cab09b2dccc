package vector

import "math"

// Cosine returns the cosine similarity between a and b, defined as
// dot(a,b) / (|a| * |b|). A zero-magnitude vector yields 0. Negative
// similarities are clamped to 0 so scores stay in [0, 1].
func Cosine(a, b []float32) float32 {
	n := min(len(a), len(b))

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return float32(score)
}
