package similarity

import "math"

// Cosine returns the cosine similarity of a and b. Vectors of different
// length or with a zero norm score 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, aa, bb float64
	for i, x := range a {
		y := b[i]
		dot += x * y
		aa += x * x
		bb += y * y
	}
	if aa == 0 || bb == 0 {
		return 0
	}
	return dot / (math.Sqrt(aa) * math.Sqrt(bb))
}

// Candidate is a scored perspective of another movie.
type Candidate struct {
	Key        string
	Similarity float64
}
