package scoring

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Epsilon is added to every denominator in SafeDiv.
const Epsilon = 1e-10

// SafeDiv returns a / (b + Epsilon).
func SafeDiv(a, b float64) float64 {
	return a / (b + Epsilon)
}

// SafeDivSlice returns a[i] / (b[i] + Epsilon) for every i.
func SafeDivSlice(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("safe division of %d by %d values: %w", len(a), len(b), ErrLengthMismatch)
	}
	denom := append([]float64(nil), b...)
	floats.AddConst(Epsilon, denom)
	out := make([]float64, len(a))
	floats.DivTo(out, a, denom)
	return out, nil
}

// Number is the set of value types CombineScores can add.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// CombineScores sums values with the same key across all maps. A key missing
// from a map contributes nothing. The inputs are not modified.
func CombineScores[K comparable, V Number](scores ...map[K]V) map[K]V {
	out := make(map[K]V)
	for _, m := range scores {
		for k, v := range m {
			out[k] += v
		}
	}
	return out
}
