package scoring

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"salescli/internal/dataset"
)

var (
	// ErrLengthMismatch is returned when ground truth and predictions differ in length.
	ErrLengthMismatch = errors.New("ground truth and predictions differ in length")
	// ErrEmpty is returned when there is nothing to score.
	ErrEmpty = errors.New("no values to score")
)

// Default clipping range of the competition metric.
const (
	DefaultClipMin = 0
	DefaultClipMax = 20
)

// ClippedRMSE is sqrt(mean((clip(gt) - pred)^2)) with gt clipped to
// [clipMin, clipMax]. Predictions are not clipped.
func ClippedRMSE(gt, pred []float64, clipMin, clipMax float64) (float64, error) {
	diff, err := clippedResiduals(gt, pred, clipMin, clipMax)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(floats.Dot(diff, diff) / float64(len(diff))), nil
}

// ElementwiseClippedRMSE takes the square root of each squared residual
// before averaging, which amounts to the mean absolute error against the
// clipped ground truth. Scores recorded by earlier tooling were computed this
// way.
func ElementwiseClippedRMSE(gt, pred []float64, clipMin, clipMax float64) (float64, error) {
	diff, err := clippedResiduals(gt, pred, clipMin, clipMax)
	if err != nil {
		return 0, err
	}
	for i, d := range diff {
		diff[i] = math.Sqrt(d * d)
	}
	return stat.Mean(diff, nil), nil
}

func clippedResiduals(gt, pred []float64, clipMin, clipMax float64) ([]float64, error) {
	if len(gt) != len(pred) {
		return nil, fmt.Errorf("%d vs %d: %w", len(gt), len(pred), ErrLengthMismatch)
	}
	if len(gt) == 0 {
		return nil, ErrEmpty
	}
	diff := dataset.ClipTarget(gt, clipMin, clipMax)
	floats.Sub(diff, pred)
	return diff, nil
}
