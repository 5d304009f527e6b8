package submission

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	apperrors "salescli/internal/errors"
)

// Normalization decides what a weighted sum of predictions is divided by.
type Normalization string

const (
	// NormalizeByCount divides sum(w*x) by the number of files. With unit
	// weights this is the plain mean; with other weights the result is
	// scaled by sum(w)/N, which is how historical weighted submissions were
	// produced.
	NormalizeByCount Normalization = "count"
	// NormalizeByWeightSum divides sum(w*x) by sum(w), the weighted mean.
	NormalizeByWeightSum Normalization = "weight_sum"
)

// ParseNormalization converts a configuration value to a Normalization.
// The empty string selects NormalizeByCount.
func ParseNormalization(s string) (Normalization, error) {
	switch Normalization(s) {
	case "", NormalizeByCount:
		return NormalizeByCount, nil
	case NormalizeByWeightSum:
		return NormalizeByWeightSum, nil
	}
	return "", apperrors.NewValidationError(fmt.Sprintf("normalization %q", s), ErrInvalidNormalization)
}

// AverageFile is the output name of an unweighted average.
func AverageFile(id string) string {
	return fmt.Sprintf("submission-average-%s.csv", id)
}

// WeightedFile is the output name of a weighted average.
func WeightedFile(id string) string {
	return fmt.Sprintf("submission-weighted-%s.csv", id)
}

// AveragerConfig configures an Averager.
type AveragerConfig struct {
	Normalization    Normalization
	MaxParallelReads int
}

// Averager combines prediction files and writes the result with a Writer.
type Averager struct {
	writer *Writer
	cfg    AveragerConfig
	logger *slog.Logger
}

// NewAverager creates an averager that resolves and writes files through w.
func NewAverager(logger *slog.Logger, w *Writer, cfg AveragerConfig) *Averager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Normalization == "" {
		cfg.Normalization = NormalizeByCount
	}
	if cfg.MaxParallelReads <= 0 {
		cfg.MaxParallelReads = 4
	}
	return &Averager{
		writer: w,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "averager")),
	}
}

// Average writes the unweighted mean of filenames to
// submission-average-{id}.csv and returns its path.
func (a *Averager) Average(ctx context.Context, filenames []string, id string) (string, error) {
	if len(filenames) == 0 {
		return "", apperrors.NewValidationError("average", ErrNoFiles)
	}
	weights := make([]float64, len(filenames))
	for i := range weights {
		weights[i] = 1
	}

	start := time.Now()
	preds, err := a.load(ctx, filenames)
	if err != nil {
		return "", err
	}
	result, err := Combine(preds, weights, NormalizeByCount)
	if err != nil {
		return "", err
	}
	path, err := a.writer.Write(ctx, result, AverageFile(id))
	if err != nil {
		return "", err
	}

	a.logger.InfoContext(ctx, "submissions averaged",
		slog.Int("files", len(filenames)),
		slog.Int("rows", len(result)),
		slog.String("output", path),
		slog.Duration("duration", time.Since(start)))
	return path, nil
}

// Weighted writes the weighted combination of filenames to
// submission-weighted-{id}.csv and returns its path. A weight count that
// differs from the file count is rejected before any file is read.
func (a *Averager) Weighted(ctx context.Context, filenames []string, weights []float64, id string) (string, error) {
	if len(filenames) != len(weights) {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("%d files, %d weights", len(filenames), len(weights)), ErrWeightMismatch)
	}
	if len(filenames) == 0 {
		return "", apperrors.NewValidationError("weighted average", ErrNoFiles)
	}

	start := time.Now()
	preds, err := a.load(ctx, filenames)
	if err != nil {
		return "", err
	}
	result, err := Combine(preds, weights, a.cfg.Normalization)
	if err != nil {
		return "", err
	}
	path, err := a.writer.Write(ctx, result, WeightedFile(id))
	if err != nil {
		return "", err
	}

	a.logger.InfoContext(ctx, "submissions weighted",
		slog.Int("files", len(filenames)),
		slog.Any("weights", weights),
		slog.String("normalization", string(a.cfg.Normalization)),
		slog.String("output", path),
		slog.Duration("duration", time.Since(start)))
	return path, nil
}

// load reads every file concurrently. Results keep the order of filenames.
func (a *Averager) load(ctx context.Context, filenames []string) ([][]float64, error) {
	preds := make([][]float64, len(filenames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.MaxParallelReads)
	for i, name := range filenames {
		g.Go(func() error {
			path := a.writer.Resolve(name)
			values, err := ReadPredictions(gctx, path)
			if err != nil {
				return err
			}
			a.logger.DebugContext(gctx, "prediction file loaded",
				slog.String("path", path),
				slog.Int("rows", len(values)))
			preds[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return preds, nil
}

// Combine returns sum_i(weights[i]*preds[i]) divided according to norm.
// All prediction slices must have the same length.
func Combine(preds [][]float64, weights []float64, norm Normalization) ([]float64, error) {
	if len(preds) != len(weights) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("%d predictions, %d weights", len(preds), len(weights)), ErrWeightMismatch)
	}
	if len(preds) == 0 {
		return nil, ErrNoFiles
	}

	n := len(preds[0])
	for i, p := range preds {
		if len(p) != n {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("input %d has %d rows, input 0 has %d", i, len(p), n), ErrLengthMismatch)
		}
	}

	var denom float64
	switch norm {
	case NormalizeByCount, "":
		denom = float64(len(preds))
	case NormalizeByWeightSum:
		denom = floats.Sum(weights)
		if denom == 0 {
			return nil, apperrors.NewValidationError("weighted average", ErrZeroWeightSum)
		}
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("normalization %q", norm), ErrInvalidNormalization)
	}

	result := make([]float64, n)
	for i, p := range preds {
		floats.AddScaled(result, weights[i]/denom, p)
	}
	return result, nil
}
