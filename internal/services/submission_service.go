package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	apperrors "salescli/internal/errors"
	"salescli/internal/infrastructure"
	"salescli/internal/scoring"
	"salescli/internal/submission"
)

// SubmissionService combines and scores submission files.
type SubmissionService struct {
	averager *submission.Averager
	writer   *submission.Writer
	clipMin  float64
	clipMax  float64
	metrics  *infrastructure.Metrics
	logger   *slog.Logger
}

// SubmissionResult reports a written ensemble.
type SubmissionResult struct {
	ID     string `json:"id"`
	Path   string `json:"path"`
	Inputs int    `json:"inputs"`
}

// ScoreResult holds the metrics of one prediction set.
type ScoreResult struct {
	Rows            int     `json:"rows"`
	RMSE            float64 `json:"rmse"`
	ElementwiseRMSE float64 `json:"elementwise_rmse"`
}

// NewSubmissionService creates a submission service. The clipping range of
// the metric is the one w writes with. metrics may be nil.
func NewSubmissionService(averager *submission.Averager, w *submission.Writer, clipMin, clipMax float64, metrics *infrastructure.Metrics, logger *slog.Logger) *SubmissionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionService{
		averager: averager,
		writer:   w,
		clipMin:  clipMin,
		clipMax:  clipMax,
		metrics:  metrics,
		logger:   logger.With(slog.String("service", "submission")),
	}
}

// Average writes the unweighted mean of files under ensemble id.
func (s *SubmissionService) Average(ctx context.Context, files []string, id string) (*SubmissionResult, error) {
	var result *SubmissionResult
	err := traced(ctx, s.metrics, "submission.average", func(ctx context.Context) error {
		path, err := s.averager.Average(ctx, files, id)
		if err != nil {
			return err
		}
		result = &SubmissionResult{ID: id, Path: path, Inputs: len(files)}
		s.written(ctx, "average")
		return nil
	}, attribute.String("submission.id", id), attribute.Int("submission.inputs", len(files)))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Weighted writes the weighted combination of files under ensemble id.
func (s *SubmissionService) Weighted(ctx context.Context, files []string, weights []float64, id string) (*SubmissionResult, error) {
	var result *SubmissionResult
	err := traced(ctx, s.metrics, "submission.weighted", func(ctx context.Context) error {
		path, err := s.averager.Weighted(ctx, files, weights, id)
		if err != nil {
			return err
		}
		result = &SubmissionResult{ID: id, Path: path, Inputs: len(files)}
		s.written(ctx, "weighted")
		return nil
	}, attribute.String("submission.id", id), attribute.Int("submission.inputs", len(files)))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Score reads a ground truth and a prediction submission file, resolved
// against the data folder, and scores them.
func (s *SubmissionService) Score(ctx context.Context, truthFile, predFile string) (*ScoreResult, error) {
	var result *ScoreResult
	err := traced(ctx, s.metrics, "submission.score_files", func(ctx context.Context) error {
		var gt, pred []float64
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			gt, err = submission.ReadPredictions(gctx, s.writer.Resolve(truthFile))
			return err
		})
		g.Go(func() error {
			var err error
			pred, err = submission.ReadPredictions(gctx, s.writer.Resolve(predFile))
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		var err error
		result, err = s.score(ctx, gt, pred)
		return err
	}, attribute.String("score.truth_file", truthFile), attribute.String("score.prediction_file", predFile))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ScoreValues scores inline ground truth and predictions.
func (s *SubmissionService) ScoreValues(ctx context.Context, gt, pred []float64) (*ScoreResult, error) {
	var result *ScoreResult
	err := traced(ctx, s.metrics, "submission.score_values", func(ctx context.Context) error {
		var err error
		result, err = s.score(ctx, gt, pred)
		return err
	}, attribute.Int("score.rows", len(pred)))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SubmissionService) score(ctx context.Context, gt, pred []float64) (*ScoreResult, error) {
	if len(pred) == 0 {
		return nil, apperrors.NewValidationError("score", ErrNoPredictions)
	}
	rmse, err := scoring.ClippedRMSE(gt, pred, s.clipMin, s.clipMax)
	if err != nil {
		return nil, apperrors.NewValidationError("score", err)
	}
	elementwise, err := scoring.ElementwiseClippedRMSE(gt, pred, s.clipMin, s.clipMax)
	if err != nil {
		return nil, apperrors.NewValidationError("score", err)
	}

	if s.metrics != nil {
		s.metrics.Scores.Record(ctx, rmse, metric.WithAttributes(attribute.String("metric", "clipped_rmse")))
	}
	s.logger.InfoContext(ctx, "predictions scored",
		slog.Int("rows", len(pred)),
		slog.Float64("rmse", rmse),
		slog.Float64("elementwise_rmse", elementwise))

	return &ScoreResult{Rows: len(pred), RMSE: rmse, ElementwiseRMSE: elementwise}, nil
}

func (s *SubmissionService) written(ctx context.Context, kind string) {
	if s.metrics == nil {
		return
	}
	s.metrics.AddRows(ctx, s.metrics.SubmissionsWritten, 1, attribute.String("kind", kind))
}

