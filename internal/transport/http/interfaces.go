package http

import (
	"context"

	"salescli/internal/services"
)

// HealthChecker reports service health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) services.HealthStatus
}

// DatasetSummarizer partitions feature sets on request.
type DatasetSummarizer interface {
	Summarize(ctx context.Context, id, mode string) (*services.PartitionSummary, error)
}

// SubmissionCombiner builds ensembles and scores predictions.
type SubmissionCombiner interface {
	Average(ctx context.Context, files []string, id string) (*services.SubmissionResult, error)
	Weighted(ctx context.Context, files []string, weights []float64, id string) (*services.SubmissionResult, error)
	Score(ctx context.Context, truthFile, predFile string) (*services.ScoreResult, error)
	ScoreValues(ctx context.Context, gt, pred []float64) (*services.ScoreResult, error)
}
