package services

import (
	"context"
	"io/fs"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	apperrors "salescli/internal/errors"
	"salescli/internal/infrastructure"
	"salescli/internal/scoring"
	"salescli/internal/shared/testutil"
	"salescli/internal/submission"
)

func newSubmissionService(t *testing.T, dir string, norm submission.Normalization) (*SubmissionService, *sdkmetric.ManualReader) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	metrics, err := infrastructure.NewMetrics(provider.Meter(infrastructure.MeterName))
	require.NoError(t, err)

	w := submission.NewWriter(logger, submission.WriterConfig{DataFolder: dir, ClipMin: 0, ClipMax: 20})
	avg := submission.NewAverager(logger, w, submission.AveragerConfig{Normalization: norm})
	return NewSubmissionService(avg, w, 0, 20, metrics, logger), reader
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestSubmissionService_Average(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSubmission(t, dir, "a.csv", 1, 2, 30)
	testutil.WriteSubmission(t, dir, "b.csv", 3, 4, 30)
	svc, reader := newSubmissionService(t, dir, submission.NormalizeByCount)

	res, err := svc.Average(context.Background(), []string{"a.csv", "b.csv"}, "run1")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "submission-average-run1.csv"), res.Path)
	assert.Equal(t, 2, res.Inputs)

	got, err := submission.ReadPredictions(context.Background(), res.Path)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 20}, got)

	assert.Equal(t, int64(1), counterTotal(t, reader, "submissions_written_total"))
	assert.Equal(t, int64(1), counterTotal(t, reader, "operations_total"))
}

func TestSubmissionService_Weighted(t *testing.T) {
	tests := []struct {
		name string
		norm submission.Normalization
		want float64
	}{
		{name: "by count", norm: submission.NormalizeByCount, want: 35},
		{name: "by weight sum", norm: submission.NormalizeByWeightSum, want: 17.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.WriteSubmission(t, dir, "a.csv", 10)
			testutil.WriteSubmission(t, dir, "b.csv", 20)
			// Raise the writer ceiling so the raw combination is observable.
			logger, _ := testutil.NewTestLogger(t)
			w := submission.NewWriter(logger, submission.WriterConfig{DataFolder: dir, ClipMin: 0, ClipMax: 100})
			avg := submission.NewAverager(logger, w, submission.AveragerConfig{Normalization: tt.norm})
			svc := NewSubmissionService(avg, w, 0, 100, nil, logger)

			res, err := svc.Weighted(context.Background(), []string{"a.csv", "b.csv"}, []float64{1, 3}, "w")
			require.NoError(t, err)

			got, err := submission.ReadPredictions(context.Background(), res.Path)
			require.NoError(t, err)
			assert.Equal(t, []float64{tt.want}, got)
		})
	}
}

func TestSubmissionService_WeightedMismatch(t *testing.T) {
	svc, reader := newSubmissionService(t, t.TempDir(), submission.NormalizeByCount)

	// The files do not exist: the mismatch must be reported before any read.
	_, err := svc.Weighted(context.Background(), []string{"a.csv", "b.csv"}, []float64{1}, "w")

	assert.ErrorIs(t, err, submission.ErrWeightMismatch)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Equal(t, int64(1), counterTotal(t, reader, "operation_errors_total"))
}

func TestSubmissionService_Score(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSubmission(t, dir, "truth.csv", 0, 25, 3)
	testutil.WriteSubmission(t, dir, "pred.csv", 1, 20, 3)
	svc, _ := newSubmissionService(t, dir, submission.NormalizeByCount)

	res, err := svc.Score(context.Background(), "truth.csv", "pred.csv")
	require.NoError(t, err)

	assert.Equal(t, 3, res.Rows)
	assert.InDelta(t, math.Sqrt(1.0/3), res.RMSE, 1e-12)
	assert.InDelta(t, 1.0/3, res.ElementwiseRMSE, 1e-12)
}

func TestSubmissionService_ScoreMissingFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSubmission(t, dir, "truth.csv", 1)
	svc, _ := newSubmissionService(t, dir, submission.NormalizeByCount)

	_, err := svc.Score(context.Background(), "truth.csv", "absent.csv")

	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSubmissionService_ScoreValues(t *testing.T) {
	svc, _ := newSubmissionService(t, t.TempDir(), submission.NormalizeByCount)

	res, err := svc.ScoreValues(context.Background(), []float64{2, 4}, []float64{2, 4})
	require.NoError(t, err)
	assert.Zero(t, res.RMSE)

	_, err = svc.ScoreValues(context.Background(), []float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, scoring.ErrLengthMismatch)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	_, err = svc.ScoreValues(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoPredictions)
}
