package services

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/dataset"
	apperrors "salescli/internal/errors"
	"salescli/internal/infrastructure"
	"salescli/internal/shared/testutil"
)

func newDatasetService(t *testing.T, dir string) (*DatasetService, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	metrics, err := infrastructure.NewMetrics(nil)
	require.NoError(t, err)
	svc := NewDatasetService(
		dataset.NewLoader(logger, dir),
		dataset.NewPartitioner(logger, dataset.DefaultConfig()),
		metrics,
		logger,
	)
	return svc, handler
}

func writeFixture(t *testing.T, dir string) {
	t.Helper()
	testutil.WriteFeatureSet(t, dir, "v1",
		testutil.FeatureRow{DateBlock: 20, ShopID: 1, ItemID: 1, Target: 4, Lag1: 0.5},
		testutil.FeatureRow{DateBlock: 21, ShopID: 1, ItemID: 1, Target: 30, Lag1: 1.5},
		testutil.FeatureRow{DateBlock: 23, ShopID: 1, ItemID: 1, Target: 2, Lag1: 2.5},
		testutil.FeatureRow{DateBlock: 33, ShopID: 1, ItemID: 1, Target: 6, Lag1: 3.5},
		testutil.FeatureRow{DateBlock: 35, ShopID: 2, ItemID: 7, Target: 0, Lag1: 4.5},
		testutil.FeatureRow{DateBlock: 35, ShopID: 1, ItemID: 1, Target: 0, Lag1: 5.5},
	)
	testutil.WriteSpec(t, dir,
		testutil.SpecRow{ID: 0, ShopID: 1, ItemID: 1},
		testutil.SpecRow{ID: 1, ShopID: 2, ItemID: 7},
	)
}

func TestDatasetService_Summarize(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	svc, handler := newDatasetService(t, dir)

	summary, err := svc.Summarize(context.Background(), "v1", "all")
	require.NoError(t, err)

	assert.Equal(t, "v1", summary.ID)
	assert.Equal(t, dataset.ModeAll, summary.Mode)
	assert.Equal(t, 6, summary.Rows)
	assert.True(t, summary.HasPermutation)
	assert.Equal(t, 23, summary.ValidationBlock)
	assert.Equal(t, 35, summary.TestBlock)
	assert.Contains(t, summary.Features, dataset.ColTimeOfYear)
	assert.NotContains(t, summary.Features, dataset.ColTarget)

	require.Len(t, summary.Slices, 4)
	assert.Equal(t, 2, summary.Slices["train"].Rows)
	assert.Equal(t, 20, summary.Slices["train"].MinBlock)
	assert.Equal(t, 21, summary.Slices["train"].MaxBlock)
	assert.InDelta(t, 12.0, summary.Slices["train"].TargetMean, 1e-9, "target is clipped to 20")
	assert.Equal(t, 1, summary.Slices["val"].Rows)
	assert.Equal(t, 4, summary.Slices["trainval"].Rows)
	assert.Equal(t, 2, summary.Slices["test"].Rows)

	testutil.AssertNoErrors(t, handler)
}

func TestDatasetService_SummarizeWithoutIndex(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFeatureSet(t, dir, "v2",
		testutil.FeatureRow{DateBlock: 10, Target: 1},
		testutil.FeatureRow{DateBlock: 23, Target: 2},
	)
	svc, _ := newDatasetService(t, dir)

	// No test.csv exists; train_and_val must not need it.
	summary, err := svc.Summarize(context.Background(), "v2", "train_and_val")
	require.NoError(t, err)

	assert.False(t, summary.HasPermutation)
	assert.Len(t, summary.Slices, 2)
}

func TestDatasetService_InvalidModeFailsBeforeLoading(t *testing.T) {
	svc, _ := newDatasetService(t, t.TempDir())

	_, err := svc.Summarize(context.Background(), "missing", "everything")

	assert.ErrorIs(t, err, dataset.ErrInvalidMode)
	assert.False(t, errors.Is(err, fs.ErrNotExist))
}

func TestDatasetService_MissingFeatureSet(t *testing.T) {
	svc, _ := newDatasetService(t, t.TempDir())

	_, err := svc.Summarize(context.Background(), "nope", "trainval")

	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDatasetService_MissingKey(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	testutil.WriteSpec(t, dir, testutil.SpecRow{ID: 0, ShopID: 1, ItemID: 1})
	svc, _ := newDatasetService(t, dir)

	_, err := svc.Summarize(context.Background(), "v1", "test")

	assert.ErrorIs(t, err, dataset.ErrKeyNotFound)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeLookup))
}

func TestDatasetService_Export(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	out := filepath.Join(t.TempDir(), "partitions", "v1")
	svc, handler := newDatasetService(t, dir)

	res, err := svc.Export(context.Background(), "v1", "all", out, true)
	require.NoError(t, err)

	assert.Equal(t, out, res.Dir)
	assert.Equal(t, []string{
		filepath.Join(out, TrainFile),
		filepath.Join(out, ValFile),
		filepath.Join(out, TrainValFile),
		filepath.Join(out, TestFile),
		filepath.Join(out, PermutationFile),
	}, res.Files)
	for _, f := range res.Files {
		assert.FileExists(t, f)
	}

	perm, err := dataset.ReadTable(filepath.Join(out, PermutationFile))
	require.NoError(t, err)
	ids, err := perm.Col(dataset.ColSubmissionID).Int()
	require.NoError(t, err)
	rows, err := perm.Col(dataset.ColTestIndex).Int()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, ids)
	assert.Equal(t, []int{1, 0}, rows)

	train, err := dataset.ReadTable(filepath.Join(out, TrainFile))
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 20}, train.Col(dataset.ColTarget).Float())

	assert.True(t, handler.ContainsMessage("partitions exported"))
}

func TestDatasetService_ExportTrainValOnly(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	out := t.TempDir()
	svc, _ := newDatasetService(t, dir)

	res, err := svc.Export(context.Background(), "v1", "trainval", out, false)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(out, TrainValFile)}, res.Files)
	_, err = os.Stat(filepath.Join(out, PermutationFile))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDatasetService_ExportIntoDataFolderKeepsSpec(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	svc, _ := newDatasetService(t, dir)

	_, err := svc.Export(context.Background(), "v1", "test", dir, false)
	require.NoError(t, err)

	spec, err := dataset.ReadTable(filepath.Join(dir, dataset.DefaultSpecFile))
	require.NoError(t, err)
	assert.Equal(t, []string{dataset.ColSubmissionID, dataset.ColShopID, dataset.ColItemID}, spec.Names())

	// The spec still drives a second run.
	_, err = svc.Summarize(context.Background(), "v1", "test")
	assert.NoError(t, err)
}
