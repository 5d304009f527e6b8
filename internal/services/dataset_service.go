package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/stat"

	"salescli/internal/dataset"
	"salescli/internal/infrastructure"
)

// File names of an exported partition directory.
const (
	TrainFile       = "train.csv"
	ValFile         = "val.csv"
	TrainValFile    = "trainval.csv"
	TestFile        = "test_features.csv"
	PermutationFile = "submission_to_test.csv"
)

// DatasetService loads feature sets and partitions them.
type DatasetService struct {
	loader      *dataset.Loader
	partitioner *dataset.Partitioner
	metrics     *infrastructure.Metrics
	logger      *slog.Logger
}

// SliceSummary describes one partition.
type SliceSummary struct {
	Rows       int     `json:"rows"`
	MinBlock   int     `json:"min_block"`
	MaxBlock   int     `json:"max_block"`
	TargetMean float64 `json:"target_mean"`
}

// PartitionSummary reports the partitions built for one feature set.
type PartitionSummary struct {
	ID              string                   `json:"id"`
	Mode            dataset.Mode             `json:"mode"`
	Rows            int                      `json:"rows"`
	Features        []string                 `json:"features"`
	ValidationBlock int                      `json:"validation_block"`
	TestBlock       int                      `json:"test_block"`
	Slices          map[string]*SliceSummary `json:"slices"`
	HasPermutation  bool                     `json:"has_permutation"`
}

// ExportResult lists the files written by Export.
type ExportResult struct {
	Summary *PartitionSummary `json:"summary"`
	Dir     string            `json:"dir"`
	Files   []string          `json:"files"`
}

// NewDatasetService creates a dataset service. metrics may be nil.
func NewDatasetService(loader *dataset.Loader, partitioner *dataset.Partitioner, metrics *infrastructure.Metrics, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		loader:      loader,
		partitioner: partitioner,
		metrics:     metrics,
		logger:      logger.With(slog.String("service", "dataset")),
	}
}

// Summarize partitions feature set id in mode and reports per-slice counts.
func (s *DatasetService) Summarize(ctx context.Context, id, mode string) (*PartitionSummary, error) {
	var summary *PartitionSummary
	err := traced(ctx, s.metrics, "dataset.summarize", func(ctx context.Context) error {
		res, rows, features, err := s.partition(ctx, id, mode)
		if err != nil {
			return err
		}
		summary = s.summarize(id, res, rows, features)
		return nil
	}, attribute.String("dataset.id", id), attribute.String("dataset.mode", mode))
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Export partitions feature set id in mode and writes every slice, plus the
// submission permutation when the test slice was built, to outDir. With
// downcast set the feature columns are narrowed before writing.
func (s *DatasetService) Export(ctx context.Context, id, mode, outDir string, downcast bool) (*ExportResult, error) {
	var result *ExportResult
	err := traced(ctx, s.metrics, "dataset.export", func(ctx context.Context) error {
		res, rows, features, err := s.partition(ctx, id, mode)
		if err != nil {
			return err
		}

		result = &ExportResult{Summary: s.summarize(id, res, rows, features), Dir: outDir}
		slices := []struct {
			file string
			part *dataset.Partition
		}{
			{TrainFile, res.Train},
			{ValFile, res.Val},
			{TrainValFile, res.TrainVal},
			{TestFile, res.Test},
		}
		for _, sl := range slices {
			if sl.part == nil {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			part := sl.part
			if downcast {
				part = &dataset.Partition{X: dataset.Downcast(part.X), Y: part.Y}
			}
			path := filepath.Join(outDir, sl.file)
			if err := dataset.WritePartition(path, part); err != nil {
				return err
			}
			result.Files = append(result.Files, path)
		}

		if res.Permutation != nil {
			path := filepath.Join(outDir, PermutationFile)
			if err := dataset.WritePermutation(path, res.Permutation); err != nil {
				return err
			}
			result.Files = append(result.Files, path)
		}

		s.logger.InfoContext(ctx, "partitions exported",
			slog.String("id", id),
			slog.String("mode", mode),
			slog.String("dir", outDir),
			slog.Int("files", len(result.Files)),
			slog.Bool("downcast", downcast))
		return nil
	}, attribute.String("dataset.id", id), attribute.String("dataset.mode", mode))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// partition validates mode first, then loads the feature set and, when the
// mode needs it, the submission index.
func (s *DatasetService) partition(ctx context.Context, id, mode string) (*dataset.Result, int, []string, error) {
	m, err := dataset.ParseMode(mode)
	if err != nil {
		return nil, 0, nil, err
	}

	features, err := s.loader.FeatureSet(ctx, id)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("load feature set %s: %w", id, err)
	}
	if s.metrics != nil {
		s.metrics.AddRows(ctx, s.metrics.RowsLoaded, features.Nrow(), attribute.String("dataset.id", id))
	}

	var index dataset.SubmissionIndex
	if m.NeedsIndex() {
		if index, err = s.loader.SubmissionIndex(ctx); err != nil {
			return nil, 0, nil, fmt.Errorf("load submission index: %w", err)
		}
	}

	res, err := s.partitioner.Partition(ctx, features, index, m)
	if err != nil {
		return nil, 0, nil, err
	}

	if s.metrics != nil {
		for name, p := range namedSlices(res) {
			s.metrics.AddRows(ctx, s.metrics.PartitionRows, p.Len(),
				attribute.String("dataset.id", id),
				attribute.String("slice", name))
		}
	}

	var cols []string
	for _, p := range namedSlices(res) {
		cols = p.X.Names()
		break
	}
	return res, features.Nrow(), cols, nil
}

func (s *DatasetService) summarize(id string, res *dataset.Result, rows int, features []string) *PartitionSummary {
	cfg := s.partitioner.Config()
	summary := &PartitionSummary{
		ID:              id,
		Mode:            res.Mode,
		Rows:            rows,
		Features:        features,
		ValidationBlock: cfg.ValidationBlock,
		TestBlock:       cfg.TestBlock,
		Slices:          make(map[string]*SliceSummary),
		HasPermutation:  res.Permutation != nil,
	}
	for name, p := range namedSlices(res) {
		summary.Slices[name] = describe(p)
	}
	return summary
}

// namedSlices returns the non-nil partitions of res keyed by slice name.
func namedSlices(res *dataset.Result) map[string]*dataset.Partition {
	out := make(map[string]*dataset.Partition, 4)
	for name, p := range map[string]*dataset.Partition{
		"train":    res.Train,
		"val":      res.Val,
		"trainval": res.TrainVal,
		"test":     res.Test,
	} {
		if p != nil {
			out[name] = p
		}
	}
	return out
}

func describe(p *dataset.Partition) *SliceSummary {
	ss := &SliceSummary{Rows: p.Len()}
	if p.Len() == 0 {
		return ss
	}
	if blocks, err := p.X.Col(dataset.ColDateBlock).Int(); err == nil && len(blocks) > 0 {
		ss.MinBlock, ss.MaxBlock = blocks[0], blocks[0]
		for _, b := range blocks[1:] {
			ss.MinBlock = min(ss.MinBlock, b)
			ss.MaxBlock = max(ss.MaxBlock, b)
		}
	}
	ss.TargetMean = stat.Mean(p.Y, nil)
	return ss
}
