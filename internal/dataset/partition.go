package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "salescli/internal/errors"
)

// Column names of the feature set and the submission specification.
const (
	ColDateBlock    = "date_block_num"
	ColTarget       = "target"
	ColShopID       = "shop_id"
	ColItemID       = "item_id"
	ColTimeOfYear   = "time_of_year"
	ColSubmissionID = "ID"
)

// Mode selects which partitions are built.
type Mode string

const (
	ModeAll         Mode = "all"
	ModeTrainAndVal Mode = "train_and_val"
	ModeTrainVal    Mode = "trainval"
	ModeTest        Mode = "test"
)

// Modes lists every valid Mode.
var Modes = []Mode{ModeAll, ModeTrainAndVal, ModeTrainVal, ModeTest}

// ParseMode converts a string to a Mode, rejecting unknown values.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", apperrors.NewValidationError(fmt.Sprintf("mode %q", s), ErrInvalidMode)
	}
	return m, nil
}

// Valid reports whether m is one of Modes.
func (m Mode) Valid() bool {
	return slices.Contains(Modes, m)
}

func (m Mode) wantsTrainAndVal() bool { return m == ModeAll || m == ModeTrainAndVal }
func (m Mode) wantsTrainVal() bool    { return m == ModeAll || m == ModeTrainVal }
func (m Mode) wantsTest() bool        { return m == ModeAll || m == ModeTest }

// NeedsIndex reports whether partitioning in mode consults the submission index.
func (m Mode) NeedsIndex() bool { return m.wantsTest() }

// Config holds the time-bucket boundaries and the target clipping range.
type Config struct {
	ValidationBlock int
	TestBlock       int
	ClipMin         float64
	ClipMax         float64
}

// DefaultConfig returns the boundaries of the reference workload:
// December 2014 for validation and December 2015 for test.
func DefaultConfig() Config {
	return Config{
		ValidationBlock: 23,
		TestBlock:       35,
		ClipMin:         0,
		ClipMax:         20,
	}
}

// Partition is one time slice of the feature set: the features without the
// target column and the clipped labels in the same row order.
type Partition struct {
	X dataframe.DataFrame
	Y []float64
}

// Len returns the number of rows in the partition.
func (p *Partition) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Y)
}

// Result holds the partitions requested by a Mode. Partitions that were not
// requested are nil.
type Result struct {
	Mode        Mode
	Train       *Partition
	Val         *Partition
	TrainVal    *Partition
	Test        *Partition
	Permutation *Permutation
}

// SubmissionToTest returns the submission ID -> test row mapping, or nil
// when the test partition was not requested.
func (r *Result) SubmissionToTest() []int {
	if r.Permutation == nil {
		return nil
	}
	return r.Permutation.SubmissionToTest
}

// Partitioner splits feature sets by date_block_num.
type Partitioner struct {
	cfg    Config
	logger *slog.Logger
}

// NewPartitioner creates a partitioner with the given boundaries.
func NewPartitioner(logger *slog.Logger, cfg Config) *Partitioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Partitioner{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "partitioner")),
	}
}

// Config returns the partitioner configuration.
func (p *Partitioner) Config() Config {
	return p.cfg
}

// Partition builds the partitions selected by mode. index is only consulted
// when the test partition is requested and may be nil otherwise. features is
// not modified.
func (p *Partitioner) Partition(ctx context.Context, features dataframe.DataFrame, index SubmissionIndex, mode Mode) (*Result, error) {
	if !mode.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("mode %q", mode), ErrInvalidMode)
	}
	if features.Err != nil {
		return nil, apperrors.NewParsingError("feature set is unusable", features.Err)
	}

	required := []string{ColDateBlock, ColTarget}
	if mode.wantsTest() {
		if index == nil {
			return nil, apperrors.NewValidationError("partition test rows", ErrNoSubmissionIndex)
		}
		required = append(required, ColShopID, ColItemID)
	}
	if err := requireColumns(features, required...); err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "partitioning feature set",
		slog.String("mode", string(mode)),
		slog.Int("rows", features.Nrow()),
		slog.Int("validation_block", p.cfg.ValidationBlock),
		slog.Int("test_block", p.cfg.TestBlock))

	all, err := p.prepare(features)
	if err != nil {
		return nil, err
	}

	res := &Result{Mode: mode}
	if mode.wantsTrainAndVal() {
		if res.Train, err = slicePartition(all, series.LessEq, p.cfg.ValidationBlock-2); err != nil {
			return nil, err
		}
		if res.Val, err = slicePartition(all, series.Eq, p.cfg.ValidationBlock); err != nil {
			return nil, err
		}
	}
	if mode.wantsTrainVal() {
		if res.TrainVal, err = slicePartition(all, series.LessEq, p.cfg.TestBlock-2); err != nil {
			return nil, err
		}
	}
	if mode.wantsTest() {
		if res.Test, err = slicePartition(all, series.Eq, p.cfg.TestBlock); err != nil {
			return nil, err
		}
		keys, err := ShopItems(res.Test.X)
		if err != nil {
			return nil, err
		}
		if res.Permutation, err = BuildPermutation(keys, index); err != nil {
			p.logger.ErrorContext(ctx, "failed to map test rows to submission ids",
				slog.String("error", err.Error()))
			return nil, err
		}
	}

	p.logger.InfoContext(ctx, "feature set partitioned",
		slog.String("mode", string(mode)),
		slog.Int("train_rows", res.Train.Len()),
		slog.Int("val_rows", res.Val.Len()),
		slog.Int("trainval_rows", res.TrainVal.Len()),
		slog.Int("test_rows", res.Test.Len()))

	return res, nil
}

// prepare clips the target and appends time_of_year on a copy of df.
func (p *Partitioner) prepare(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	blocks, err := df.Col(ColDateBlock).Int()
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("date_block_num must be integral", err)
	}
	target := ClipTarget(df.Col(ColTarget).Float(), p.cfg.ClipMin, p.cfg.ClipMax)

	out := df.
		Mutate(series.New(target, series.Float, ColTarget)).
		Mutate(series.New(TimeOfYear(blocks), series.Int, ColTimeOfYear))
	if out.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError("failed to derive partition columns", out.Err)
	}
	return out, nil
}

func slicePartition(df dataframe.DataFrame, cmp series.Comparator, block int) (*Partition, error) {
	sub := df.Filter(dataframe.F{Colname: ColDateBlock, Comparator: cmp, Comparando: block})
	if sub.Err != nil {
		return nil, fmt.Errorf("filter %s %s %d: %w", ColDateBlock, cmp, block, sub.Err)
	}
	x := sub.Drop(ColTarget)
	if x.Err != nil {
		return nil, fmt.Errorf("drop %s: %w", ColTarget, x.Err)
	}
	return &Partition{X: x, Y: sub.Col(ColTarget).Float()}, nil
}

// ClipTarget returns a copy of values limited to [lo, hi]. NaN is kept.
func ClipTarget(values []float64, lo, hi float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = Clip(v, lo, hi)
	}
	return out
}

// Clip limits v to [lo, hi]. NaN is returned unchanged.
func Clip(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Min(math.Max(v, lo), hi)
}

// TimeOfYear maps date blocks onto the 12 month cycle as (b+6) mod 12.
// The result is always in [0, 12).
func TimeOfYear(blocks []int) []int {
	out := make([]int, len(blocks))
	for i, b := range blocks {
		out[i] = ((b+6)%12 + 12) % 12
	}
	return out
}

func requireColumns(df dataframe.DataFrame, names ...string) error {
	have := df.Names()
	for _, name := range names {
		if !slices.Contains(have, name) {
			return apperrors.NewValidationError(fmt.Sprintf("column %q", name), ErrMissingColumn)
		}
	}
	return nil
}
