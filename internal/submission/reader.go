package submission

import (
	"context"
	"fmt"
	"slices"

	"salescli/internal/dataset"
)

// ReadPredictions returns the item_cnt_month column of the submission file at
// path, in row order. A missing file is reported with the os error intact.
func ReadPredictions(ctx context.Context, path string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	df, err := dataset.ReadTable(path)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(df.Names(), ColValue) {
		return nil, fmt.Errorf("%s: column %q: %w", path, ColValue, dataset.ErrMissingColumn)
	}
	return df.Col(ColValue).Float(), nil
}
