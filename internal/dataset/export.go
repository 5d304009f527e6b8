package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "salescli/internal/errors"
)

// ColTestIndex names the test row column of an exported permutation.
const ColTestIndex = "test_index"

// WritePartition writes the features of p with the labels appended as the
// target column.
func WritePartition(path string, p *Partition) error {
	if p == nil {
		return fmt.Errorf("write %s: %w", path, ErrEmptyPartition)
	}
	df := p.X.Mutate(series.New(p.Y, series.Float, ColTarget))
	if df.Err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to assemble %s", path), df.Err)
	}
	return writeFrame(path, df)
}

// WritePermutation writes one row per submission ID with the test row that
// feeds it.
func WritePermutation(path string, perm *Permutation) error {
	ids := make([]int, perm.Len())
	for i := range ids {
		ids[i] = i
	}
	df := dataframe.New(
		series.New(ids, series.Int, ColSubmissionID),
		series.New(perm.SubmissionToTest, series.Int, ColTestIndex),
	)
	if df.Err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to assemble %s", path), df.Err)
	}
	return writeFrame(path, df)
}

// writeFrame writes df as CSV. Float columns use the shortest representation
// that parses back to the same float64.
func writeFrame(path string, df dataframe.DataFrame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(frameRecords(df)); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err)
	}
	return f.Close()
}

func frameRecords(df dataframe.DataFrame) [][]string {
	names := df.Names()
	cols := make([][]string, len(names))
	for j, name := range names {
		col := df.Col(name)
		if col.Type() != series.Float {
			cols[j] = col.Records()
			continue
		}
		vals := col.Float()
		cols[j] = make([]string, len(vals))
		for i, v := range vals {
			cols[j][i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	records := make([][]string, 0, df.Nrow()+1)
	records = append(records, names)
	for i := 0; i < df.Nrow(); i++ {
		row := make([]string, len(cols))
		for j := range cols {
			row[j] = cols[j][i]
		}
		records = append(records, row)
	}
	return records
}
