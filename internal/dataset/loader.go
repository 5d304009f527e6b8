package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	apperrors "salescli/internal/errors"
)

// DefaultSpecFile is the submission specification shipped with the competition data.
const DefaultSpecFile = "test.csv"

// FeatureSetFile returns the base name of the CSV feature set with the given id.
func FeatureSetFile(id string) string {
	return fmt.Sprintf("feature_set_%s.csv", id)
}

// Loader reads feature sets and the submission specification from a data folder.
type Loader struct {
	dataFolder string
	specFile   string
	logger     *slog.Logger
}

// NewLoader creates a loader rooted at dataFolder.
func NewLoader(logger *slog.Logger, dataFolder string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if dataFolder == "" {
		dataFolder = "."
	}
	return &Loader{
		dataFolder: dataFolder,
		specFile:   DefaultSpecFile,
		logger:     logger.With(slog.String("component", "dataset_loader")),
	}
}

// WithSpecFile overrides the submission specification file name.
func (l *Loader) WithSpecFile(name string) *Loader {
	if name != "" {
		l.specFile = name
	}
	return l
}

// DataFolder returns the folder all paths are resolved against.
func (l *Loader) DataFolder() string {
	return l.dataFolder
}

// FeatureSetPath resolves the file backing feature set id. The CSV file is
// preferred; a workbook with the same base name is used when only it exists.
func (l *Loader) FeatureSetPath(id string) string {
	csvPath := filepath.Join(l.dataFolder, FeatureSetFile(id))
	if _, err := os.Stat(csvPath); errors.Is(err, fs.ErrNotExist) {
		xlsxPath := strings.TrimSuffix(csvPath, ".csv") + ".xlsx"
		if _, err := os.Stat(xlsxPath); err == nil {
			return xlsxPath
		}
	}
	return csvPath
}

// FeatureSet reads feature set id into memory.
func (l *Loader) FeatureSet(ctx context.Context, id string) (dataframe.DataFrame, error) {
	path := l.FeatureSetPath(id)
	l.logger.InfoContext(ctx, "reading feature set",
		slog.String("id", id),
		slog.String("path", path))

	df, err := ReadTable(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	l.logger.InfoContext(ctx, "feature set loaded",
		slog.String("id", id),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))
	return df, nil
}

// SubmissionIndex reads the submission specification and builds its index.
func (l *Loader) SubmissionIndex(ctx context.Context) (SubmissionIndex, error) {
	path := filepath.Join(l.dataFolder, l.specFile)
	l.logger.InfoContext(ctx, "reading submission specification", slog.String("path", path))

	spec, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	index, err := NewSubmissionIndex(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.logger.DebugContext(ctx, "submission index built", slog.Int("keys", len(index)))
	return index, nil
}

// ReadTable reads a CSV file, or the first sheet of an .xlsx workbook, into a
// dataframe with detected column types.
func ReadTable(path string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readWorkbook(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(bufio.NewReader(f))
	if df.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", path), df.Err)
	}
	return df, nil
}

func readWorkbook(path string) (dataframe.DataFrame, error) {
	if _, err := os.Stat(path); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataframe.DataFrame{}, apperrors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", path), nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %s", sheets[0]), err)
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, apperrors.NewParsingError(fmt.Sprintf("sheet %s is empty", sheets[0]), nil)
	}

	// GetRows drops trailing empty cells, pad every row to the header width.
	width := len(rows[0])
	for i, row := range rows {
		if len(row) < width {
			rows[i] = append(row, make([]string, width-len(row))...)
		}
	}

	df := dataframe.LoadRecords(rows)
	if df.Err != nil {
		return dataframe.DataFrame{}, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", path), df.Err)
	}
	return df, nil
}
