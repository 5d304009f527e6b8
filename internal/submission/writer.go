package submission

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"salescli/internal/dataset"
	apperrors "salescli/internal/errors"
)

// Column names of a submission file.
const (
	ColID    = "ID"
	ColValue = "item_cnt_month"
)

// WriterConfig configures where submissions go and how values are clipped.
type WriterConfig struct {
	DataFolder string
	ClipMin    float64
	ClipMax    float64
}

// Writer writes submission files below a data folder.
type Writer struct {
	cfg    WriterConfig
	logger *slog.Logger
}

// NewWriter creates a submission writer.
func NewWriter(logger *slog.Logger, cfg WriterConfig) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DataFolder == "" {
		cfg.DataFolder = "."
	}
	return &Writer{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "submission_writer")),
	}
}

// DataFolder returns the folder relative paths are resolved against.
func (w *Writer) DataFolder() string {
	return w.cfg.DataFolder
}

// Resolve returns the path filename refers to.
func (w *Writer) Resolve(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(w.cfg.DataFolder, filename)
}

// Write clips values and writes them as a submission file with ID equal to
// the row position. It returns the path that was written.
func (w *Writer) Write(ctx context.Context, values []float64, filename string) (string, error) {
	path := w.Resolve(filename)
	clipped := dataset.ClipTarget(values, w.cfg.ClipMin, w.cfg.ClipMax)

	w.logger.InfoContext(ctx, "writing submission",
		slog.String("file_path", filename),
		slog.String("full_path", path),
		slog.Int("record_count", len(clipped)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{ColID, ColValue}); err != nil {
		return "", apperrors.NewStorageError("failed to write headers", err)
	}
	for i, v := range clipped {
		if err := writer.Write([]string{strconv.Itoa(i), strconv.FormatFloat(v, 'f', -1, 64)}); err != nil {
			return "", apperrors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to flush %s", path), err)
	}
	return path, file.Close()
}
