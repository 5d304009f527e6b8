package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "salescli/internal/errors"
)

// FeatureSetPattern matches the feature set files of a data directory.
const FeatureSetPattern = "feature_set_*"

// FileValidator provides common file validation functions for all executables
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateDataDirectory checks that dir exists and holds at least one
// feature set.
func (v *FileValidator) ValidateDataDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		v.logger.Error("Data directory is not accessible",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("data directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Data path is not a directory", slog.String("path", dir))
		return apperrors.NewValidationError(fmt.Sprintf("%s is not a directory", dir), nil)
	}

	ids, err := v.ListFeatureSets(dir)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		v.logger.Warn("No feature sets found",
			slog.String("directory", dir),
			slog.String("pattern", FeatureSetPattern))
		return apperrors.NewNotFoundError(fmt.Sprintf("feature sets in %s", dir), nil)
	}

	v.logger.Info("Data directory validated",
		slog.String("directory", dir),
		slog.Int("feature_sets", len(ids)))
	return nil
}

// ListFeatureSets returns the sorted ids of the CSV and workbook feature
// sets in dir. An id present in both formats is listed once.
func (v *FileValidator) ListFeatureSets(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, FeatureSetPattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list feature sets: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, m := range matches {
		base := filepath.Base(m)
		ext := strings.ToLower(filepath.Ext(base))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(base, "feature_set_"), filepath.Ext(base))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ValidateOutputDirectory creates dir if needed and checks it is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable. A missing
// file keeps fs.ErrNotExist in the chain.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		v.logger.Error("File is not accessible",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file", slog.String("path", path))
		return apperrors.NewValidationError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateTableFile checks that path is a readable .csv or .xlsx file
func (v *FileValidator) ValidateTableFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".xlsx" {
		v.logger.Error("File is not a table",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewValidationError(fmt.Sprintf("file %s is not a CSV or XLSX file (extension: %s)", path, ext), nil)
	}
	return v.ValidateFile(path)
}

// ValidateCSVFiles checks every name, resolved against dir unless absolute,
// and reports the first problem.
func (v *FileValidator) ValidateCSVFiles(dir string, names []string) error {
	for _, name := range names {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, name)
		}
		if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
			return apperrors.NewValidationError(fmt.Sprintf("file %s is not a CSV file (extension: %s)", path, ext), nil)
		}
		if err := v.ValidateFile(path); err != nil {
			return err
		}
	}
	return nil
}
