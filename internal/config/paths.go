package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved file system locations used by the tools.
type Paths struct {
	DataDir       string
	OutputDir     string
	PartitionsDir string
	LogsDir       string
	SpecFile      string
}

// Paths resolves the configured directories against the working directory.
func (c *Config) Paths() (*Paths, error) {
	dataDir, err := filepath.Abs(c.Dataset.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	outputDir := c.Dataset.OutputDir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(dataDir, outputDir)
	}
	logsDir, err := filepath.Abs(filepath.Dir(c.Logging.FilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs directory: %w", err)
	}

	return &Paths{
		DataDir:       dataDir,
		OutputDir:     outputDir,
		PartitionsDir: filepath.Join(outputDir, "partitions"),
		LogsDir:       logsDir,
		SpecFile:      filepath.Join(dataDir, c.Dataset.SpecFile),
	}, nil
}

// EnsureDirectories creates the output directories if they don't exist.
// The data directory is input only and must already exist.
func (p *Paths) EnsureDirectories() error {
	info, err := os.Stat(p.DataDir)
	if err != nil {
		return fmt.Errorf("data directory %s: %w", p.DataDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", p.DataDir)
	}

	for _, dir := range []string{p.OutputDir, p.PartitionsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// PartitionDir returns the directory the slices of feature set id are exported to.
func (p *Paths) PartitionDir(id string) string {
	return filepath.Join(p.PartitionsDir, id)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("data", p.DataDir),
			slog.String("output", p.OutputDir),
			slog.String("partitions", p.PartitionsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.String("spec_file", p.SpecFile))
}
