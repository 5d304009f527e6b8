package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/config"
)

func TestNewCLI(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("dataset:\n  output_dir: out\n"), 0o644))
	t.Setenv(config.ConfigFileEnv, cfgFile)

	cli, err := NewCLI("test", dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cli.Paths.DataDir)
	assert.Equal(t, filepath.Join(dir, "out"), cli.Paths.OutputDir)
	assert.DirExists(t, cli.Paths.PartitionsDir)
	assert.NotNil(t, cli.Services.Dataset)
	assert.NotNil(t, cli.Services.Submission)
	assert.NotNil(t, cli.Files)
}

func TestNewCLI_MissingDataDir(t *testing.T) {
	// An unreadable configuration falls back to the defaults.
	t.Setenv(config.ConfigFileEnv, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := NewCLI("test", filepath.Join(t.TempDir(), "missing"))

	assert.ErrorContains(t, err, "failed to create required directories")
}
