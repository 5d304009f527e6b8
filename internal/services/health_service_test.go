package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"salescli/internal/shared/testutil"
)

func TestHealthService_HealthCheck(t *testing.T) {
	t.Run("healthy with feature sets", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFeatureSet(t, dir, "v1", testutil.FeatureRow{DateBlock: 1})
		logger, _ := testutil.NewTestLogger(t)
		hs := NewHealthService("1.2.3", dir, filepath.Join(dir, "output"), logger)

		status := hs.HealthCheck(context.Background())

		assert.Equal(t, StatusHealthy, status.Status)
		assert.Equal(t, "1.2.3", status.Version)
		assert.Equal(t, StatusReady, status.Checks["data"].Status)
		assert.Equal(t, "1 feature set(s) available", status.Checks["data"].Message)
		assert.Equal(t, StatusReady, status.Checks["output"].Status)
		assert.NotEmpty(t, status.Runtime["go_version"])
	})

	t.Run("degraded without data", func(t *testing.T) {
		dir := t.TempDir()
		hs := NewHealthService("dev", filepath.Join(dir, "missing"), dir, nil)

		status := hs.HealthCheck(context.Background())

		assert.Equal(t, StatusDegraded, status.Status)
		assert.Equal(t, StatusNotReady, status.Checks["data"].Status)
		assert.NotEmpty(t, status.Checks["data"].Message)
	})
}
