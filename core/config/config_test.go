package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "https://kodikapi.com/list", cfg.API.BaseURL)
	assert.Equal(t, 3, cfg.API.Retries)
	assert.Equal(t, 200, cfg.Sync.BatchSize)
	assert.Equal(t, 50, cfg.Sync.OldThreshold)
	assert.Equal(t, "last_sync.txt", cfg.Sync.StateFile)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("API_TOKEN", "secret-token")
	t.Setenv("SYNC_BATCH_SIZE", "500")
	t.Setenv("SYNC_OLD_THRESHOLD", "0")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "secret-token", cfg.API.Token)
	assert.Equal(t, 500, cfg.Sync.BatchSize)
	assert.Zero(t, cfg.Sync.OldThreshold)
}
