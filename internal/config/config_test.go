package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{
		"DATABASE_URL", "STORE_DRIVER", "DISPLAY_TIMEZONE", "AVATAR_STORE", "S3_BUCKET",
		"SESSION_TTL", "AVATAR_MAX_BYTES", "REDIS_URL", "SERVER_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Contains(t, cfg.DatabaseURL, "postgres://")
	assert.Equal(t, "0.0.0.0:9000", cfg.ServerAddr)
	assert.Equal(t, 744*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(16<<20), cfg.Avatar.MaxBytes)
	assert.Equal(t, AvatarLocal, cfg.Avatar.Store)
	assert.Equal(t, "Asia/Shanghai", cfg.DisplayLocation.String())
	assert.Equal(t, 24*time.Hour, cfg.DefaultActivity.Duration)
	assert.Equal(t, "lantern:riddle-solved", cfg.RedisChannel)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_Overrides(t *testing.T) {
	isolate(t)
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("AVATAR_MAX_BYTES", "1024")
	t.Setenv("DISPLAY_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(1024), cfg.Avatar.MaxBytes)
	assert.Equal(t, time.UTC, cfg.DisplayLocation)
}

func TestLoad_EnvFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LANTERN_TEST_ADDR_FROM_FILE=1\nSERVER_ADDR=127.0.0.1:7000\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Cleanup(func() { os.Unsetenv("LANTERN_TEST_ADDR_FROM_FILE") })
	// SERVER_ADDR was set to "" by isolate; godotenv only fills unset keys.
	os.Unsetenv("SERVER_ADDR")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.ServerAddr)
	assert.Equal(t, "1", os.Getenv("LANTERN_TEST_ADDR_FROM_FILE"))
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("store driver", func(t *testing.T) {
		isolate(t)
		t.Setenv("STORE_DRIVER", "mysql")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("timezone", func(t *testing.T) {
		isolate(t)
		t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("s3 without bucket", func(t *testing.T) {
		isolate(t)
		t.Setenv("AVATAR_STORE", "s3")
		_, err := Load()
		assert.Error(t, err)
	})
}
