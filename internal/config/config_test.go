package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("development defaults without backing stores", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("REDIS_URL", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "TipJar", cfg.AppName)
		assert.Equal(t, ":8080", cfg.Address())
		assert.Equal(t, "#1e3a8a", cfg.DefaultBannerColor)
		assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
		assert.True(t, cfg.IsDev())
	})

	t.Run("production requires database and redis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("REDIS_URL", "redis://localhost:6379")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("duration overrides", func(t *testing.T) {
		t.Setenv("APP_ENV", "local")
		t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
		t.Setenv("IDEMPOTENCY_TTL", "90m")
		t.Setenv("WRITE_RATE_LIMIT_PER_MINUTE", "7")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 3*time.Second, cfg.ShutdownPeriod)
		assert.Equal(t, 90*time.Minute, cfg.IdempotencyTTL)
		assert.Equal(t, 7, cfg.WriteRateLimit)
	})

	t.Run("invalid rate limit", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		t.Setenv("WRITE_RATE_LIMIT_PER_MINUTE", "lots")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestLoadClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("TIPPER_API_URL", "")
		t.Setenv("TIPPER_USER", "Amiy")

		cfg, err := LoadClient()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", cfg.APIURL)
		assert.Equal(t, "base-sepolia", cfg.Network)
		assert.Equal(t, "amiy", cfg.User)
		assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		t.Setenv("TIPPER_API_URL", "https://tips.example.com/")

		cfg, err := LoadClient()
		require.NoError(t, err)
		assert.Equal(t, "https://tips.example.com", cfg.APIURL)
	})

	t.Run("rejects non-http api url", func(t *testing.T) {
		t.Setenv("TIPPER_API_URL", "ftp://example.com")

		_, err := LoadClient()
		require.Error(t, err)
	})
}
