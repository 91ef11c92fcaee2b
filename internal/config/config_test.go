package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL:          "postgres://localhost:5432/app",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Demo: DemoConfig{
			TokenTTL: 7 * 24 * time.Hour,
		},
		App: AppConfig{
			Environment: "development",
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid development config passes", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing database URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.URL = ""

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL is required")
	})

	t.Run("missing JWT secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.Secret = ""

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET is required")
	})

	t.Run("production requires long secret and websocket origins", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = "production"

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET must be at least 32 characters in production")
		assert.Contains(t, err.Error(), "WS_ALLOWED_ORIGINS must be set in production")
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.MaxIdleConns = 50

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_MAX_IDLE_CONNS cannot be greater than DB_MAX_OPEN_CONNS")
	})

	t.Run("demo token TTL must be positive", func(t *testing.T) {
		cfg := validConfig()
		cfg.Demo.TokenTTL = 0

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DEMO_TOKEN_TTL must be positive")
	})

	t.Run("collects multiple errors", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.URL = ""
		cfg.JWT.Secret = ""

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL is required")
		assert.Contains(t, err.Error(), "JWT_SECRET is required")
	})
}

func TestConfig_Environment(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.App.Environment = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}
