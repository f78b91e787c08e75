package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Contains(t, cfg.AllowedOrigins, "http://localhost:5173")

	key, fallback := cfg.JWTSecret()
	assert.True(t, fallback)
	assert.Equal(t, []byte(defaultJWTSecret), key)
}

func TestLoadFromEnvFileAndEnvironment(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MODEL_BATCH_SIZE=50\nGEMINI_MODEL=gemini-pro\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("MODEL_BATCH_SIZE")
		os.Unsetenv("GEMINI_MODEL")
	})

	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("JWT_SECRET_KEY", "s3cret")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 50, cfg.ModelBatchSize)
	assert.Equal(t, "gemini-pro", cfg.GeminiModel)

	key, fallback := cfg.JWTSecret()
	assert.False(t, fallback)
	assert.Equal(t, []byte("s3cret"), key)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mysql")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, ErrMissingJWTSecret)

	t.Setenv("JWT_SECRET_KEY", "s3cret")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.True(t, cfg.Production())
}
