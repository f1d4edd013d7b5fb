package configs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoamc/sitem-backend/internal/configs"
)

// setRequiredEnv fills in everything LoadConfig refuses to default.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("S3_BUCKET_NAME", "sitem-avatars")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_ACCESS_KEY_ID", "minio")
	t.Setenv("S3_SECRET_ACCESS_KEY", "minio123")
}

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := configs.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadConfigInvalidPort(t *testing.T) {
	setRequiredEnv(t)

	for _, port := range []string{"not-a-number", "80", "70000"} {
		t.Setenv("PORT", port)

		_, err := configs.LoadConfig()
		assert.Error(t, err, "port %q should be rejected", port)
	}
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "")

	_, err := configs.LoadConfig()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("DATABASE_URL", "")

	_, err = configs.LoadConfig()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://sitem:secret@db:5432/sitem")

	cfg, err := configs.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoadConfigParsesOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com ,")

	cfg, err := configs.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigRequiresStorageSettings(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("S3_BUCKET_NAME", "")

	_, err := configs.LoadConfig()
	assert.Error(t, err)
}
