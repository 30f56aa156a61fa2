package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngenohkevin/aura-explorer/internal/usage"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg := LoadWithDefaults()

	assert.NotNil(t, cfg)
	assert.Equal(t, 8092, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "test-api-key", cfg.APIKey)
	assert.Equal(t, "pt", cfg.DefaultLanguage)
	assert.Equal(t, usage.DefaultCapacity, cfg.TotalCapacityBytes)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithEnvVars(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), ".env"))
	t.Setenv("API_KEY", "my-test-key")
	t.Setenv("PORT", "9000")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ALLOWED_PATHS", "/srv/media, /home/user ,")
	t.Setenv("IMPORT_MAX_DEPTH", "0")
	t.Setenv("TOTAL_CAPACITY_BYTES", "2048")
	t.Setenv("CAPACITY_FROM_DISK", "true")
	t.Setenv("ASSISTANT_TIMEOUT_SECONDS", "5")
	t.Setenv("S3_BUCKET", "media")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "my-test-key", cfg.APIKey)
	assert.Equal(t, "my-test-key", cfg.JWTSecret)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"/srv/media", "/home/user"}, cfg.AllowedPaths)
	assert.Equal(t, 0, cfg.ImportMaxDepth)
	assert.Equal(t, int64(2048), cfg.TotalCapacityBytes)
	assert.True(t, cfg.CapacityFromDisk)
	assert.Equal(t, 5*time.Second, cfg.AssistantTimeout)
	assert.True(t, cfg.S3Enabled())
	assert.False(t, cfg.AssistantEnabled())
	assert.False(t, cfg.GeneratedAPIKey)
}

func TestLoadGeneratesMissingAPIKey(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=8100\n"), 0600))
	t.Setenv("ENV_FILE", envFile)
	t.Setenv("API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	defer os.Unsetenv("PORT")

	assert.True(t, cfg.GeneratedAPIKey)
	assert.Len(t, cfg.APIKey, 64)
	assert.Equal(t, 8100, cfg.Port)

	data, err := os.ReadFile(envFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "API_KEY="+cfg.APIKey)
	assert.Contains(t, string(data), "PORT=8100")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), ".env"))
	t.Setenv("API_KEY", "key")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	assert.ErrorContains(t, err, "LOG_FORMAT")
}

func TestValidate(t *testing.T) {
	cfg := LoadWithDefaults()
	cfg.ImportMaxDepth = -1
	assert.Error(t, cfg.Validate())

	cfg = LoadWithDefaults()
	cfg.TotalCapacityBytes = 0
	assert.Error(t, cfg.Validate())

	cfg = LoadWithDefaults()
	cfg.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestUpdateEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("API_KEY=old\nLOG_LEVEL=info\n\n"), 0600))

	require.NoError(t, UpdateEnvFile(envFile, map[string]string{
		"API_KEY":   "new",
		"S3_BUCKET": "media",
	}))

	data, err := os.ReadFile(envFile)
	require.NoError(t, err)
	assert.Equal(t, "S3_BUCKET=media\nAPI_KEY=new\nLOG_LEVEL=info\n", string(data))
}

func TestGenerateAPIKey(t *testing.T) {
	a, err := GenerateAPIKey()
	require.NoError(t, err)
	b, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestConfigAddr(t *testing.T) {
	cfg := LoadWithDefaults()
	assert.Equal(t, "0.0.0.0:8092", cfg.Addr())
}
