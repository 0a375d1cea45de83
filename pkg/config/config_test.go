package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coralstor/console/pkg/models"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "console.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"core_url": "https://cluster.example.com:8443",
		"api_key": "secret",
		"poll_interval": "10s"
	}`)

	cfg, err := Load(context.Background(), path, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://cluster.example.com:8443", cfg.CoreURL)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 10*time.Second, time.Duration(cfg.PollInterval))
	assert.NotNil(t, cfg.Logging)
}

func TestLoadDefaultsPollInterval(t *testing.T) {
	path := writeConfigFile(t, `{"core_url": "http://127.0.0.1:8080"}`)

	cfg, err := Load(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.PollInterval))
}

func TestLoadRequiresCoreURL(t *testing.T) {
	path := writeConfigFile(t, `{}`)

	_, err := Load(context.Background(), path, nil)
	require.ErrorIs(t, err, errCoreURLRequired)
}

func TestLoadRejectsBadURL(t *testing.T) {
	path := writeConfigFile(t, `{"core_url": "not a url"}`)

	_, err := Load(context.Background(), path, nil)
	require.ErrorIs(t, err, errCoreURLInvalid)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfigFile(t, `{"core_url": "http://from-file:8080"}`)

	t.Setenv("CORALSTOR_CORE_URL", "http://from-env:9090")
	t.Setenv("CORALSTOR_POLL_INTERVAL", "2s")

	cfg, err := Load(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:9090", cfg.CoreURL)
	assert.Equal(t, models.Duration(2*time.Second), cfg.PollInterval)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/console.json", nil)
	require.Error(t, err)
}
