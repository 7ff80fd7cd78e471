package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pgclient.yaml")
	content := `
baseURL: https://project.example.com
anonKey: anon-123
serviceKey: service-456
timeout: 30s
maxRetries: 2
metrics:
  enabled: true
  addr: ":9200"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "https://project.example.com", cfg.BaseURL)
	assert.Equal(t, "anon-123", cfg.AnonKey)
	assert.Equal(t, "service-456", cfg.ServiceKey)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9200", cfg.Metrics.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pgclient.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("baseURL: http://localhost:3000\nanonKey: k\n"), 0o600))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Zero(t, cfg.MaxRetries)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PGCLIENT_BASEURL", "http://env.example.com")
	t.Setenv("PGCLIENT_ANONKEY", "env-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://env.example.com", cfg.BaseURL)
	assert.Equal(t, "env-key", cfg.AnonKey)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())

	cfg.BaseURL = "http://localhost:3000"
	assert.Error(t, cfg.Validate())

	cfg.AnonKey = "k"
	assert.NoError(t, cfg.Validate())
}
