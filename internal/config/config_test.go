package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, []string{"PE", "NSTP", "STEM"}, cfg.Parser.ExcludedPrefixes)
	assert.Equal(t, 3.0, cfg.Parser.DefaultUnits)
	assert.Equal(t, 6.0, cfg.Parser.SpecialUnits["IT 402"])
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `server:
  port: 9000
  static_dir: ./web
session:
  ttl: 30m
parser:
  excluded_prefixes: [PE, NSTP]
  default_units: 2
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "./web", cfg.Server.StaticDir)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, []string{"PE", "NSTP"}, cfg.Parser.ExcludedPrefixes)
	assert.Equal(t, 2.0, cfg.Parser.DefaultUnits)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("PARSER_EXCLUDED_PREFIXES", "PE, NSTP ,CWTS")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
	assert.Equal(t, []string{"PE", "NSTP", "CWTS"}, cfg.Parser.ExcludedPrefixes)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_InvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "70000")
		_, err := Load("")
		assert.Error(t, err)
	})
}
