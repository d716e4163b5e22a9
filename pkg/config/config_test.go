package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"returnrisk/pkg/model"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Address)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(16<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, model.DefaultOptions(), cfg.Model.Options())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RETURNRISK_ADDRESS", ":8080")
	t.Setenv("RETURNRISK_MODEL_MAX_ITER", "250")
	t.Setenv("RETURNRISK_SESSION_TTL", "5m")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 250, cfg.Model.MaxIter)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "returnrisk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log-format: json\nmodel:\n  c: 0.5\n"), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 0.5, cfg.Model.C)
	assert.Equal(t, model.DefaultOptions().MaxIter, cfg.Model.MaxIter)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.LogFormat = "xml"
	cfg.Model.MaxIter = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log-format")
	assert.Contains(t, err.Error(), "max-iter")
}

func TestSetupLogging(t *testing.T) {
	defer func(l zerolog.Logger, lvl zerolog.Level) {
		log.Logger = l
		zerolog.SetGlobalLevel(lvl)
	}(log.Logger, zerolog.GlobalLevel())

	var buf bytes.Buffer
	require.NoError(t, setupLogging(&buf, "warn", "json"))
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	assert.Error(t, setupLogging(&buf, "loud", "json"))
}
