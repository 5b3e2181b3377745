package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "news-sentiment/internal/errors"
)

func TestLoad_MissingFileWritesTemplateAndUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, 5, cfg.Analysis.NTopics)
	assert.Equal(t, 5, cfg.Analysis.NWords)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Contains(t, cfg.Analysis.DomainTerms, "hold")
	assert.FileExists(t, filepath.Join(dir, "config.toml"))

	// the written template loads cleanly
	cfg, err = Load(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), cfg.File)
	assert.True(t, cfg.UI.ColorEnabled)
}

func TestLoad_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := `
[data]
ticker = "AAPL"
prices_dir = "/tmp/prices"

[analysis]
n_topics = 3
n_words = 4
workers = 1

[export]
enabled = true
sqlite_path = "/tmp/out.db"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", cfg.Data.Ticker)
	assert.Equal(t, "/tmp/prices", cfg.Data.PricesDir)
	assert.Equal(t, 3, cfg.Analysis.NTopics)
	assert.Equal(t, 4, cfg.Analysis.NWords)
	assert.True(t, cfg.Export.Enabled)
	assert.Equal(t, 10, cfg.UI.TopPublishers, "unset keys keep their defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NEWS_SENTIMENT_TICKER", "TSLA")
	t.Setenv("NEWS_SENTIMENT_HEADLINES", "/data/h.csv")
	t.Setenv("NEWS_SENTIMENT_LOG_LEVEL", "DEBUG")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "TSLA", cfg.Data.Ticker)
	assert.Equal(t, "/data/h.csv", cfg.Data.HeadlinesPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[analysis]\nn_topics = 0\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[analysis\nn_topics = "), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	err := cfg.Validate()
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Field, "Level")

	cfg = Default()
	cfg.Export.Enabled = true
	cfg.Export.SQLitePath = ""
	assert.ErrorIs(t, cfg.Validate(), apperrors.ErrConfigInvalid)

	cfg = Default()
	cfg.Analysis.LexiconPath = filepath.Join(t.TempDir(), "missing.yaml")
	assert.ErrorIs(t, cfg.Validate(), apperrors.ErrConfigInvalid)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs", "a.log"), expandHome("~/logs/a.log"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}

func TestLoggingConfig_LogConfig(t *testing.T) {
	lc := Default().Logging.LogConfig()
	assert.Equal(t, "info", lc.Level)
	assert.Equal(t, 50, lc.MaxSize)
}
