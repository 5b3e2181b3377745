// Package config provides configuration management for the sentiment analyzer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	apperrors "news-sentiment/internal/errors"
	"news-sentiment/internal/logging"
)

const (
	// AppName names the configuration directory.
	AppName = "news-sentiment"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "NEWS_SENTIMENT"
)

// Config holds all application configuration.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Export   ExportConfig   `mapstructure:"export"`
	UI       UIConfig       `mapstructure:"ui"`

	// File is the config file that was read, empty when running on defaults.
	File string `mapstructure:"-"`
}

// DataConfig locates the input tables.
type DataConfig struct {
	HeadlinesPath string `mapstructure:"headlines_path"`
	PricesDir     string `mapstructure:"prices_dir"`
	Ticker        string `mapstructure:"ticker" validate:"omitempty,max=10"`
}

// AnalysisConfig tunes the headline analysis.
type AnalysisConfig struct {
	DomainTerms []string `mapstructure:"domain_terms"`
	NTopics     int      `mapstructure:"n_topics" validate:"min=1,max=20"`
	NWords      int      `mapstructure:"n_words" validate:"min=1,max=20"`
	Workers     int      `mapstructure:"workers" validate:"min=0,max=256"`
	LexiconPath string   `mapstructure:"lexicon_path" validate:"omitempty,file"`
}

// LoggingConfig mirrors logging.LogConfig.
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path" validate:"required_if=File true"`
	MaxSize    int    `mapstructure:"max_size" validate:"min=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"min=0"`
}

// ExportConfig controls the SQLite report export.
type ExportConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Enabled true"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled  bool `mapstructure:"color_enabled"`
	TopPublishers int  `mapstructure:"top_publishers" validate:"min=1"`
	TopDomains    int  `mapstructure:"top_domains" validate:"min=1"`
}

// LogConfig converts the logging section for the logging package.
func (c LoggingConfig) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      c.Level,
		Console:    c.Console,
		File:       c.File,
		FilePath:   c.FilePath,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
	}
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", AppName)
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultConfigPath returns the path of the default config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// Load loads configuration from path, which may be a .toml file or a
// directory holding config.toml. An empty path selects DefaultConfigDir. A
// missing config file is replaced by a template and the defaults are used.
func Load(path string) (*Config, error) {
	v := newViper()

	file := resolvePath(path)
	v.SetConfigFile(file)

	cfg := &Config{}
	if err := v.ReadInConfig(); err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		if err := createTemplateConfig(file); err != nil {
			return nil, err
		}
	} else {
		cfg.File = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	applyEnvOverrides(cfg)
	expandPaths(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	// Unmarshal of pure defaults cannot fail.
	_ = newViper().Unmarshal(cfg)
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	log := logging.DefaultLogConfig()

	v.SetDefault("data.headlines_path", "data/raw_analyst_ratings.csv")
	v.SetDefault("data.prices_dir", "data/yfinance_data")
	v.SetDefault("data.ticker", "")

	v.SetDefault("analysis.domain_terms", []string{"buy", "sell", "hold", "up", "down", "above", "below", "over", "under", "out", "off", "not", "no"})
	v.SetDefault("analysis.n_topics", 5)
	v.SetDefault("analysis.n_words", 5)
	v.SetDefault("analysis.workers", 4)
	v.SetDefault("analysis.lexicon_path", "")

	v.SetDefault("logging.level", log.Level)
	v.SetDefault("logging.console", log.Console)
	v.SetDefault("logging.file", log.File)
	v.SetDefault("logging.file_path", log.FilePath)
	v.SetDefault("logging.max_size", log.MaxSize)
	v.SetDefault("logging.max_backups", log.MaxBackups)
	v.SetDefault("logging.max_age", log.MaxAge)

	v.SetDefault("export.enabled", false)
	v.SetDefault("export.sqlite_path", filepath.Join(DefaultConfigDir(), "reports.db"))

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.top_publishers", 10)
	v.SetDefault("ui.top_domains", 10)
}

func resolvePath(path string) string {
	if path == "" {
		return DefaultConfigPath()
	}
	if strings.HasSuffix(strings.ToLower(path), ".toml") {
		return path
	}
	return filepath.Join(path, "config.toml")
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, os.ErrNotExist)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "_HEADLINES"); v != "" {
		cfg.Data.HeadlinesPath = v
	}
	if v := os.Getenv(EnvPrefix + "_PRICES_DIR"); v != "" {
		cfg.Data.PricesDir = v
	}
	if v := os.Getenv(EnvPrefix + "_TICKER"); v != "" {
		cfg.Data.Ticker = v
	}
	if v := os.Getenv(EnvPrefix + "_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}

func expandPaths(cfg *Config) {
	cfg.Data.HeadlinesPath = expandHome(cfg.Data.HeadlinesPath)
	cfg.Data.PricesDir = expandHome(cfg.Data.PricesDir)
	cfg.Analysis.LexiconPath = expandHome(cfg.Analysis.LexiconPath)
	cfg.Logging.FilePath = expandHome(cfg.Logging.FilePath)
	cfg.Export.SQLitePath = expandHome(cfg.Export.SQLitePath)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

var validate = validator.New()

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperrors.NewValidationErrorWrap(fe.Namespace(), fe.Value(), fmt.Sprintf("failed %q constraint", fe.Tag()), apperrors.ErrConfigInvalid)
		}
		return apperrors.Wrap(apperrors.ErrConfigInvalid, err.Error())
	}
	return nil
}
