package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"returnrisk/pkg/model"
)

// EnvPrefix prefixes every environment override, e.g. RETURNRISK_ADDRESS.
const EnvPrefix = "RETURNRISK"

// Config holds the application configuration.
type Config struct {
	Address        string        `mapstructure:"address"`
	LogLevel       string        `mapstructure:"log-level"`
	LogFormat      string        `mapstructure:"log-format"` // "console" or "json"
	MaxUploadBytes int64         `mapstructure:"max-upload-bytes"`
	SessionTTL     time.Duration `mapstructure:"session-ttl"` // idle sessions older than this are dropped
	Model          ModelConfig   `mapstructure:"model"`
}

// ModelConfig are the classifier training settings.
type ModelConfig struct {
	C            float64 `mapstructure:"c"`
	LearningRate float64 `mapstructure:"learning-rate"`
	MaxIter      int     `mapstructure:"max-iter"`
	Tol          float64 `mapstructure:"tol"`
	Seed         int64   `mapstructure:"seed"`
}

// Options converts the settings for model.NewLogisticRegression.
func (m ModelConfig) Options() model.Options {
	return model.Options{C: m.C, LearningRate: m.LearningRate, MaxIter: m.MaxIter, Tol: m.Tol, Seed: m.Seed}
}

// field: default value
var defaults = map[string]any{
	"address":             ":5000",
	"log-level":           "info",
	"log-format":          "console",
	"max-upload-bytes":    16 << 20,
	"session-ttl":         30 * time.Minute,
	"model.c":             model.DefaultOptions().C,
	"model.learning-rate": model.DefaultOptions().LearningRate,
	"model.max-iter":      model.DefaultOptions().MaxIter,
	"model.tol":           model.DefaultOptions().Tol,
	"model.seed":          model.DefaultOptions().Seed,
}

// Load reads configuration from path (optional; yaml, json or toml by
// extension) and from RETURNRISK_* environment variables, which take
// precedence over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Address == "" {
		errs = append(errs, errors.New("address is required"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log-format must be console or json, got %q", c.LogFormat))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max-upload-bytes must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session-ttl must be positive"))
	}
	if c.Model.LearningRate <= 0 {
		errs = append(errs, errors.New("model.learning-rate must be positive"))
	}
	if c.Model.MaxIter <= 0 {
		errs = append(errs, errors.New("model.max-iter must be positive"))
	}
	if c.Model.Tol < 0 {
		errs = append(errs, errors.New("model.tol must not be negative"))
	}
	return errors.Join(errs...)
}
