// Package config reads settings from PROMPTNS_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every setting name, e.g. PROMPTNS_REPO.
	EnvPrefix = "PROMPTNS"

	DefaultLogLevel = "info"
	DefaultDebounce = 350 * time.Millisecond
)

type Config struct {
	// Repo pins the repository path. Empty means the working directory at
	// call time.
	Repo string `mapstructure:"repo"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// LogFile receives library logs. Libraries stay silent when unset since
	// the host owns stderr.
	LogFile string `mapstructure:"log_file"`
	// Debounce delays re-rendering in watch mode.
	Debounce time.Duration `mapstructure:"debounce"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Debounce: DefaultDebounce,
	}
}

// Load builds a Config from the environment on top of the defaults.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	defaults := DefaultConfig()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("repo", defaults.Repo)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_file", defaults.LogFile)
	v.SetDefault("debounce", defaults.Debounce)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Debounce < 0 {
		return fmt.Errorf("invalid %s_DEBOUNCE %s: must not be negative", EnvPrefix, c.Debounce)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid %s_LOG_LEVEL %q: %w", EnvPrefix, c.LogLevel, err)
	}
	return level, nil
}
