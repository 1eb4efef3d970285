// Package config loads entrybook settings from defaults, an optional
// .entrybook.yaml file and ENTRYBOOK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/entrybook/pkg/store"
)

// Config is the resolved application configuration.
type Config struct {
	Backend  string        `mapstructure:"backend" validate:"required|in:local,remote"`
	Path     string        `mapstructure:"path" validate:"required"`
	DSN      string        `mapstructure:"dsn"`
	Coalesce time.Duration `mapstructure:"coalesce"`
	Log      LogConfig     `mapstructure:"log"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic,disabled"`
	Format string `mapstructure:"format" validate:"required|in:auto,console,json"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// StoreOptions converts the config into store.Open options.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:  c.Backend,
		Path:     c.Path,
		DSN:      c.DSN,
		Coalesce: c.Coalesce,
	}
}

// Validate checks field rules and cross-field constraints.
func (c *Config) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return fmt.Errorf("config: %w", v.Errors)
	}
	if c.Backend == store.BackendRemote && c.DSN == "" {
		return errors.New("config: dsn is required for the remote backend")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return errors.New("config: metrics.addr is required when metrics are enabled")
	}
	return nil
}

// New returns a viper instance with entrybook defaults, config search paths
// and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("backend", store.BackendLocal)
	v.SetDefault("path", "~/.entrybook.db")
	v.SetDefault("dsn", "")
	v.SetDefault("coalesce", 100*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")

	v.SetConfigName(".entrybook") // .yaml is implicit
	v.SetEnvPrefix("ENTRYBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("ENTRYBOOK_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	return v
}

// Load reads the config file if one exists, decodes and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = New()
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	path, err := homedir.Expand(c.Path)
	if err != nil {
		return nil, fmt.Errorf("config: expand path: %w", err)
	}
	c.Path = path

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
