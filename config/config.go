package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type configKey struct{}
type contextValue struct {
	Config Config
}

// Config is pym's ambient configuration: the settings that apply across
// every command invocation, as opposed to pym.json's per-project data.
type Config struct {
	// LogLevel controls the verbosity of structured logging ("debug",
	// "info", "warn", "error").
	LogLevel string `mapstructure:"log_level"`

	// IndexBaseURL is the root of the package index the index installer
	// scrapes for release pages (spec.md §4.4.2).
	IndexBaseURL string `mapstructure:"index_base_url"`

	// NetworkTimeout bounds a single HTTP request made by the index
	// installer. Git clones are not bounded by it.
	NetworkTimeout time.Duration `mapstructure:"network_timeout"`

	// Color disables ANSI color codes in CLI output when false.
	Color bool `mapstructure:"color"`
}

var (
	setupOnce sync.Once
	setupErr  error
)

// ErrConfigAlreadyExists is returned when creating the config without force and it already exists.
var ErrConfigAlreadyExists = errors.New("pym config already exists")

// DefaultConfig returns the canonical default configuration used by pym.
func DefaultConfig() Config {
	return Config{
		LogLevel:       "info",
		IndexBaseURL:   "https://pypi.org/simple",
		NetworkTimeout: 30 * time.Second,
		Color:          true,
	}
}

// Load resolves the effective configuration by layering, in increasing
// priority: defaults, the config file, environment variables prefixed with
// PYM_, then any bound CLI flags.
func Load(fs *pflag.FlagSet) (Config, error) {
	if err := ensureViperConfigured(); err != nil {
		return Config{}, err
	}

	bindFlags(fs)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// CreateConfig writes the pym config file and returns its absolute path.
func CreateConfig() (string, error) {
	if _, err := createConfigDir(); err != nil {
		return "", err
	}

	cfgFile, err := ConfigFilePath()
	if err != nil {
		return "", err
	}

	writer := viper.New()
	writer.SetConfigType(pymConfigType)

	defaults := DefaultConfig()
	if err := writer.MergeConfigMap(configAsMap(defaults)); err != nil {
		return "", fmt.Errorf("failed to prepare default config: %w", err)
	}

	writeErr := writer.SafeWriteConfigAs(cfgFile)

	if writeErr != nil {
		var alreadyExistsErr viper.ConfigFileAlreadyExistsError
		if errors.As(writeErr, &alreadyExistsErr) {
			return cfgFile, ErrConfigAlreadyExists
		}
		return "", fmt.Errorf("error writing config file: %w", writeErr)
	}

	if err := ensureViperConfigured(); err == nil {
		for key, value := range configAsMap(defaults) {
			viper.Set(key, value)
		}
	}

	return cfgFile, nil
}

// RemoveConfig removes the pym configuration directory and its contents.
func RemoveConfig() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove config directory %s: %w", dir, err)
	}
	return nil
}

// Inject config into context while protecting against context poisoning
func (c Config) Inject(ctx context.Context) context.Context {
	return context.WithValue(ctx, configKey{}, &contextValue{Config: c})
}

// Extract config from context
func FromContext(ctx context.Context) (Config, error) {
	c, ok := ctx.Value(configKey{}).(*contextValue)
	if !ok {
		return Config{}, fmt.Errorf("config not found in context")
	}

	return c.Config, nil
}

func ensureViperConfigured() error {
	setupOnce.Do(func() {
		dir, err := ConfigDir()
		if err != nil {
			setupErr = err
			return
		}

		v := viper.GetViper()
		v.SetConfigName(pymConfigName)
		v.SetConfigType(pymConfigType)
		v.AddConfigPath(dir)

		v.SetEnvPrefix("PYM")
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()

		for key, value := range configAsMap(DefaultConfig()) {
			v.SetDefault(key, value)
		}
	})

	return setupErr
}

func bindFlags(fs *pflag.FlagSet) {
	if fs == nil {
		return
	}

	bind := func(key, flag string) {
		if f := fs.Lookup(flag); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}

	bind("log_level", "log-level")
	bind("index_base_url", "index-url")
	bind("color", "color")
}

// Helper function to map the provided config for setting key/values in viper
func configAsMap(cfg Config) map[string]any {
	return map[string]any{
		"log_level":       cfg.LogLevel,
		"index_base_url":  cfg.IndexBaseURL,
		"network_timeout": cfg.NetworkTimeout,
		"color":           cfg.Color,
	}
}
