package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	settingsFileName = "config.yaml"
	envFileName      = ".env"
	envPrefix        = "DNSIMPLE"

	DefaultOutput      = "text"
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 4
	MaxConcurrency     = 16
)

// Settings are non-secret preferences read from config.yaml and DNSIMPLE_*
// environment variables.
type Settings struct {
	Output      string        `mapstructure:"output"`
	BaseURL     string        `mapstructure:"base_url"`
	Sandbox     bool          `mapstructure:"sandbox"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
	CacheURL    string        `mapstructure:"cache_url"`
}

// Dir returns the directory holding config.yaml, .env and the file keyring.
func Dir() (string, error) {
	dir, err := userConfigDir()
	if err != nil || strings.TrimSpace(dir) == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", fmt.Errorf("cannot locate config directory: %w", errors.Join(err, homeErr))
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, serviceName), nil
}

// SettingsPath returns the default config.yaml location.
func SettingsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFileName), nil
}

// EnvFilePath returns the default .env location.
func EnvFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, envFileName), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("base_url", "")
	v.SetDefault("sandbox", false)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("concurrency", DefaultConcurrency)
	v.SetDefault("cache_url", "")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v
}

// LoadSettings reads path (config.yaml when empty). A missing file yields
// the defaults; environment variables such as DNSIMPLE_OUTPUT override both.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		p, err := SettingsPath()
		if err != nil {
			return Settings{}, err
		}
		path = p
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return s, nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	switch s.Output {
	case "text", "json", "jsonl":
	default:
		return fmt.Errorf("output must be text, json or jsonl (got %q)", s.Output)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if s.Concurrency < 1 || s.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d", MaxConcurrency)
	}
	if s.CacheURL != "" {
		if u, err := url.Parse(s.CacheURL); err != nil || !slices.Contains([]string{"", "file", "redis", "rediss"}, u.Scheme) {
			return fmt.Errorf("cache_url must be a directory, file://, redis:// or rediss:// URL (got %q)", s.CacheURL)
		}
	}
	return nil
}
