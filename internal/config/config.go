// Package config loads scrollfeed settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mobil-koeln/scrollfeed/internal/api"
	"github.com/mobil-koeln/scrollfeed/internal/pager"
)

const (
	// DefaultScrollThreshold is the prefetch distance from the bottom, in rows
	DefaultScrollThreshold = 3

	// DefaultMinThumb is the smallest scrollbar thumb, in rows
	DefaultMinThumb = 1

	// DefaultTimeout bounds a single page request
	DefaultTimeout = 10 * time.Second
)

// Config holds all scrollfeed settings
type Config struct {
	BaseURL         string        `yaml:"base_url"`
	Endpoint        string        `yaml:"endpoint"`
	PageSize        int           `yaml:"page_size"`
	ScrollThreshold int           `yaml:"scroll_threshold"`
	MinThumb        int           `yaml:"min_thumb"`
	Timeout         time.Duration `yaml:"timeout"`
	LogFile         string        `yaml:"log_file"`
	LogLevel        string        `yaml:"log_level"`
	MetricsAddr     string        `yaml:"metrics_addr"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		BaseURL:         api.DefaultBaseURL,
		Endpoint:        api.EndpointItems,
		PageSize:        pager.DefaultPageSize,
		ScrollThreshold: DefaultScrollThreshold,
		MinThumb:        DefaultMinThumb,
		Timeout:         DefaultTimeout,
		LogLevel:        "info",
	}
}

// DefaultPath returns the config file used when none is given
func DefaultPath() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "scrollfeed", "config.yaml")
	}

	// Fall back to ~/.config/scrollfeed
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "scrollfeed", "config.yaml")
	}

	return filepath.Join(home, ".config", "scrollfeed", "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error; keys
// absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	// #nosec G304 -- path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports the first setting that cannot be used
func (c Config) Validate() error {
	if c.PageSize <= 0 {
		return api.ErrInvalidValue("page_size", c.PageSize)
	}
	if c.ScrollThreshold < 0 {
		return api.ErrInvalidValue("scroll_threshold", c.ScrollThreshold)
	}
	if c.MinThumb < 0 {
		return api.ErrInvalidValue("min_thumb", c.MinThumb)
	}
	if c.Timeout <= 0 {
		return api.ErrInvalidValue("timeout", c.Timeout)
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return api.NewValidationError("base_url", fmt.Sprintf("unparseable URL %q", c.BaseURL))
	}
	return nil
}

// ClientOptions returns the API client options for these settings
func (c Config) ClientOptions() []api.ClientOption {
	return []api.ClientOption{
		api.WithBaseURL(c.BaseURL),
		api.WithEndpoint(c.Endpoint),
		api.WithTimeout(c.Timeout),
	}
}
