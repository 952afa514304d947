package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mobil-koeln/scrollfeed/internal/api"
	"github.com/mobil-koeln/scrollfeed/internal/testutil"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	testutil.AssertEqual(t, cfg.BaseURL, "http://localhost:8080")
	testutil.AssertEqual(t, cfg.Endpoint, "/cache/ips")
	testutil.AssertEqual(t, cfg.PageSize, 50)
	testutil.AssertEqual(t, cfg.ScrollThreshold, 3)
	testutil.AssertEqual(t, cfg.MinThumb, 1)
	testutil.AssertEqual(t, cfg.Timeout, 10*time.Second)
	testutil.AssertEqual(t, cfg.LogLevel, "info")
	testutil.AssertEqual(t, cfg.MetricsAddr, "")
	testutil.AssertNil(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, cfg, Default())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
base_url: http://feed.internal:9000
page_size: 25
timeout: 3s
metrics_addr: ":9090"
`)

	cfg, err := Load(path)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, cfg.BaseURL, "http://feed.internal:9000")
	testutil.AssertEqual(t, cfg.PageSize, 25)
	testutil.AssertEqual(t, cfg.Timeout, 3*time.Second)
	testutil.AssertEqual(t, cfg.MetricsAddr, ":9090")

	// Untouched keys keep their defaults
	testutil.AssertEqual(t, cfg.Endpoint, "/cache/ips")
	testutil.AssertEqual(t, cfg.ScrollThreshold, 3)
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, "page_size: [not, a, number]\n")

	_, err := Load(path)
	testutil.AssertError(t, err)
	testutil.AssertContains(t, err.Error(), "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero page size", func(c *Config) { c.PageSize = 0 }, "page_size"},
		{"negative threshold", func(c *Config) { c.ScrollThreshold = -1 }, "scroll_threshold"},
		{"negative min thumb", func(c *Config) { c.MinThumb = -2 }, "min_thumb"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
		{"bad base url", func(c *Config) { c.BaseURL = "localhost" }, "base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			testutil.AssertError(t, err)
			testutil.AssertErrorIs(t, err, api.ErrInvalidRequest)

			var vErr *api.ValidationError
			testutil.AssertTrue(t, errors.As(err, &vErr))
			testutil.AssertEqual(t, vErr.Field, tt.field)
		})
	}
}

func TestValidate_ZeroThresholdAllowed(t *testing.T) {
	cfg := Default()
	cfg.ScrollThreshold = 0
	cfg.MinThumb = 0
	testutil.AssertNil(t, cfg.Validate())
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	testutil.AssertEqual(t, DefaultPath(), filepath.Join("/tmp/xdg-config", "scrollfeed", "config.yaml"))

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")
	testutil.AssertEqual(t, DefaultPath(), filepath.Join("/home/tester", ".config", "scrollfeed", "config.yaml"))
}

func TestClientOptions(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "http://feed.internal:9000"

	client, err := api.NewClient(cfg.ClientOptions()...)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, client.BaseURL(), "http://feed.internal:9000")
}
