package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies the documented defaults. Changes to defaults
// should be intentional; this test makes them visible.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default host is 127.0.0.1", func(t *testing.T) {
		t.Parallel()
		if cfg.ClearanceHost != "127.0.0.1" {
			t.Errorf("expected host '127.0.0.1', got %q", cfg.ClearanceHost)
		}
	})

	t.Run("default port is 3000", func(t *testing.T) {
		t.Parallel()
		if cfg.ClearancePort != 3000 {
			t.Errorf("expected port 3000, got %d", cfg.ClearancePort)
		}
	})

	t.Run("default timeout is 65 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 65*time.Second {
			t.Errorf("expected timeout 65s, got %v", cfg.Timeout)
		}
	})

	t.Run("default mode is source", func(t *testing.T) {
		t.Parallel()
		if cfg.Mode != "source" {
			t.Errorf("expected mode 'source', got %q", cfg.Mode)
		}
	})

	t.Run("default concurrency is sequential", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 1 {
			t.Errorf("expected concurrency 1, got %d", cfg.Concurrency)
		}
	})

	t.Run("default paths", func(t *testing.T) {
		t.Parallel()
		if cfg.InputPath != "links.xlsx" {
			t.Errorf("unexpected input path %q", cfg.InputPath)
		}
		if cfg.OutputPath != "product_links.txt" {
			t.Errorf("unexpected output path %q", cfg.OutputPath)
		}
	})
}

// TestConfigValidate tests each validation rule in isolation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		return NewConfig()
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty host returns ErrNoClearanceHost", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.ClearanceHost = ""
		if err := cfg.Validate(); !errors.Is(err, ErrNoClearanceHost) {
			t.Errorf("expected ErrNoClearanceHost, got %v", err)
		}
	})

	t.Run("zero port returns ErrInvalidClearancePort", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.ClearancePort = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidClearancePort) {
			t.Errorf("expected ErrInvalidClearancePort, got %v", err)
		}
	})

	t.Run("port above 65535 returns ErrInvalidClearancePort", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.ClearancePort = 70000
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidClearancePort) {
			t.Errorf("expected ErrInvalidClearancePort, got %v", err)
		}
	})

	t.Run("zero timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("zero concurrency returns ErrInvalidConcurrency", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Concurrency = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConcurrency) {
			t.Errorf("expected ErrInvalidConcurrency, got %v", err)
		}
	})

	t.Run("json and markdown both enabled conflict", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.JSONReport = true
		cfg.MarkdownReport = true
		if err := cfg.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("unknown mode returns ErrInvalidMode", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Mode = "teleport"
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMode) {
			t.Errorf("expected ErrInvalidMode, got %v", err)
		}
	})

	t.Run("all modes accepted", func(t *testing.T) {
		t.Parallel()
		for _, mode := range []string{"waf-session", "turnstile-min", "source"} {
			cfg := validConfig()
			cfg.Mode = mode
			if err := cfg.Validate(); err != nil {
				t.Errorf("mode %q: expected no error, got %v", mode, err)
			}
		}
	})
}

// TestLoadConfigFile tests settings file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		f, err := LoadConfigFile("/nonexistent/path/.storescan")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got %v", err)
		}
		if f != nil {
			t.Error("expected nil file when not found")
		}
	})

	t.Run("loads valid YAML settings", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, DefaultConfigFile)

		content := `api:
  cf_host: scraper.internal
  cf_port: 3333
defaults:
  baseURL: "https://www.carrefour.fr"
sites:
  www.example.com:
    baseURL: "https://www.example.com"
    productPattern: 'href="(/item/[^"]+)"'
    headers:
      Accept-Language: "fr-FR"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		f, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if f.API.CFHost != "scraper.internal" {
			t.Errorf("expected cf_host 'scraper.internal', got %q", f.API.CFHost)
		}
		if f.API.CFPort != 3333 {
			t.Errorf("expected cf_port 3333, got %d", f.API.CFPort)
		}

		site, ok := f.Sites["www.example.com"]
		if !ok {
			t.Fatal("expected www.example.com in sites")
		}
		if site.ProductPattern == "" {
			t.Error("expected product pattern to be set")
		}
		if site.Headers["Accept-Language"] != "fr-FR" {
			t.Error("expected Accept-Language header")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, DefaultConfigFile)

		if err := os.WriteFile(configPath, []byte("api: [}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Sites map", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, DefaultConfigFile)

		if err := os.WriteFile(configPath, []byte("api:\n  cf_host: h\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		f, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})
}

// TestApplyFile tests precedence of file values and environment overrides.
// Not parallel: it mutates process environment.
func TestApplyFile(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		cfg := NewConfig()
		cfg.ApplyFile(&File{API: APISettings{CFHost: "files.internal", CFPort: 4000}})

		if cfg.ClearanceHost != "files.internal" {
			t.Errorf("expected host from file, got %q", cfg.ClearanceHost)
		}
		if cfg.ClearancePort != 4000 {
			t.Errorf("expected port from file, got %d", cfg.ClearancePort)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("CF_HOST", "env.internal")
		t.Setenv("CF_PORT", "5000")

		cfg := NewConfig()
		cfg.ApplyFile(&File{API: APISettings{CFHost: "files.internal", CFPort: 4000}})

		if cfg.ClearanceHost != "env.internal" {
			t.Errorf("expected host from env, got %q", cfg.ClearanceHost)
		}
		if cfg.ClearancePort != 5000 {
			t.Errorf("expected port from env, got %d", cfg.ClearancePort)
		}
	})

	t.Run("non-numeric port env is ignored", func(t *testing.T) {
		t.Setenv("CF_PORT", "not-a-port")

		cfg := NewConfig()
		cfg.ApplyFile(nil)

		if cfg.ClearancePort != DefaultClearancePort {
			t.Errorf("expected default port, got %d", cfg.ClearancePort)
		}
	})
}

// TestGetSiteConfig tests site rule merging.
func TestGetSiteConfig(t *testing.T) {
	t.Parallel()

	file := &File{
		Defaults: SiteConfig{
			BaseURL: "https://www.carrefour.fr",
			Headers: map[string]string{"X-Default": "1"},
		},
		Sites: map[string]SiteConfig{
			"www.example.com": {
				BaseURL:        "https://www.example.com",
				ProductPattern: `href="(/item/[^"]+)"`,
				Headers:        map[string]string{"X-Custom": "2"},
			},
		},
	}

	t.Run("returns defaults for unknown host", func(t *testing.T) {
		t.Parallel()
		got := file.GetSiteConfig("https://www.unknown.com/s/shop")
		if got.BaseURL != "https://www.carrefour.fr" {
			t.Errorf("expected default base URL, got %q", got.BaseURL)
		}
	})

	t.Run("site values override defaults", func(t *testing.T) {
		t.Parallel()
		got := file.GetSiteConfig("https://www.example.com/boutique")
		if got.BaseURL != "https://www.example.com" {
			t.Errorf("expected site base URL, got %q", got.BaseURL)
		}
		if got.ProductPattern == "" {
			t.Error("expected site product pattern")
		}
	})

	t.Run("headers merge with defaults", func(t *testing.T) {
		t.Parallel()
		got := file.GetSiteConfig("https://www.example.com/boutique")
		if got.Headers["X-Default"] != "1" {
			t.Errorf("expected default header preserved, got %v", got.Headers)
		}
		if got.Headers["X-Custom"] != "2" {
			t.Errorf("expected site header, got %v", got.Headers)
		}
	})

	t.Run("bare hostname accepted", func(t *testing.T) {
		t.Parallel()
		got := file.GetSiteConfig("www.example.com")
		if got.BaseURL != "https://www.example.com" {
			t.Errorf("expected site base URL for bare host, got %q", got.BaseURL)
		}
	})
}
