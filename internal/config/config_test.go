package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.URL != DefaultURL {
		t.Errorf("URL = %q, want %q", cfg.URL, DefaultURL)
	}
	if cfg.Existing != DefaultExisting {
		t.Errorf("Existing = %q, want %q", cfg.Existing, DefaultExisting)
	}
	if !cfg.Browser.Headless {
		t.Error("expected headless browser by default")
	}
	if cfg.Waits.LoadMoreClicks != 5 || cfg.Waits.ScrollRounds != 20 {
		t.Errorf("unexpected default waits: %+v", cfg.Waits)
	}
}

func TestLoad_File(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	content := `
url: https://example.com/events
engine: HTTP
excluded_hosts: [example.com, mlh.io]
browser:
  no_sandbox: true
waits:
  scroll_rounds: 3
  scroll_settle: 250ms
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.URL != "https://example.com/events" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.Engine != EngineHTTP {
		t.Errorf("Engine = %q, want %q", cfg.Engine, EngineHTTP)
	}
	if len(cfg.ExcludedHosts) != 2 {
		t.Errorf("ExcludedHosts = %v", cfg.ExcludedHosts)
	}
	if !cfg.Browser.NoSandbox {
		t.Error("expected no_sandbox to be read")
	}
	if !cfg.Browser.Headless {
		t.Error("headless should keep its default when omitted")
	}
	if cfg.Waits.ScrollRounds != 3 {
		t.Errorf("ScrollRounds = %d, want 3", cfg.Waits.ScrollRounds)
	}
	if cfg.Waits.ScrollSettle != 250*time.Millisecond {
		t.Errorf("ScrollSettle = %v, want 250ms", cfg.Waits.ScrollSettle)
	}
	if cfg.Waits.CardSelector != 8*time.Second {
		t.Errorf("CardSelector = %v, want default 8s", cfg.Waits.CardSelector)
	}
}

func TestLoad_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	if _, err := Load(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("url: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestNormalize(t *testing.T) {
	cfg := &Config{
		Engine: "  Browser ",
		Waits:  WaitConfig{LoadMoreClicks: -1, ScrollRounds: -4},
	}
	cfg.Normalize()

	if cfg.Engine != EngineBrowser {
		t.Errorf("Engine = %q, want %q", cfg.Engine, EngineBrowser)
	}
	if cfg.URL != DefaultURL {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.Waits.LoadMoreClicks != 0 || cfg.Waits.ScrollRounds != 0 {
		t.Errorf("negative counts should clamp to 0, got %+v", cfg.Waits)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Browser.Locale != "en-CA" || cfg.Browser.Timezone != "America/Toronto" {
		t.Errorf("unexpected browser defaults: %+v", cfg.Browser)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"http engine", func(c *Config) { c.Engine = EngineHTTP }, false},
		{"unknown engine", func(c *Config) { c.Engine = "curl" }, true},
		{"bad url", func(c *Config) { c.URL = "mlh.io/events" }, true},
		{"debug log level", func(c *Config) { c.LogLevel = "debug" }, false},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := DefaultConfig().Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Waits.LoadMoreSettle != 1200*time.Millisecond {
		t.Errorf("LoadMoreSettle = %v after round trip", cfg.Waits.LoadMoreSettle)
	}
}
