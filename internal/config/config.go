package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/maplehacks/mlh-scrape/internal/logger"
	"gopkg.in/yaml.v3"
)

const (
	DefaultURL       = "https://mlh.io/seasons/2026/events"
	DefaultExisting  = "existing.json"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

	EngineBrowser = "browser"
	EngineHTTP    = "http"
)

// Config is the top-level configuration. Every field is optional in the YAML file;
// Normalize fills in what is missing.
type Config struct {
	// URL is the hackathon listing page to scrape.
	URL string `yaml:"url"`

	// Existing is the prior output file used to suppress known events.
	Existing string `yaml:"existing"`

	// Engine selects how the page is fetched: "browser" or "http".
	Engine string `yaml:"engine"`

	// FallbackWebsite replaces a missing event website.
	FallbackWebsite string `yaml:"fallback_website"`

	// ExcludedHosts are skipped when picking an event's website, so the
	// listing site's own links are not mistaken for the event's.
	ExcludedHosts []string `yaml:"excluded_hosts"`

	// Timeout bounds the whole fetch.
	Timeout time.Duration `yaml:"timeout"`

	// LogLevel is the minimum level written to stderr: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	Browser BrowserConfig `yaml:"browser"`
	Waits   WaitConfig    `yaml:"waits"`
}

// BrowserConfig controls the headless Chromium session.
type BrowserConfig struct {
	Headless  bool   `yaml:"headless"`
	NoSandbox bool   `yaml:"no_sandbox"` // needed in most containers
	Bin       string `yaml:"bin"`        // overrides the Chromium binary path
	UserAgent string `yaml:"user_agent"`
	Locale    string `yaml:"locale"`
	Timezone  string `yaml:"timezone"`
	Stealth   bool   `yaml:"stealth"`
}

// WaitConfig holds the small, bounded waits used while driving the page.
type WaitConfig struct {
	Navigation     time.Duration `yaml:"navigation"`
	CookieBanner   time.Duration `yaml:"cookie_banner"`
	LoadMoreClicks int           `yaml:"load_more_clicks"`
	LoadMoreSettle time.Duration `yaml:"load_more_settle"`
	ScrollRounds   int           `yaml:"scroll_rounds"`
	ScrollSettle   time.Duration `yaml:"scroll_settle"`
	CardSelector   time.Duration `yaml:"card_selector"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		URL:             DefaultURL,
		Existing:        DefaultExisting,
		Engine:          EngineBrowser,
		FallbackWebsite: DefaultURL,
		ExcludedHosts:   []string{"mlh.io"},
		Timeout:         3 * time.Minute,
		LogLevel:        "info",
		Browser: BrowserConfig{
			Headless:  true,
			UserAgent: DefaultUserAgent,
			Locale:    "en-CA",
			Timezone:  "America/Toronto",
			Stealth:   true,
		},
		Waits: WaitConfig{
			Navigation:     60 * time.Second,
			CookieBanner:   1500 * time.Millisecond,
			LoadMoreClicks: 5,
			LoadMoreSettle: 1200 * time.Millisecond,
			ScrollRounds:   20,
			ScrollSettle:   time.Second,
			CardSelector:   8 * time.Second,
		},
	}
}

// Normalize fills in missing or zero values with defaults.
// Booleans are left alone: a file that omits them keeps DefaultConfig's values
// because Load decodes on top of the defaults.
func (c *Config) Normalize() {
	d := DefaultConfig()

	if c.URL == "" {
		c.URL = d.URL
	}
	if c.Existing == "" {
		c.Existing = d.Existing
	}
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	if c.Engine == "" {
		c.Engine = d.Engine
	}
	if c.FallbackWebsite == "" {
		c.FallbackWebsite = d.FallbackWebsite
	}
	if c.ExcludedHosts == nil {
		c.ExcludedHosts = d.ExcludedHosts
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}

	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = d.Browser.UserAgent
	}
	if c.Browser.Locale == "" {
		c.Browser.Locale = d.Browser.Locale
	}
	if c.Browser.Timezone == "" {
		c.Browser.Timezone = d.Browser.Timezone
	}

	if c.Waits.Navigation <= 0 {
		c.Waits.Navigation = d.Waits.Navigation
	}
	if c.Waits.CookieBanner <= 0 {
		c.Waits.CookieBanner = d.Waits.CookieBanner
	}
	if c.Waits.LoadMoreClicks < 0 {
		c.Waits.LoadMoreClicks = 0
	}
	if c.Waits.LoadMoreSettle <= 0 {
		c.Waits.LoadMoreSettle = d.Waits.LoadMoreSettle
	}
	if c.Waits.ScrollRounds < 0 {
		c.Waits.ScrollRounds = 0
	}
	if c.Waits.ScrollSettle <= 0 {
		c.Waits.ScrollSettle = d.Waits.ScrollSettle
	}
	if c.Waits.CardSelector <= 0 {
		c.Waits.CardSelector = d.Waits.CardSelector
	}
}

// Validate reports settings that cannot be normalized away.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineBrowser, EngineHTTP:
	default:
		return fmt.Errorf("invalid engine: %s (must be '%s' or '%s')", c.Engine, EngineBrowser, EngineHTTP)
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return fmt.Errorf("invalid url: %s", c.URL)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Load reads configuration from the given YAML path.
//
// Behavior:
//   - An empty path returns DefaultConfig.
//   - A missing file is an error; unlike a long-running service there is no
//     first-run file to create.
//   - The YAML is decoded on top of DefaultConfig, then normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Encode writes the configuration as YAML, e.g. as a starting point for --config.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
