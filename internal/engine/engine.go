// Package engine fetches the rendered HTML of the listing page.
//
// Two engines exist: a headless Chromium driven through go-rod, which runs the
// page's JavaScript and clicks through "load more" controls, and a static HTTP
// engine built on colly for pages whose server-rendered HTML already carries
// the event data.
package engine

import (
	"context"
	"fmt"

	"github.com/maplehacks/mlh-scrape/internal/config"
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier ("browser" or "http").
	Name() string

	// Fetch retrieves the page content for the given request.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL string

	// WaitSelector, when set, is waited for briefly before the HTML is captured.
	// Engines without a DOM ignore it.
	WaitSelector string
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	HTML       string
	FinalURL   string
	StatusCode int
	EngineName string
}

// New returns the engine named by cfg.Engine
func New(cfg *config.Config) (Engine, error) {
	switch cfg.Engine {
	case config.EngineBrowser:
		return NewBrowserEngine(cfg.Browser, cfg.Waits), nil
	case config.EngineHTTP:
		return NewHTTPEngine(cfg.Browser.UserAgent, cfg.Waits.Navigation), nil
	default:
		return nil, fmt.Errorf("unknown engine: %s", cfg.Engine)
	}
}
