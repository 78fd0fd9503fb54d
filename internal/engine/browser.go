package engine

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/maplehacks/mlh-scrape/internal/config"
	"github.com/maplehacks/mlh-scrape/internal/logger"
)

var loadMorePattern = regexp.MustCompile(`(?i)\b(load|show)\s+more\b`)

// BrowserEngine renders the page in headless Chromium. Each Fetch launches
// its own browser and always tears it down before returning.
type BrowserEngine struct {
	browser config.BrowserConfig
	waits   config.WaitConfig
}

// NewBrowserEngine creates a BrowserEngine
func NewBrowserEngine(browser config.BrowserConfig, waits config.WaitConfig) *BrowserEngine {
	return &BrowserEngine{browser: browser, waits: waits}
}

func (e *BrowserEngine) Name() string { return config.EngineBrowser }

// Fetch drives one browser session:
//
//  1. Launch Chromium and open a page with user agent, locale and timezone set
//  2. Inject the stealth script (before navigation, or it has no effect)
//  3. Navigate, falling back once from DOMContentLoaded to a full load wait
//  4. Best-effort: accept cookies, click "load more", scroll until stable
//  5. Wait briefly for req.WaitSelector and return the rendered HTML
//
// Only step 1 and step 3 failures are returned; step 4 never fails the fetch.
func (e *BrowserEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	l := launcher.New().
		Context(ctx).
		Headless(e.browser.Headless).
		NoSandbox(e.browser.NoSandbox)

	if e.browser.Bin != "" {
		l = l.Bin(e.browser.Bin)
	}
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("no-first-run"))
	if e.browser.Locale != "" {
		l.Set(flags.Flag("lang"), e.browser.Locale)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, NewFetchError(ErrCodeBrowserLaunch, "failed to launch browser", err)
	}
	defer l.Kill()
	logger.Debug("browser launched", logger.Fields{"control_url": controlURL})

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, NewFetchError(ErrCodeBrowserLaunch, "failed to connect to browser", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			logger.Debug("browser close failed", logger.Fields{"error": closeErr.Error()})
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, NewFetchError(ErrCodeBrowserLaunch, "failed to open page", err)
	}

	e.preparePage(page)

	p := page.Context(ctx)

	if err := e.navigate(ctx, page, req.URL); err != nil {
		return nil, err
	}

	e.acceptCookies(ctx, page)
	e.clickLoadMore(ctx, page)
	e.scrollToEnd(ctx, page)

	if req.WaitSelector != "" {
		waitCtx, cancel := context.WithTimeout(ctx, e.waits.CardSelector)
		if _, err := page.Context(waitCtx).Element(req.WaitSelector); err != nil {
			logger.Debug("card selector did not appear, continuing", logger.Fields{"selector": req.WaitSelector})
		}
		cancel()
	}

	html, err := p.HTML()
	if err != nil {
		return nil, categorizeError(err, "failed to extract page HTML")
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &FetchResult{
		HTML:       html,
		FinalURL:   finalURL,
		EngineName: e.Name(),
	}, nil
}

// preparePage sets identity overrides. Failures only degrade fidelity, so they are logged.
func (e *BrowserEngine) preparePage(page *rod.Page) {
	if e.browser.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			logger.Warn("stealth injection failed, proceeding without stealth", nil, err)
		}
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      e.browser.UserAgent,
		AcceptLanguage: e.browser.Locale,
	}); err != nil {
		logger.Warn("user agent override failed", nil, err)
	}

	if e.browser.Timezone != "" {
		if err := (proto.EmulationSetTimezoneOverride{TimezoneID: e.browser.Timezone}).Call(page); err != nil {
			logger.Warn("timezone override failed", logger.Fields{"timezone": e.browser.Timezone}, err)
		}
	}

	if e.browser.Locale != "" {
		if err := (proto.EmulationSetLocaleOverride{Locale: e.browser.Locale}).Call(page); err != nil {
			logger.Warn("locale override failed", logger.Fields{"locale": e.browser.Locale}, err)
		}
	}
}

// navigate loads url waiting for DOMContentLoaded. Pages that hold connections
// open can stall that wait, so a second attempt waits for the load event instead.
// A failure of the second attempt is returned.
func (e *BrowserEngine) navigate(ctx context.Context, page *rod.Page, url string) error {
	domReady := func(ctx context.Context) error {
		p := page.Context(ctx)
		wait := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
		if err := p.Navigate(url); err != nil {
			return err
		}
		wait()
		return ctx.Err()
	}
	fullLoad := func(ctx context.Context) error {
		p := page.Context(ctx)
		if err := p.Navigate(url); err != nil {
			return categorizeError(err, "navigation to listing page failed")
		}
		if err := p.WaitLoad(); err != nil {
			return categorizeError(err, "waiting for page load failed")
		}
		return nil
	}
	return navigateWithFallback(ctx, e.waits.Navigation, url, domReady, fullLoad)
}

// navigateWithFallback runs primary under its own timeout and, if it fails,
// runs fallback under a fresh one. A fallback failure is always returned as
// a *FetchError.
func navigateWithFallback(ctx context.Context, timeout time.Duration, url string, primary, fallback func(context.Context) error) error {
	firstCtx, cancel := context.WithTimeout(ctx, timeout)
	err := primary(firstCtx)
	cancel()
	if err == nil {
		return nil
	}

	logger.Warn("navigation failed, retrying with load wait", logger.Fields{"url": url}, err)

	retryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := fallback(retryCtx); err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return fe
		}
		return categorizeError(err, "navigation to listing page failed")
	}
	return nil
}

// acceptCookies clicks an "Accept" button if one shows up quickly
func (e *BrowserEngine) acceptCookies(ctx context.Context, page *rod.Page) {
	bannerCtx, cancel := context.WithTimeout(ctx, e.waits.CookieBanner)
	defer cancel()

	el, err := page.Context(bannerCtx).ElementR("button", "/accept/i")
	if err != nil {
		return
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		logger.Debug("cookie banner click failed", logger.Fields{"error": err.Error()})
		return
	}
	logger.Debug("cookie banner accepted", nil)
}

// clickLoadMore presses a visible "Load more"/"Show more" button a bounded number of times
func (e *BrowserEngine) clickLoadMore(ctx context.Context, page *rod.Page) {
	for i := 0; i < e.waits.LoadMoreClicks; i++ {
		buttons, err := page.Context(ctx).Elements("button")
		if err != nil {
			return
		}

		btn := firstLoadMore(buttons)
		if btn == nil {
			return
		}
		if visible, err := btn.Visible(); err != nil || !visible {
			return
		}

		clickCtx, cancel := context.WithTimeout(ctx, e.waits.LoadMoreSettle+5*time.Second)
		err = btn.Context(clickCtx).Click(proto.InputMouseButtonLeft, 1)
		cancel()
		if err != nil {
			return
		}

		logger.IncrCounter("browser.load_more_clicks")
		if !sleep(ctx, e.waits.LoadMoreSettle) {
			return
		}
	}
}

func firstLoadMore(buttons rod.Elements) *rod.Element {
	for _, btn := range buttons {
		text, err := btn.Text()
		if err != nil {
			continue
		}
		if isLoadMoreText(text) {
			return btn
		}
	}
	return nil
}

func isLoadMoreText(text string) bool {
	return loadMorePattern.MatchString(strings.TrimSpace(text))
}

// scrollToEnd scrolls to the bottom until the document height stops growing
func (e *BrowserEngine) scrollToEnd(ctx context.Context, page *rod.Page) {
	p := page.Context(ctx)
	last := 0

	for i := 0; i < e.waits.ScrollRounds; i++ {
		res, err := p.Eval(`() => document.body.scrollHeight`)
		if err != nil {
			return
		}
		height := res.Value.Int()
		if height <= last {
			return
		}
		last = height

		if _, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			return
		}
		logger.IncrCounter("browser.scroll_rounds")
		if !sleep(ctx, e.waits.ScrollSettle) {
			return
		}
	}
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors.
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// sleep waits for d or until ctx is done. Returns false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
