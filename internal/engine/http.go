package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/maplehacks/mlh-scrape/internal/config"
)

// HTTPEngine fetches the server-rendered HTML with a single GET. It runs no
// JavaScript, so it only sees what the server embeds (such as __NEXT_DATA__).
type HTTPEngine struct {
	userAgent string
	timeout   time.Duration
}

// NewHTTPEngine creates an HTTPEngine. A zero timeout keeps colly's default.
func NewHTTPEngine(userAgent string, timeout time.Duration) *HTTPEngine {
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	return &HTTPEngine{userAgent: userAgent, timeout: timeout}
}

func (e *HTTPEngine) Name() string { return config.EngineHTTP }

func (e *HTTPEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	c := colly.NewCollector(
		colly.UserAgent(e.userAgent),
		colly.StdlibContext(ctx),
	)
	if e.timeout > 0 {
		c.SetRequestTimeout(e.timeout)
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-CA,en;q=0.9")
	})

	var (
		result   *FetchResult
		fetchErr error
	)

	c.OnResponse(func(r *colly.Response) {
		ct := r.Headers.Get("Content-Type")
		if !isHTMLContentType(ct) {
			fetchErr = NewFetchError(ErrCodeContent, fmt.Sprintf("non-html response (content-type: %s)", ct), nil)
			return
		}
		result = &FetchResult{
			HTML:       string(r.Body),
			FinalURL:   r.Request.URL.String(),
			StatusCode: r.StatusCode,
			EngineName: e.Name(),
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode >= 300 {
			fetchErr = NewFetchError(ErrCodeHTTPStatus, fmt.Sprintf("unexpected status code: %d", r.StatusCode), err)
			return
		}
		fetchErr = categorizeError(err, "fetching listing page failed")
	})

	if err := c.Visit(req.URL); err != nil && fetchErr == nil {
		fetchErr = categorizeError(err, "fetching listing page failed")
	}

	if fetchErr != nil {
		return nil, fetchErr
	}
	if result == nil {
		return nil, NewFetchError(ErrCodeContent, "no response received", nil)
	}
	return result, nil
}

// isHTMLContentType returns true if the content-type header looks like HTML.
func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
