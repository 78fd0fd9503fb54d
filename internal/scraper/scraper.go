package scraper

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/maplehacks/mlh-scrape/internal/engine"
	"github.com/maplehacks/mlh-scrape/internal/event"
	"github.com/maplehacks/mlh-scrape/internal/logger"
)

// Strategy names, reported in logs and metrics
const (
	StrategyCards    = "cards"
	StrategyNextData = "next_data"
	StrategyText     = "text_scan"
)

// Scraper handles fetching and parsing the hackathon listing page
type Scraper struct {
	engine        engine.Engine
	url           string
	excludedHosts []string
}

// New creates a Scraper for url. Links on excludedHosts (and their subdomains)
// are not picked as an event's website while another link is available.
func New(e engine.Engine, url string, excludedHosts []string) *Scraper {
	return &Scraper{
		engine:        e,
		url:           url,
		excludedHosts: excludedHosts,
	}
}

// FetchEvents fetches the listing page and extracts candidate records.
// A page with no recognisable events yields an empty slice, not an error.
func (s *Scraper) FetchEvents(ctx context.Context) ([]event.RawEvent, error) {
	start := time.Now()
	res, err := s.engine.Fetch(ctx, &engine.FetchRequest{
		URL:          s.url,
		WaitSelector: CardSelector,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	logger.RecordTiming("fetch", time.Since(start))
	logger.Info("fetched listing page", logger.Fields{
		"engine": res.EngineName,
		"url":    res.FinalURL,
		"bytes":  len(res.HTML),
	})

	baseURL := res.FinalURL
	if baseURL == "" {
		baseURL = s.url
	}

	return s.parseEvents(strings.NewReader(res.HTML), baseURL)
}

// parseEvents extracts records from HTML, resolving links against baseURL
func (s *Scraper) parseEvents(r io.Reader, baseURL string) ([]event.RawEvent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	links := &linkPicker{base: base, excludedHosts: s.excludedHosts}

	strategies := []struct {
		name string
		run  func(*goquery.Document, *linkPicker) []event.RawEvent
	}{
		{StrategyCards, extractCards},
		{StrategyNextData, extractNextData},
		{StrategyText, extractTextScan},
	}

	for _, st := range strategies {
		records := dedupe(st.run(doc, links))
		if len(records) == 0 {
			logger.Debug("extraction strategy found nothing", logger.Fields{"strategy": st.name})
			continue
		}

		logger.Info("extracted candidates", logger.Fields{
			"strategy": st.name,
			"count":    len(records),
		})
		logger.AddCounter("candidates."+st.name, int64(len(records)))
		return records, nil
	}

	logger.Warn("no candidates found; the page may be empty or its markup may have changed", logger.Fields{"url": baseURL}, nil)
	return []event.RawEvent{}, nil
}

// dedupe keeps the first record for each normalized name, dropping unnamed ones
func dedupe(records []event.RawEvent) []event.RawEvent {
	seen := make(event.NameSet)
	unique := make([]event.RawEvent, 0, len(records))
	for _, rec := range records {
		if seen.Add(rec.Name) {
			unique = append(unique, rec)
		}
	}
	return unique
}

// cleanText collapses whitespace runs into single spaces
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
