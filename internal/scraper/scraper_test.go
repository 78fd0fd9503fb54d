package scraper

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/maplehacks/mlh-scrape/internal/engine"
	"github.com/maplehacks/mlh-scrape/internal/event"
)

const testBaseURL = "https://mlh.io/seasons/2026/events"

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func byName(records []event.RawEvent) map[string]event.RawEvent {
	m := make(map[string]event.RawEvent, len(records))
	for _, r := range records {
		m[r.Name] = r
	}
	return m
}

func TestParseEvents_Cards(t *testing.T) {
	s := New(nil, testBaseURL, []string{"mlh.io"})

	records, err := s.parseEvents(strings.NewReader(loadFixture(t, "cards.html")), testBaseURL)
	if err != nil {
		t.Fatalf("parseEvents() error: %v", err)
	}

	// HACK THE NORTH duplicates the first card; Incomplete Hacks has no date
	wantOrder := []string{"Hack the North", "McHacks 13", "HackMIT", "DeltaHacks XII"}
	if len(records) != len(wantOrder) {
		t.Fatalf("parseEvents() returned %d records, want %d: %+v", len(records), len(wantOrder), records)
	}
	for i, name := range wantOrder {
		if records[i].Name != name {
			t.Errorf("records[%d].Name = %q, want %q", i, records[i].Name, name)
		}
	}

	got := byName(records)

	htn := got["Hack the North"]
	if htn.Date != "Sep 12th - 14th" {
		t.Errorf("date = %q", htn.Date)
	}
	if htn.Location != "Waterloo, Ontario" {
		t.Errorf("location = %q", htn.Location)
	}
	if htn.Website != "https://hackthenorth.com/?utm_source=mlh" {
		t.Errorf("website = %q, want the off-site link", htn.Website)
	}

	if got["McHacks 13"].Location != "Montréal, Québec" {
		t.Errorf("McHacks location = %q", got["McHacks 13"].Location)
	}

	// only an excluded link: fall back to the first link
	if got["DeltaHacks XII"].Website != "https://mlh.io/seasons/2026/events" {
		t.Errorf("DeltaHacks website = %q", got["DeltaHacks XII"].Website)
	}
}

func TestParseEvents_NextData(t *testing.T) {
	s := New(nil, testBaseURL, []string{"mlh.io"})

	records, err := s.parseEvents(strings.NewReader(loadFixture(t, "nextdata.html")), testBaseURL)
	if err != nil {
		t.Fatalf("parseEvents() error: %v", err)
	}

	got := byName(records)
	if len(got) != 4 {
		t.Fatalf("expected 4 records, got %d: %+v", len(records), records)
	}

	nw := got["nwHacks 2026"]
	if nw.Date != "Jan 17 2026" || nw.Location != "Vancouver, BC" || nw.Website != "https://nwhacks.io" {
		t.Errorf("unexpected nwHacks record: %+v", nw)
	}

	if got["uOttaHack 8"].Website != "https://uottahack.ca" {
		t.Errorf("uOttaHack website = %q", got["uOttaHack 8"].Website)
	}

	if got["Relative Link Hacks"].Website != "https://mlh.io/events/relative" {
		t.Errorf("relative url should resolve against the page, got %q", got["Relative Link Hacks"].Website)
	}

	if _, ok := got["No Date Hacks"]; ok {
		t.Error("objects without a date should be skipped")
	}
	if _, ok := got["2026 Season"]; ok {
		t.Error("objects without a location should be skipped")
	}
}

func TestParseEvents_TextScan(t *testing.T) {
	s := New(nil, testBaseURL, []string{"mlh.io"})

	records, err := s.parseEvents(strings.NewReader(loadFixture(t, "textscan.html")), testBaseURL)
	if err != nil {
		t.Fatalf("parseEvents() error: %v", err)
	}

	got := byName(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}

	conu := got["ConUHacks X"]
	if conu.Date != "Jan 24 - 25" {
		t.Errorf("date = %q", conu.Date)
	}
	if conu.Location != "Montreal, QC" {
		t.Errorf("location = %q", conu.Location)
	}
	if conu.Website != "https://conuhacks.io" {
		t.Errorf("website = %q, want the first off-domain link", conu.Website)
	}

	// the scan anchors on Canadian locations only
	if _, ok := got["TreeHacks"]; ok {
		t.Error("TreeHacks has no Canadian location line and should not be found")
	}

	if got["Hack Western 12"].Location != "London, Ontario" {
		t.Errorf("Hack Western location = %q", got["Hack Western 12"].Location)
	}
}

func TestParseEvents_EdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantCount int
	}{
		{
			name:      "empty page",
			html:      `<html><body><p>No events</p></body></html>`,
			wantCount: 0,
		},
		{
			name: "article with card class",
			html: `<article class="card">
				<h3>Hack Nested</h3><time>Mar 3</time><address>Regina, SK</address>
			</article>`,
			wantCount: 1,
		},
		{
			name: "broken next data",
			html: `<script id="__NEXT_DATA__">{"props": [</script>`,
			wantCount: 0,
		},
		{
			name: "html entities decoded",
			html: `<div class="event"><h2>Hack &amp; Roll</h2><span class="date">Apr 4</span><span class="event-location">Saskatoon, SK</span></div>`,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil, testBaseURL, nil)
			records, err := s.parseEvents(strings.NewReader(tt.html), testBaseURL)
			if err != nil {
				t.Fatalf("parseEvents() error: %v", err)
			}
			if records == nil {
				t.Fatal("parseEvents() should return an empty slice, not nil")
			}
			if len(records) != tt.wantCount {
				t.Errorf("parseEvents() returned %d records, want %d: %+v", len(records), tt.wantCount, records)
			}
			for _, r := range records {
				if strings.Contains(r.Name, "&amp;") {
					t.Errorf("name contains unescaped entity: %q", r.Name)
				}
			}
		})
	}
}

func TestLocationPattern(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Toronto, ON", "Toronto, ON"},
		{"Halifax, Nova Scotia", "Halifax, Nova Scotia"},
		{"Québec City, Québec", "Québec City, Québec"},
		{"Vancouver, Canada", "Vancouver, Canada"},
		{"Hosted in Toronto, on a weekend", ""},
		{"Sep 12 - 14", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := locationPattern.FindString(tt.line); got != tt.want {
				t.Errorf("locationPattern.FindString(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

type fakeEngine struct {
	html string
	err  error
	got  *engine.FetchRequest
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Fetch(_ context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &engine.FetchResult{HTML: f.html, EngineName: "fake"}, nil
}

func TestFetchEvents(t *testing.T) {
	fe := &fakeEngine{html: loadFixture(t, "cards.html")}
	s := New(fe, testBaseURL, []string{"mlh.io"})

	records, err := s.FetchEvents(context.Background())
	if err != nil {
		t.Fatalf("FetchEvents() error: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("FetchEvents() returned %d records, want 4", len(records))
	}
	if fe.got.URL != testBaseURL {
		t.Errorf("engine asked for %q, want %q", fe.got.URL, testBaseURL)
	}
	if fe.got.WaitSelector != CardSelector {
		t.Errorf("WaitSelector = %q, want the card selector", fe.got.WaitSelector)
	}
}

func TestFetchEvents_EngineError(t *testing.T) {
	navErr := engine.NewFetchError(engine.ErrCodeNavigation, "navigation failed", errors.New("net::ERR_CONNECTION_REFUSED"))
	s := New(&fakeEngine{err: navErr}, testBaseURL, nil)

	_, err := s.FetchEvents(context.Background())
	if err == nil {
		t.Fatal("FetchEvents() expected error")
	}
	if !engine.IsCode(err, engine.ErrCodeNavigation) {
		t.Errorf("error should keep its code through wrapping, got %v", err)
	}
}
