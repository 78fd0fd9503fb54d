// Package filter narrows the list of new events before output.
//
// All criteria are optional and combine with AND:
//   - Provinces: keep events in any of the listed provinces
//   - HidePast: drop events whose start date is before today
//   - Query: case- and accent-insensitive substring of the name or location
//   - DateFrom/DateTo: keep events starting inside the range (inclusive)
//
// Events whose date cannot be parsed are never dropped by date criteria.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Provinces = []string{"ON", "QC"}
//	f.HidePast = true
//	events = f.Apply(events)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/maplehacks/mlh-scrape/internal/event"
)

// Filter represents event filtering criteria
type Filter struct {
	// Province codes, upper-cased
	Provinces []string

	HidePast bool

	// Free-text search over name and location
	Query string

	// Date range filtering
	DateFrom *time.Time
	DateTo   *time.Time

	now func() time.Time
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Provinces: []string{},
		now:       time.Now,
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return len(f.Provinces) == 0 &&
		!f.HidePast &&
		strings.TrimSpace(f.Query) == "" &&
		f.DateFrom == nil &&
		f.DateTo == nil
}

// Matches checks if an event matches all active filter criteria.
// An empty filter matches all events.
func (f *Filter) Matches(evt *event.Event) bool {
	if evt == nil {
		return false
	}
	if f.IsEmpty() {
		return true
	}

	if len(f.Provinces) > 0 {
		matched := false
		for _, p := range f.Provinces {
			if strings.EqualFold(evt.Province, p) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if q := fold(f.Query); q != "" {
		if !strings.Contains(fold(evt.Name), q) && !strings.Contains(fold(evt.Location), q) {
			return false
		}
	}

	if f.HidePast && evt.IsPastAt(f.clock()) {
		return false
	}

	start := event.ParseDate(evt.Date)
	if start.IsZero() {
		return true
	}
	if f.DateFrom != nil && start.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && start.After(*f.DateTo) {
		return false
	}

	return true
}

// Apply returns the events that match. The input slice is not modified.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	if f.IsEmpty() {
		return events
	}

	filtered := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "Provinces: ON, QC | Upcoming only | Search: hack"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if len(f.Provinces) > 0 {
		parts = append(parts, fmt.Sprintf("Provinces: %s", strings.Join(f.Provinces, ", ")))
	}

	if f.HidePast {
		parts = append(parts, "Upcoming only")
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		parts = append(parts, fmt.Sprintf("Search: %s", q))
	}

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}

	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}

	return strings.Join(parts, " | ")
}

// ParseProvinces reads a comma-separated list of province codes or names.
// "all" or an empty string means no province restriction.
func ParseProvinces(input string) ([]string, error) {
	provinces := []string{}
	if strings.TrimSpace(input) == "" || strings.EqualFold(strings.TrimSpace(input), "all") {
		return provinces, nil
	}

	seen := make(map[string]bool)
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code := event.ExtractProvince(part)
		if code == "" {
			return nil, fmt.Errorf("unknown province: %q", part)
		}
		if !seen[code] {
			seen[code] = true
			provinces = append(provinces, code)
		}
	}
	return provinces, nil
}

func (f *Filter) clock() time.Time {
	if f.now == nil {
		return time.Now()
	}
	return f.now()
}

// fold lower-cases and strips accents so "montreal" finds "Montréal"
func fold(s string) string {
	return strings.ToLower(event.Unaccent(strings.TrimSpace(s)))
}
