package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maplehacks/mlh-scrape/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone       SortOrder = "none"
	SortByDate     SortOrder = "date"
	SortByName     SortOrder = "name"
	SortByProvince SortOrder = "province"
)

// ParseSortOrder validates a --sort value. An empty value means no sorting.
func ParseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case "":
		return SortNone, nil
	case SortNone, SortByDate, SortByName, SortByProvince:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'none', 'date', 'name' or 'province')", s)
	}
}

// sortEvents sorts a slice of events based on the specified sort order.
// Ties keep extraction order.
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByProvince:
		sort.SliceStable(events, func(i, j int) bool {
			pi, pj := events[i].Province, events[j].Province
			if pi != pj {
				// Unknown province last
				if pi == "" || pj == "" {
					return pj == ""
				}
				return pi < pj
			}
			// If provinces are equal, sort by date
			return compareByDate(events[i], events[j])
		})
	case SortByName:
		sort.SliceStable(events, func(i, j int) bool {
			ni, nj := event.NormalizeName(events[i].Name), event.NormalizeName(events[j].Name)
			if ni != nj {
				return ni < nj
			}
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate compares two events by their date
// Returns true if event i should come before event j
func compareByDate(i, j *event.Event) bool {
	dateI := event.ParseDate(i.Date)
	dateJ := event.ParseDate(j.Date)

	// If both dates are valid, compare them
	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.Before(dateJ)
	}

	// If only one date is valid, put the valid one first
	return !dateI.IsZero()
}
