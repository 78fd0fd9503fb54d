package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/maplehacks/mlh-scrape/internal/calendar"
	"github.com/maplehacks/mlh-scrape/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
	FormatText OutputFormat = "text"
)

func (f OutputFormat) valid() bool {
	switch f {
	case FormatJSON, FormatICS, FormatText:
		return true
	}
	return false
}

// OutputResult is the JSON document printed on stdout
type OutputResult struct {
	Events []*event.Event `json:"events"`
}

// WriteOutput writes the events in the specified format
func WriteOutput(w io.Writer, events []*event.Event, format OutputFormat, pretty bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, events, pretty)
	case FormatICS:
		return calendar.Write(w, events, time.Now())
	case FormatText:
		return writeText(w, events)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs {"events": [...]}. The array is never null, and characters
// such as & and < are written as-is.
func writeJSON(w io.Writer, events []*event.Event, pretty bool) error {
	if events == nil {
		events = []*event.Event{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(&OutputResult{Events: events})
}

// writeText outputs events grouped by province as human-readable text
func writeText(w io.Writer, events []*event.Event) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No new events found.")
		return nil
	}

	byProvince := make(map[string][]*event.Event)
	for _, evt := range events {
		byProvince[evt.Province] = append(byProvince[evt.Province], evt)
	}

	// Get sorted province codes, unknown last
	provinces := make([]string, 0, len(byProvince))
	for code := range byProvince {
		provinces = append(provinces, code)
	}
	sort.Slice(provinces, func(i, j int) bool {
		if provinces[i] == "" || provinces[j] == "" {
			return provinces[j] == ""
		}
		return provinces[i] < provinces[j]
	})

	for _, code := range provinces {
		label := code
		if label == "" {
			label = "Unknown province"
		}
		group := byProvince[code]
		fmt.Fprintf(w, "\n%s (%d new):\n", label, len(group))
		for _, evt := range group {
			fmt.Fprintf(w, "  NEW: %s\n", evt.Name)
			fmt.Fprintf(w, "       Date: %s\n", evt.Date)
			fmt.Fprintf(w, "       Location: %s\n", evt.Location)
			fmt.Fprintf(w, "       Website: %s\n", evt.Website)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d new across %d provinces\n", len(events), len(byProvince))

	return nil
}
