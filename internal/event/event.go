package event

import (
	"strings"
)

const (
	// DefaultWebsite is used when a scraped record carries no usable link
	DefaultWebsite = "https://mlh.io/seasons/2026/events"

	// TypeHackathon is the only event type this tool emits
	TypeHackathon = "hackathon"
)

// defaultTags is the fixed tag set attached to every emitted event
var defaultTags = []string{"hackathon", "student", "mlh", "canada", "programming", "competition"}

// RawEvent is a candidate record as extracted from the listing page.
// No field is guaranteed to be present.
type RawEvent struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Location string `json:"location"`
	Website  string `json:"website,omitempty"`
}

// Event is a normalized hackathon ready for output
type Event struct {
	Name             string   `json:"name"`
	Date             string   `json:"date"`
	Location         string   `json:"location"`
	Website          string   `json:"website"`
	Province         string   `json:"province"`
	Type             string   `json:"type"`
	Tags             []string `json:"tags"`
	IsStudentFocused bool     `json:"isStudentFocused"`
}

// Tags returns a copy of the fixed tag set
func Tags() []string {
	tags := make([]string, len(defaultTags))
	copy(tags, defaultTags)
	return tags
}

// NewEvent builds a normalized Event from a raw record.
// An empty website falls back to fallbackWebsite, or DefaultWebsite when that is empty too.
func NewEvent(raw RawEvent, fallbackWebsite string) *Event {
	if fallbackWebsite == "" {
		fallbackWebsite = DefaultWebsite
	}

	location := strings.TrimSpace(raw.Location)
	website := strings.TrimSpace(raw.Website)
	if website == "" {
		website = fallbackWebsite
	}

	return &Event{
		Name:             strings.TrimSpace(raw.Name),
		Date:             strings.TrimSpace(raw.Date),
		Location:         location,
		Website:          website,
		Province:         ExtractProvince(location),
		Type:             TypeHackathon,
		Tags:             Tags(),
		IsStudentFocused: true,
	}
}
