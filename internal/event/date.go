package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	yearPattern  = regexp.MustCompile(`\b(\d{4})\b`)
	monthPattern = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	monthOnly    = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate attempts to parse a listing date such as "March 15-16, 2025",
// "Oct 24 - 26" or "Feb 28th - Mar 2nd 2026" into the first day of the event.
// A missing year means the current year; a missing day means the 1st. RFC 3339
// and YYYY-MM-DD values are also accepted.
// Returns time.Time{} (zero value) when no month name is present.
func ParseDate(dateText string) time.Time {
	if dateText == "" {
		return time.Time{}
	}

	// Machine-readable dates, as found in embedded page data
	trimmed := strings.TrimSpace(dateText)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}

	year := time.Now().Year()
	if m := yearPattern.FindStringSubmatch(dateText); m != nil {
		year, _ = strconv.Atoi(m[1])
	}

	day := 1
	var month time.Month
	if m := monthPattern.FindStringSubmatch(dateText); m != nil {
		month = months[strings.ToLower(m[1])]
		day, _ = strconv.Atoi(m[2])
	} else if m := monthOnly.FindStringSubmatch(dateText); m != nil {
		month = months[strings.ToLower(m[1])]
	} else {
		return time.Time{}
	}

	if day < 1 {
		day = 1
	}
	// "Feb 30" clamps to the end of the month instead of rolling into March
	if last := daysIn(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsPastAt checks if an event started before the day of now.
// Returns false if the date cannot be parsed.
func (e *Event) IsPastAt(now time.Time) bool {
	return isPastAt(e.Date, now)
}

func isPastAt(dateText string, now time.Time) bool {
	parsed := ParseDate(dateText)
	if parsed.IsZero() {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return parsed.Before(today)
}
