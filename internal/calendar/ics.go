// Package calendar renders events as an iCalendar feed.
package calendar

import (
	"crypto/sha1"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/maplehacks/mlh-scrape/internal/event"
	"github.com/maplehacks/mlh-scrape/internal/logger"
)

// ProductID identifies this tool in generated calendars
const ProductID = "-//mlh-scrape//Canadian Hackathons//EN"

// rangeEnd finds the day (and optional month) after the dash in "Sep 12th - 14th"
// or "Feb 28 - Mar 2"
var rangeEnd = regexp.MustCompile(`(?i)[-–]\s*(?:(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+)?(\d{1,2})(?:st|nd|rd|th)?\b`)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Build creates a calendar with one all-day VEVENT per event. Events whose
// date cannot be parsed are left out.
func Build(events []*event.Event, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetName("Canadian Hackathons")

	for _, evt := range events {
		if evt == nil {
			continue
		}
		start := event.ParseDate(evt.Date)
		if start.IsZero() {
			logger.Debug("skipping event without a usable date", logger.Fields{
				"name": evt.Name,
				"date": evt.Date,
			})
			logger.IncrCounter("calendar.skipped")
			continue
		}
		end := endDate(evt.Date, start)

		vevent := cal.AddEvent(UID(evt))
		vevent.SetDtStampTime(now.UTC())
		vevent.SetSummary(evt.Name)
		vevent.SetAllDayStartAt(start)
		// DTEND is exclusive for all-day events
		vevent.SetAllDayEndAt(end.AddDate(0, 0, 1))
		vevent.SetLocation(evt.Location)
		vevent.SetURL(evt.Website)
		vevent.SetDescription(description(evt))
		vevent.SetStatus(ical.ObjectStatusConfirmed)
		for _, tag := range evt.Tags {
			vevent.AddProperty(ical.ComponentPropertyCategories, tag)
		}
	}

	return cal
}

// Write renders events as an .ics document to w
func Write(w io.Writer, events []*event.Event, now time.Time) error {
	if err := Build(events, now).SerializeTo(w); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

// UID returns a stable identifier derived from the event's normalized name,
// so re-importing a feed updates events instead of duplicating them.
func UID(evt *event.Event) string {
	sum := sha1.Sum([]byte(event.NormalizeName(evt.Name)))
	return fmt.Sprintf("%x@mlh-scrape", sum[:10])
}

func description(evt *event.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s", evt.Date)
	if evt.Province != "" {
		fmt.Fprintf(&b, "\nProvince: %s", evt.Province)
	}
	if evt.Website != "" {
		fmt.Fprintf(&b, "\nWebsite: %s", evt.Website)
	}
	return b.String()
}

// endDate returns the last day of a multi-day listing date, or start when the
// text names a single day
func endDate(dateText string, start time.Time) time.Time {
	m := rangeEnd.FindStringSubmatch(dateText)
	if m == nil {
		return start
	}

	month := start.Month()
	if m[1] != "" {
		month = months[strings.ToLower(m[1])]
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return start
	}

	end := time.Date(start.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		// "Dec 30 - Jan 2"
		end = end.AddDate(1, 0, 0)
	}
	return end
}
