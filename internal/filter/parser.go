package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthAlt = `jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december`

var (
	sameMonthRange  = regexp.MustCompile(`(?i)^(` + monthAlt + `)\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	crossMonthRange = regexp.MustCompile(`(?i)^(` + monthAlt + `)\s+(\d{1,2})\s*-\s*(` + monthAlt + `)\s+(\d{1,2})$`)
	monthRange      = regexp.MustCompile(`(?i)^(` + monthAlt + `)\s*-\s*(` + monthAlt + `)$`)
	singleMonth     = regexp.MustCompile(`(?i)^(` + monthAlt + `)$`)
)

// ParseDateRange parses a date range string into start and end times.
//
// Supported formats:
//   - "Mar 1-15" or "March 1-15" - Same month, different days
//   - "March 1 - April 15" - Different months
//   - "Jan - Mar" - Whole months
//   - "March" - Entire month
//
// Dates fall in the year of now, matching how listing dates without a year
// are read. When the end month comes before the start month the end moves to
// the following year. Start is at 00:00:00 UTC, end at 23:59:59 UTC.
func ParseDateRange(input string, now time.Time) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}
	year := now.Year()

	if m := sameMonthRange.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		day1, err := parseDay(m[2], year, month)
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(m[3], year, month)
		if err != nil {
			return nil, nil, err
		}
		return span(
			time.Date(year, month, day1, 0, 0, 0, 0, time.UTC),
			time.Date(year, month, day2, 23, 59, 59, 0, time.UTC),
		)
	}

	if m := crossMonthRange.FindStringSubmatch(input); m != nil {
		month1, month2 := parseMonth(m[1]), parseMonth(m[3])
		day1, err := parseDay(m[2], year, month1)
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(m[4], endYear(year, month1, month2), month2)
		if err != nil {
			return nil, nil, err
		}
		return span(
			time.Date(year, month1, day1, 0, 0, 0, 0, time.UTC),
			time.Date(endYear(year, month1, month2), month2, day2, 23, 59, 59, 0, time.UTC),
		)
	}

	if m := monthRange.FindStringSubmatch(input); m != nil {
		month1, month2 := parseMonth(m[1]), parseMonth(m[2])
		y2 := endYear(year, month1, month2)
		return span(
			time.Date(year, month1, 1, 0, 0, 0, 0, time.UTC),
			// Last day of month
			time.Date(y2, month2+1, 0, 23, 59, 59, 0, time.UTC),
		)
	}

	if m := singleMonth.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		return span(
			time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
			time.Date(year, month+1, 0, 23, 59, 59, 0, time.UTC),
		)
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use 'Mar 1-15', 'March 1 - April 15', 'Jan - Mar', or 'March'")
}

func span(from, to time.Time) (*time.Time, *time.Time, error) {
	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &to, nil
}

func endYear(year int, from, to time.Month) int {
	if to < from {
		return year + 1
	}
	return year
}

// parseDay reads a day of month, rejecting days the month does not have
func parseDay(s string, year int, month time.Month) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	if time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Month() != month {
		return 0, fmt.Errorf("invalid day: %s %s (month has %d days)", month, s, time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day())
	}
	return day, nil
}

// parseMonth converts a month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return 0
	}

	months := map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "may": time.May, "jun": time.June,
		"jul": time.July, "aug": time.August, "sep": time.September,
		"oct": time.October, "nov": time.November, "dec": time.December,
	}

	return months[name[:3]]
}
