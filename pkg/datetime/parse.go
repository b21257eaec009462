// Package datetime provides date and time utility functions.
//
// All dates handled here are calendar dates: they are normalized to midnight
// UTC so that day arithmetic never crosses a DST boundary.
package datetime

import (
	"strings"
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
)

const (
	// DateLayout is the format of stored calendar dates.
	DateLayout = constants.DateLayout

	// MonthLayout is the month bucket format used in reports.
	MonthLayout = constants.MonthLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses an ISO calendar date. Timestamps are accepted and reduced
// to their date part. An empty or malformed value reports ok=false so callers
// can treat it as absent.
func ParseDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < len(DateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, trimmed[:len(DateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	if len(trimmed) > len(DateLayout) && trimmed[len(DateLayout)] != 'T' && trimmed[len(DateLayout)] != ' ' {
		return time.Time{}, false
	}
	return t, true
}

// Date returns the calendar date for a year, a zero-based month index and a day.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
}

// Normalize drops the clock part of t, keeping its calendar date.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date in the stored layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatMonth renders the month bucket of a year and zero-based month index.
func FormatMonth(year, month int) string {
	return Date(year, month, 1).Format(MonthLayout)
}
