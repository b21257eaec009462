package datetime

import (
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
)

// MonthIndex returns the zero-based month index of t (January = 0).
func MonthIndex(t time.Time) int {
	return int(t.Month()) - 1
}

// MonthOrdinal counts months from year zero so that months of different
// years can be compared and subtracted directly.
func MonthOrdinal(t time.Time) int {
	return t.Year()*constants.MonthsPerYear + MonthIndex(t)
}

// YearMonthOrdinal is MonthOrdinal for a year and zero-based month index.
func YearMonthOrdinal(year, month int) int {
	return year*constants.MonthsPerYear + month
}

// StartOfMonth returns the first day of the month.
func StartOfMonth(year, month int) time.Time {
	return Date(year, month, 1)
}

// EndOfMonth returns the last day of the month.
func EndOfMonth(year, month int) time.Time {
	return Date(year, month+1, 0)
}

// StartOfYear returns January 1st of the year.
func StartOfYear(year int) time.Time {
	return Date(year, 0, 1)
}

// EndOfYear returns December 31st of the year.
func EndOfYear(year int) time.Time {
	return Date(year, 11, 31)
}

// DaysBetween returns the number of whole days from start to end. It is
// negative when end precedes start.
func DaysBetween(start, end time.Time) int {
	return int(Normalize(end).Sub(Normalize(start)).Hours() / 24)
}

// InclusiveDays counts the days of [start, end], both ends included.
func InclusiveDays(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

// OverlapDays counts the days shared by the inclusive intervals [aStart, aEnd]
// and [bStart, bEnd]. Disjoint intervals overlap by zero days.
func OverlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	start := Latest(aStart, bStart)
	end := Earliest(aEnd, bEnd)
	if start.After(end) {
		return 0
	}
	return InclusiveDays(start, end)
}

// Latest returns the later of two times.
func Latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// Earliest returns the earlier of two times.
func Earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// AddMonths moves t by n months. Unlike time.AddDate the day is clamped to the
// last day of the target month, so January 31st plus one month is the end of
// February rather than early March.
func AddMonths(t time.Time, n int) time.Time {
	target := YearMonthOrdinal(t.Year(), MonthIndex(t)) + n
	year := target / constants.MonthsPerYear
	month := target % constants.MonthsPerYear
	if month < 0 {
		month += constants.MonthsPerYear
		year--
	}
	day := t.Day()
	if last := EndOfMonth(year, month).Day(); day > last {
		day = last
	}
	return time.Date(year, time.Month(month+1), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
