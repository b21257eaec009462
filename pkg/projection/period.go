package projection

import (
	"fmt"
	"strconv"
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
)

// Period addresses either one month of a year or a whole calendar year.
type Period struct {
	Year  int
	Month int
	whole bool
}

// MonthPeriod addresses a single month; month is zero-based (January = 0).
func MonthPeriod(year, month int) Period {
	start := datetime.StartOfMonth(year, month)
	return Period{Year: start.Year(), Month: datetime.MonthIndex(start)}
}

// YearPeriod addresses a whole calendar year.
func YearPeriod(year int) Period {
	return Period{Year: year, whole: true}
}

// IsYear reports whether the period covers a whole year.
func (p Period) IsYear() bool {
	return p.whole
}

// Bounds returns the first and last day of the period.
func (p Period) Bounds() (time.Time, time.Time) {
	if p.whole {
		return datetime.StartOfYear(p.Year), datetime.EndOfYear(p.Year)
	}
	return datetime.StartOfMonth(p.Year, p.Month), datetime.EndOfMonth(p.Year, p.Month)
}

// String renders the period as "2025" or "2025-03".
func (p Period) String() string {
	if p.whole {
		return strconv.Itoa(p.Year)
	}
	return datetime.FormatMonth(p.Year, p.Month)
}

// QuarterLabel names a zero-based quarter of a year, e.g. "2025-T1".
func QuarterLabel(year, quarter int) string {
	return fmt.Sprintf("%d-T%d", year, quarter+1)
}

// QuarterMonths returns the zero-based months of a zero-based quarter.
func QuarterMonths(quarter int) []int {
	first := quarter * constants.MonthsPerQuarter
	return []int{first, first + 1, first + 2}
}
