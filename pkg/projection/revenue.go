package projection

import (
	"math"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/iwvelando/revenue-forecast/pkg/model"
)

// ServiceRevenue allocates a service's revenue to a period under the
// distributed model.
//
// One-shot services need both dates; their total is spread over the days of
// [start, end]. Recurring services earn their per-month share in every month
// of their active window, without spikes on billing dates.
func ServiceRevenue(service model.Service, period Period) float64 {
	total := service.Total()
	kind := service.Frequency.Kind()

	if kind == model.KindOneShot {
		start, sok := service.Start()
		end, eok := service.End()
		if !sok || !eok {
			return 0
		}
		return prorate(total, start, end, period)
	}

	if period.IsYear() {
		return recurringYearRevenue(service, kind, total, period.Year)
	}
	return recurringMonthRevenue(service, kind, total, period)
}

// MonthRevenue is ServiceRevenue for a zero-based month.
func MonthRevenue(service model.Service, year, month int) float64 {
	return ServiceRevenue(service, MonthPeriod(year, month))
}

// YearRevenue is ServiceRevenue for a whole year.
func YearRevenue(service model.Service, year int) float64 {
	return ServiceRevenue(service, YearPeriod(year))
}

func recurringMonthRevenue(service model.Service, kind model.Kind, total float64, period Period) float64 {
	start, hasStart := service.Start()
	end, hasEnd := service.End()
	target := datetime.YearMonthOrdinal(period.Year, period.Month)
	if !activeInMonth(target, start, hasStart, end, hasEnd) {
		return 0
	}

	switch kind {
	case model.KindMonthly:
		return total
	case model.KindQuarterly:
		return total / constants.MonthsPerQuarter
	case model.KindAnnual:
		return total / constants.MonthsPerYear
	default:
		return 0
	}
}

func recurringYearRevenue(service model.Service, kind model.Kind, total float64, year int) float64 {
	from, to := datetime.StartOfYear(year), datetime.EndOfYear(year)
	start, hasStart := service.Start()
	end, hasEnd := service.End()

	if hasEnd && end.Before(from) {
		return 0
	}
	if hasStart && start.After(to) {
		return 0
	}

	effectiveStart, effectiveEnd := from, to
	if hasStart {
		effectiveStart = datetime.Latest(start, from)
	}
	if hasEnd {
		effectiveEnd = datetime.Earliest(end, to)
	}
	if effectiveStart.After(effectiveEnd) {
		return 0
	}

	monthsActive := datetime.MonthIndex(effectiveEnd) - datetime.MonthIndex(effectiveStart) + 1

	switch kind {
	case model.KindMonthly:
		return total * float64(monthsActive)
	case model.KindQuarterly:
		return total * math.Ceil(float64(monthsActive)/constants.MonthsPerQuarter)
	case model.KindAnnual:
		return total * float64(monthsActive) / constants.MonthsPerYear
	default:
		return 0
	}
}
