package projection

import (
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/iwvelando/revenue-forecast/pkg/model"
)

// FixedCosts are the costs a service incurs in one month.
type FixedCosts struct {
	Hosting         float64 `json:"hosting"`
	Database        float64 `json:"database"`
	Domains         float64 `json:"domains"`
	CustomRecurring float64 `json:"customRecurring"`
	CustomOneShot   float64 `json:"customOneShot"`
}

// Recurring sums every cost except one-shot custom costs.
func (c FixedCosts) Recurring() float64 {
	return c.Hosting + c.Database + c.Domains + c.CustomRecurring
}

// Add accumulates other into c.
func (c *FixedCosts) Add(other FixedCosts) {
	c.Hosting += other.Hosting
	c.Database += other.Database
	c.Domains += other.Domains
	c.CustomRecurring += other.CustomRecurring
	c.CustomOneShot += other.CustomOneShot
}

// ServiceFixedCosts evaluates the costs of a service for a zero-based month.
//
// Hosting, database and amortized domain costs follow the service's own
// window at month granularity. Each custom cost follows its own window, which
// starts at the cost's start date or, when unset, at the service's start date.
func ServiceFixedCosts(service model.Service, year, month int) FixedCosts {
	period := MonthPeriod(year, month)
	target := datetime.YearMonthOrdinal(period.Year, period.Month)

	serviceStart, hasStart := service.Start()
	serviceEnd, hasEnd := service.End()

	var costs FixedCosts
	if activeInMonth(target, serviceStart, hasStart, serviceEnd, hasEnd) {
		params := service.Params
		costs.Hosting = float64(params.HostingCost)
		costs.Database = float64(params.DatabaseCost)
		costs.Domains = float64(params.DomainPrice) * float64(params.DomainCount) / constants.MonthsPerYear
	}

	for _, cost := range service.Params.CustomFixedCosts {
		start, ok := cost.StartDate.Time()
		if !ok {
			start, ok = serviceStart, hasStart
		}
		recurring, oneShot := customCost(cost, period, start, ok)
		costs.CustomRecurring += recurring
		costs.CustomOneShot += oneShot
	}

	return costs
}

// customCost returns the recurring and one-shot share of a custom cost for
// the month. Quarterly and annual cycles count continuously from the
// effective start and never reset at year boundaries.
func customCost(cost model.CustomFixedCost, period Period, start time.Time, hasStart bool) (float64, float64) {
	amount := float64(cost.Amount)
	target := datetime.YearMonthOrdinal(period.Year, period.Month)
	end, hasEnd := cost.EndDate.Time()

	if hasStart && target < datetime.MonthOrdinal(start) {
		return 0, 0
	}
	if hasEnd && target > datetime.MonthOrdinal(end) {
		return 0, 0
	}

	switch cost.Frequency.Kind() {
	case model.KindMonthly:
		return amount, 0
	case model.KindQuarterly:
		if hasStart {
			elapsed := target - datetime.MonthOrdinal(start)
			if elapsed >= 0 && elapsed%constants.MonthsPerQuarter == 0 {
				return amount, 0
			}
			return 0, 0
		}
		if period.Month%constants.MonthsPerQuarter == 0 {
			return amount, 0
		}
	case model.KindAnnual:
		anchor := 0
		if hasStart {
			anchor = datetime.MonthIndex(start)
		}
		if period.Month == anchor {
			return amount, 0
		}
	case model.KindOneShot:
		if !hasStart {
			return 0, 0
		}
		if !hasEnd {
			if start.Year() == period.Year && datetime.MonthIndex(start) == period.Month {
				return 0, amount
			}
			return 0, 0
		}
		return 0, prorate(amount, start, end, period)
	}
	return 0, 0
}

// activeInMonth checks a month ordinal against an optional [start, end]
// window compared at month granularity.
func activeInMonth(target int, start time.Time, hasStart bool, end time.Time, hasEnd bool) bool {
	if hasStart && target < datetime.MonthOrdinal(start) {
		return false
	}
	if hasEnd && target > datetime.MonthOrdinal(end) {
		return false
	}
	return true
}

// prorate spreads amount evenly over the days of [start, end] and returns the
// share falling inside the period. An inverted interval is empty.
func prorate(amount float64, start, end time.Time, period Period) float64 {
	if end.Before(start) {
		return 0
	}
	from, to := period.Bounds()
	overlap := datetime.OverlapDays(start, end, from, to)
	if overlap == 0 {
		return 0
	}
	return amount / float64(datetime.InclusiveDays(start, end)) * float64(overlap)
}
