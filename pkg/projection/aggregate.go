package projection

import (
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/model"
)

// ServiceMonth aggregates one service over a zero-based month.
//
// In actual mode revenue is the received cash and social charges apply to
// it alone; pending cash is reported but never charged.
func ServiceMonth(service model.Service, year, month int, mode Mode, horizon time.Time) Summary {
	period := MonthPeriod(year, month)

	var revenue, pending float64
	if mode == ModeActual {
		cash := ActualRevenue(service, period.Year, period.Month, horizon)
		revenue, pending = cash.Received, cash.Pending
	} else {
		revenue = ServiceRevenue(service, period)
	}

	charges := MonthlyCharges(service, period.Year, period.Month, revenue)
	costs := ServiceFixedCosts(service, period.Year, period.Month)
	return newSummary(period.String(), revenue, pending, charges, costs)
}

// ServiceYear aggregates one service over a whole year.
//
// Distributed mode takes revenue from the whole-year allocation while
// charges and costs are evaluated month by month, so that reduced rates and
// cost cycles apply. Actual mode sums the twelve months.
func ServiceYear(service model.Service, year int, mode Mode, horizon time.Time) Summary {
	period := YearPeriod(year)

	if mode == ModeActual {
		total := Summary{Period: period.String()}
		for month := 0; month < constants.MonthsPerYear; month++ {
			total.Add(ServiceMonth(service, year, month, mode, horizon))
		}
		return total
	}

	charges := 0.0
	var costs FixedCosts
	for month := 0; month < constants.MonthsPerYear; month++ {
		charges += MonthlyCharges(service, year, month, MonthRevenue(service, year, month))
		costs.Add(ServiceFixedCosts(service, year, month))
	}
	return newSummary(period.String(), YearRevenue(service, year), 0, charges, costs)
}

// SimulationMonth aggregates every service of a simulation over a month.
func SimulationMonth(sim model.Simulation, year, month int, mode Mode, horizon time.Time) Summary {
	total := Summary{Period: MonthPeriod(year, month).String()}
	for _, service := range sim.Services {
		total.Add(ServiceMonth(service, year, month, mode, horizon))
	}
	return total
}

// SimulationQuarter sums the three months of a zero-based quarter.
func SimulationQuarter(sim model.Simulation, year, quarter int, mode Mode, horizon time.Time) Summary {
	total := Summary{Period: QuarterLabel(year, quarter)}
	for _, month := range QuarterMonths(quarter) {
		total.Add(SimulationMonth(sim, year, month, mode, horizon))
	}
	return total
}

// SimulationYear aggregates every service of a simulation over a year.
func SimulationYear(sim model.Simulation, year int, mode Mode, horizon time.Time) Summary {
	total := Summary{Period: YearPeriod(year).String()}
	for _, service := range sim.Services {
		total.Add(ServiceYear(service, year, mode, horizon))
	}
	return total
}

// ActiveSimulations drops simulations flagged as tests.
func ActiveSimulations(sims []model.Simulation) []model.Simulation {
	active := make([]model.Simulation, 0, len(sims))
	for _, sim := range sims {
		if !sim.IsTest {
			active = append(active, sim)
		}
	}
	return active
}
