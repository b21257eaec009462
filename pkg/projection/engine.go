package projection

import (
	"fmt"
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/model"
	"go.uber.org/zap"
)

// Options parameterize an Engine.
type Options struct {
	// ReferenceDate stands for "today". It sets the end of multi-year
	// projections and the recurring payment horizon. A zero value projects
	// YearsToProject years from StartYear and expands recurrences without a
	// date limit.
	ReferenceDate time.Time

	// StartYear is the first projected year (default constants.StartYear).
	StartYear int

	// YearsToProject is how far past the reference year projections run
	// (default constants.DefaultYearsToProject).
	YearsToProject int
}

// Engine composes the per-service calculations into dashboard aggregates.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
	opts   Options
}

// NewEngine creates an engine. If logger is nil, a no-op logger is used.
func NewEngine(logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.StartYear == 0 {
		opts.StartYear = constants.StartYear
	}
	if opts.YearsToProject <= 0 {
		opts.YearsToProject = constants.DefaultYearsToProject
	}
	return &Engine{logger: logger, opts: opts}
}

// Options returns the engine's effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Horizon is the recurring payment expansion limit derived from the
// reference date.
func (e *Engine) Horizon() time.Time {
	if e.opts.ReferenceDate.IsZero() {
		return time.Time{}
	}
	return DefaultHorizon(e.opts.ReferenceDate)
}

// ProjectionYears lists the years of a multi-year projection: from StartYear
// through YearsToProject years past the reference year, exclusive.
func (e *Engine) ProjectionYears() []int {
	last := e.opts.StartYear + e.opts.YearsToProject
	if !e.opts.ReferenceDate.IsZero() {
		last = e.opts.ReferenceDate.Year() + e.opts.YearsToProject
	}
	var years []int
	for year := e.opts.StartYear; year < last; year++ {
		years = append(years, year)
	}
	return years
}

// ServiceMonth aggregates one service over a zero-based month.
func (e *Engine) ServiceMonth(service model.Service, year, month int, mode Mode) Summary {
	return ServiceMonth(service, year, month, mode, e.Horizon())
}

// ActualRevenue is the cash view of a service for a month.
func (e *Engine) ActualRevenue(service model.Service, year, month int) CashRevenue {
	return ActualRevenue(service, year, month, e.Horizon())
}

// MonthlyBreakdown aggregates non-test simulations for each month of a year.
// It returns nil when no simulation remains.
func (e *Engine) MonthlyBreakdown(sims []model.Simulation, year int, mode Mode) []Summary {
	active := e.active(sims, "projection.MonthlyBreakdown")
	if len(active) == 0 {
		return nil
	}

	horizon := e.Horizon()
	rows := make([]Summary, constants.MonthsPerYear)
	for month := range rows {
		rows[month] = Summary{Period: MonthPeriod(year, month).String()}
		for _, sim := range active {
			rows[month].Add(SimulationMonth(sim, year, month, mode, horizon))
		}
	}
	return rows
}

// QuarterlyBreakdown aggregates non-test simulations per quarter. It always
// returns four rows, zeroed when no simulation remains.
func (e *Engine) QuarterlyBreakdown(sims []model.Simulation, year int, mode Mode) []Summary {
	months := e.MonthlyBreakdown(sims, year, mode)

	rows := make([]Summary, constants.QuartersPerYear)
	for quarter := range rows {
		rows[quarter] = Summary{Period: QuarterLabel(year, quarter)}
		if months == nil {
			continue
		}
		for _, month := range QuarterMonths(quarter) {
			rows[quarter].Add(months[month])
		}
	}
	return rows
}

// YearlySummary aggregates non-test simulations over a year, using the
// whole-year allocation in distributed mode and the sum of months in actual
// mode.
func (e *Engine) YearlySummary(sims []model.Simulation, year int, mode Mode) Summary {
	total := Summary{Period: YearPeriod(year).String()}
	horizon := e.Horizon()
	for _, sim := range e.active(sims, "projection.YearlySummary") {
		total.Add(SimulationYear(sim, year, mode, horizon))
	}
	return total
}

// SimulationProjection aggregates one simulation for every projection year.
func (e *Engine) SimulationProjection(sim model.Simulation, mode Mode) []Summary {
	horizon := e.Horizon()
	years := e.ProjectionYears()
	rows := make([]Summary, 0, len(years))
	for _, year := range years {
		rows = append(rows, SimulationYear(sim, year, mode, horizon))
	}
	return rows
}

// DashboardProjection aggregates non-test simulations for every projection
// year. It returns nil when no simulation remains.
func (e *Engine) DashboardProjection(sims []model.Simulation, mode Mode) []Summary {
	active := e.active(sims, "projection.DashboardProjection")
	if len(active) == 0 {
		return nil
	}

	years := e.ProjectionYears()
	rows := make([]Summary, len(years))
	for i, year := range years {
		rows[i] = Summary{Period: YearPeriod(year).String()}
	}
	for _, sim := range active {
		for i, row := range e.SimulationProjection(sim, mode) {
			rows[i].Add(row)
		}
	}
	return rows
}

// Overview is the detail view of a single simulation for one year.
type Overview struct {
	Months         []Summary `json:"months"`
	Annual         Summary   `json:"annual"`
	MonthlyAverage Summary   `json:"monthlyAverage"`
}

// SimulationOverview computes twelve distributed monthly rows for a
// simulation, their annual total and the monthly average.
func (e *Engine) SimulationOverview(sim model.Simulation, year int) Overview {
	horizon := e.Horizon()
	overview := Overview{
		Months: make([]Summary, constants.MonthsPerYear),
		Annual: Summary{Period: YearPeriod(year).String()},
	}
	for month := range overview.Months {
		overview.Months[month] = SimulationMonth(sim, year, month, ModeDistributed, horizon)
		overview.Annual.Add(overview.Months[month])
	}
	overview.MonthlyAverage = overview.Annual.Scale(1.0 / constants.MonthsPerYear)
	return overview
}

// NetSeries is the net result of one simulation per period.
type NetSeries struct {
	SimulationID model.ID  `json:"simulationId"`
	Name         string    `json:"name"`
	Periods      []string  `json:"periods"`
	Net          []float64 `json:"net"`
}

// NetBySimulation splits the net result by non-test simulation for the
// month, quarter or year granularity.
func (e *Engine) NetBySimulation(sims []model.Simulation, year int, granularity string, mode Mode) ([]NetSeries, error) {
	horizon := e.Horizon()
	var series []NetSeries
	for _, sim := range e.active(sims, "projection.NetBySimulation") {
		var rows []Summary
		switch granularity {
		case constants.GranularityMonth:
			for month := 0; month < constants.MonthsPerYear; month++ {
				rows = append(rows, SimulationMonth(sim, year, month, mode, horizon))
			}
		case constants.GranularityQuarter:
			for quarter := 0; quarter < constants.QuartersPerYear; quarter++ {
				rows = append(rows, SimulationQuarter(sim, year, quarter, mode, horizon))
			}
		case constants.GranularityYear:
			rows = append(rows, SimulationYear(sim, year, mode, horizon))
		default:
			return nil, fmt.Errorf("unsupported granularity for net breakdown: %s", granularity)
		}

		entry := NetSeries{SimulationID: sim.ID, Name: sim.Name}
		for _, row := range rows {
			entry.Periods = append(entry.Periods, row.Period)
			entry.Net = append(entry.Net, row.Net)
		}
		series = append(series, entry)
	}
	return series, nil
}

func (e *Engine) active(sims []model.Simulation, op string) []model.Simulation {
	active := ActiveSimulations(sims)
	if skipped := len(sims) - len(active); skipped > 0 {
		e.logger.Debug("excluding test simulations",
			zap.String("op", op),
			zap.Int("skipped", skipped),
		)
	}
	return active
}
