// Package forecast builds revenue reports from a configuration and a set of
// simulations.
package forecast

import (
	"fmt"
	"time"

	"github.com/iwvelando/revenue-forecast/internal/config"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/iwvelando/revenue-forecast/pkg/model"
	"github.com/iwvelando/revenue-forecast/pkg/projection"
	"github.com/iwvelando/revenue-forecast/pkg/validation"
	"go.uber.org/zap"
)

// Report holds the rows computed for one granularity and mode.
type Report struct {
	Mode          projection.Mode      `json:"mode"`
	Granularity   string               `json:"granularity"`
	Year          int                  `json:"year"`
	ReferenceDate string               `json:"referenceDate"`
	Simulations   []string             `json:"simulations"`
	Rows          []projection.Summary `json:"rows"`
	Total         projection.Summary   `json:"total"`
	Warnings      []string             `json:"warnings,omitempty"`
}

// BuildReport computes the report requested by conf for the simulations.
// The reference date stands for "today"; a zero value is rejected so the
// result never depends on the clock.
func BuildReport(logger *zap.Logger, conf config.Configuration, sims []model.Simulation, reference time.Time) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reference.IsZero() {
		return Report{}, fmt.Errorf("a reference date is required")
	}
	reference = datetime.Normalize(reference)

	mode, err := projection.ParseMode(conf.Projection.Mode)
	if err != nil {
		return Report{}, err
	}
	granularity := conf.Projection.Granularity
	if granularity == "" {
		granularity = constants.GranularityMonth
	}
	if err := validation.ValidateGranularity(granularity); err != nil {
		return Report{}, err
	}

	if conf.Projection.IncludeTest {
		sims = IncludeTestSimulations(sims)
	}

	engine := projection.NewEngine(logger, conf.EngineOptions(reference))
	year := conf.ReportYear(reference)

	report := Report{
		Mode:          mode,
		Granularity:   granularity,
		Year:          year,
		ReferenceDate: datetime.FormatDate(reference),
		Warnings:      validation.ValidateSimulations(sims),
	}
	for _, sim := range projection.ActiveSimulations(sims) {
		report.Simulations = append(report.Simulations, sim.Name)
	}

	switch granularity {
	case constants.GranularityMonth:
		report.Rows = engine.MonthlyBreakdown(sims, year, mode)
	case constants.GranularityQuarter:
		report.Rows = engine.QuarterlyBreakdown(sims, year, mode)
	case constants.GranularityYear:
		report.Rows = []projection.Summary{engine.YearlySummary(sims, year, mode)}
	case constants.GranularityProjection:
		report.Rows = engine.DashboardProjection(sims, mode)
	}
	if report.Rows == nil {
		report.Rows = []projection.Summary{}
	}

	report.Total = projection.Summary{Period: totalLabel(granularity, year, engine)}
	for _, row := range report.Rows {
		report.Total.Add(row)
	}

	logger.Debug("report computed",
		zap.String("op", "forecast.BuildReport"),
		zap.String("mode", string(mode)),
		zap.String("granularity", granularity),
		zap.Int("year", year),
		zap.Int("simulations", len(report.Simulations)),
		zap.Int("rows", len(report.Rows)),
	)

	return report, nil
}

// IncludeTestSimulations returns a copy of sims with the test flag cleared so
// that aggregates count them.
func IncludeTestSimulations(sims []model.Simulation) []model.Simulation {
	included := make([]model.Simulation, len(sims))
	for i, sim := range sims {
		sim.IsTest = false
		included[i] = sim
	}
	return included
}

func totalLabel(granularity string, year int, engine *projection.Engine) string {
	if granularity != constants.GranularityProjection {
		return projection.YearPeriod(year).String()
	}
	years := engine.ProjectionYears()
	if len(years) == 0 {
		return ""
	}
	return fmt.Sprintf("%d-%d", years[0], years[len(years)-1])
}
