package validation

import (
	"fmt"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/mathutil"
	"github.com/iwvelando/revenue-forecast/pkg/model"
	"github.com/iwvelando/revenue-forecast/pkg/projection"
)

// ValidateDateRange checks a labelled [start, end] pair. Unparseable values
// and inverted ranges produce warnings; empty values are allowed.
func ValidateDateRange(label string, start, end model.Date) []string {
	var warnings []string

	startTime, startOK := start.Time()
	if start.IsSet() && !startOK {
		warnings = append(warnings, fmt.Sprintf("%s has an unparseable start date '%s' and will be treated as unset", label, start))
	}
	endTime, endOK := end.Time()
	if end.IsSet() && !endOK {
		warnings = append(warnings, fmt.Sprintf("%s has an unparseable end date '%s' and will be treated as unset", label, end))
	}

	if startOK && endOK && endTime.Before(startTime) {
		warnings = append(warnings, fmt.Sprintf("%s ends before it starts (%s < %s)", label, end, start))
	}
	return warnings
}

// ValidateService checks one service and returns warnings.
func ValidateService(label string, service model.Service) []string {
	var warnings []string

	kind := service.Frequency.Kind()
	if kind == model.KindUnknown {
		warnings = append(warnings, fmt.Sprintf("%s has an unknown frequency '%s' and will earn nothing", label, service.Frequency))
	}

	warnings = append(warnings, ValidateDateRange(label, service.StartDate, service.EndDate)...)
	if kind == model.KindOneShot {
		_, startOK := service.Start()
		_, endOK := service.End()
		if !startOK || !endOK {
			warnings = append(warnings, fmt.Sprintf("%s is one-shot without both a start and an end date and will earn nothing", label))
		}
	}

	if service.Params.ReducedChargesEndDate.IsSet() {
		if _, ok := service.Params.ReducedChargesEndDate.Time(); !ok {
			warnings = append(warnings, fmt.Sprintf("%s has an unparseable reduced charges end date '%s', so the default rate of %.0f%% applies",
				label, service.Params.ReducedChargesEndDate, constants.DefaultSocialChargeRate))
		}
	}

	for _, cost := range service.Params.CustomFixedCosts {
		costLabel := fmt.Sprintf("%s custom cost '%s'", label, cost.Name)
		if cost.Frequency.Kind() == model.KindUnknown {
			warnings = append(warnings, fmt.Sprintf("%s has an unknown frequency '%s' and will be ignored", costLabel, cost.Frequency))
		}
		warnings = append(warnings, ValidateDateRange(costLabel, cost.StartDate, cost.EndDate)...)
	}

	for _, payment := range service.Payments {
		if _, ok := payment.DueDate.Time(); !ok {
			warnings = append(warnings, fmt.Sprintf("%s payment '%s' has no valid due date and will not be recognized", label, payment.ID))
		}
	}

	plan := projection.SummarizePayments(service)
	if plan.ServiceTotal > 0 && plan.Planned > plan.ServiceTotal &&
		!mathutil.WithinTolerance(plan.Planned, plan.ServiceTotal, constants.CurrencyTolerance) {
		warnings = append(warnings, fmt.Sprintf("%s payments total %.2f, more than the service total of %.2f (%.1f%%)",
			label, plan.Planned, plan.ServiceTotal, plan.PlannedPercentage))
	}

	return warnings
}

// ValidateSimulations checks a set of simulations for data that the engine
// tolerates but that probably does not mean what the user intended.
func ValidateSimulations(sims []model.Simulation) []string {
	var warnings []string

	seenSims := make(map[model.ID]bool)
	for _, sim := range sims {
		if seenSims[sim.ID] {
			warnings = append(warnings, fmt.Sprintf("Simulation id '%s' is used more than once", sim.ID))
		}
		seenSims[sim.ID] = true

		seenServices := make(map[model.ID]bool)
		for _, service := range sim.Services {
			label := fmt.Sprintf("Simulation '%s' service '%s'", sim.Name, service.Name)
			if service.ID != "" && seenServices[service.ID] {
				warnings = append(warnings, fmt.Sprintf("%s reuses service id '%s'", label, service.ID))
			}
			seenServices[service.ID] = true
			warnings = append(warnings, ValidateService(label, service)...)
		}
	}

	return warnings
}
