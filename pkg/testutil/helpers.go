// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"

	"github.com/iwvelando/revenue-forecast/pkg/model"
	"github.com/iwvelando/revenue-forecast/pkg/projection"
)

// Tolerance is the absolute tolerance used when comparing amounts in tests.
const Tolerance = 1e-6

// AssertAmount fails the test when got and expected differ by more than
// Tolerance.
func AssertAmount(t *testing.T, label string, got, expected float64) {
	t.Helper()
	if math.Abs(got-expected) > Tolerance {
		t.Errorf("%s = %.6f, expected %.6f", label, got, expected)
	}
}

// FindSummary finds a summary by period label in the rows slice.
// Returns a pointer to the summary if found, nil otherwise.
func FindSummary(rows []projection.Summary, period string) *projection.Summary {
	for i := range rows {
		if rows[i].Period == period {
			return &rows[i]
		}
	}
	return nil
}

// MonthlyService builds a monthly-billed service starting on start with the
// default social charges rate.
func MonthlyService(id string, price float64, start string) model.Service {
	return model.Service{
		ID:        model.ID(id),
		Name:      "service " + id,
		Price:     model.Number(price),
		Quantity:  1,
		Frequency: model.Frequency("mois"),
		StartDate: model.Date(start),
		Params: model.Params{
			SocialChargesRate: model.NumberPtr(25),
		},
	}
}

// OneShotService builds a one-shot service spread over [start, end].
func OneShotService(id string, price float64, start, end string) model.Service {
	return model.Service{
		ID:        model.ID(id),
		Name:      "service " + id,
		Price:     model.Number(price),
		Quantity:  1,
		Frequency: model.Frequency("oneshot"),
		StartDate: model.Date(start),
		EndDate:   model.Date(end),
	}
}

// Simulation wraps services in a simulation.
func Simulation(id string, isTest bool, services ...model.Service) model.Simulation {
	return model.Simulation{
		ID:       model.ID(id),
		Name:     "simulation " + id,
		IsTest:   model.Flag(isTest),
		Services: services,
	}
}
