// Package model defines the records a simulation is made of: simulations,
// services, custom fixed costs and payments. Records are decoded leniently so
// that partially populated documents written by the desktop application
// always load; missing or malformed values fall back to documented defaults.
package model

import (
	"math"
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/mathutil"
)

// Simulation is a named set of services.
type Simulation struct {
	ID       ID        `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	IsTest   Flag      `json:"isTest" yaml:"isTest"`
	Services []Service `json:"services" yaml:"services"`
}

// Service is a billable line item.
type Service struct {
	ID        ID        `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Price     Number    `json:"price" yaml:"price"`
	Quantity  Number    `json:"quantity" yaml:"quantity"`
	Frequency Frequency `json:"frequency" yaml:"frequency"`
	StartDate Date      `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate   Date      `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Params    Params    `json:"params" yaml:"params"`
	Payments  []Payment `json:"payments,omitempty" yaml:"payments,omitempty"`
}

// Total is price times quantity. The quantity is truncated to an integer.
func (s Service) Total() float64 {
	return float64(s.Price) * math.Trunc(float64(s.Quantity))
}

// Start returns the service start date, if set and valid.
func (s Service) Start() (time.Time, bool) {
	return s.StartDate.Time()
}

// End returns the service end date, if set and valid.
func (s Service) End() (time.Time, bool) {
	return s.EndDate.Time()
}

// HasPayments reports whether the service carries an itemized payment schedule.
func (s Service) HasPayments() bool {
	return len(s.Payments) > 0
}

// Params holds the per-service cost parameters.
//
// Defaults: SocialChargesRate nil means 25 percent, ReducedChargesRate nil
// means 25 percent, every cost amount defaults to 0.
type Params struct {
	SocialChargesRate     *Number           `json:"socialChargesRate,omitempty" yaml:"socialChargesRate,omitempty"`
	ReducedChargesRate    *Number           `json:"reducedChargesRate,omitempty" yaml:"reducedChargesRate,omitempty"`
	ReducedChargesEndDate Date              `json:"reducedChargesEndDate,omitempty" yaml:"reducedChargesEndDate,omitempty"`
	HostingCost           Number            `json:"hostingCost,omitempty" yaml:"hostingCost,omitempty"`
	DatabaseCost          Number            `json:"databaseCost,omitempty" yaml:"databaseCost,omitempty"`
	DomainPrice           Number            `json:"domainPrice,omitempty" yaml:"domainPrice,omitempty"`
	DomainCount           Number            `json:"domainCount,omitempty" yaml:"domainCount,omitempty"`
	CustomFixedCosts      []CustomFixedCost `json:"customFixedCosts,omitempty" yaml:"customFixedCosts,omitempty"`
}

// CustomFixedCost is a user-defined cost with its own activation window.
type CustomFixedCost struct {
	ID        ID        `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Amount    Number    `json:"amount" yaml:"amount"`
	Frequency Frequency `json:"frequency" yaml:"frequency"`
	StartDate Date      `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate   Date      `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

// PaymentType describes a payment. It has no effect on amounts.
type PaymentType string

// Payment types
const (
	PaymentFull      PaymentType = "full"
	PaymentDeposit   PaymentType = "deposit"
	PaymentMilestone PaymentType = "milestone"
)

// PaymentStatus tracks whether a payment was received.
type PaymentStatus string

// Payment statuses
const (
	StatusPending  PaymentStatus = "pending"
	StatusReceived PaymentStatus = "received"
)

// Payment is one item of a service's payment schedule.
type Payment struct {
	ID         ID            `json:"id" yaml:"id"`
	Type       PaymentType   `json:"type,omitempty" yaml:"type,omitempty"`
	Percentage *Number       `json:"percentage" yaml:"percentage"`
	Amount     *Number       `json:"amount" yaml:"amount"`
	DueDate    Date          `json:"dueDate" yaml:"dueDate"`
	PaidDate   Date          `json:"paidDate,omitempty" yaml:"paidDate,omitempty"`
	Status     PaymentStatus `json:"status" yaml:"status"`
	Recurrence *Recurrence   `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
	Notes      string        `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// AmountFor computes the payment amount against a service total. A set
// percentage always wins over a fixed amount.
func (p Payment) AmountFor(serviceTotal float64) float64 {
	if p.Percentage != nil {
		return mathutil.ApplyPercentage(serviceTotal, float64(*p.Percentage))
	}
	if p.Amount != nil {
		return float64(*p.Amount)
	}
	return 0
}

// IsReceived reports whether the payment was marked as received.
func (p Payment) IsReceived() bool {
	return p.Status == StatusReceived
}

// IsRecurring reports whether the payment repeats.
func (p Payment) IsRecurring() bool {
	return p.Recurrence != nil && bool(p.Recurrence.Enabled)
}

// Recurrence repeats a payment every cycle.
type Recurrence struct {
	Enabled   Flag                `json:"enabled" yaml:"enabled"`
	Frequency RecurrenceFrequency `json:"frequency" yaml:"frequency"`
	Count     *Number             `json:"count" yaml:"count"`
}

// Occurrences returns the configured occurrence count, 0 when unbounded, or
// -1 when the count is negative and no occurrence is due.
func (r Recurrence) Occurrences() int {
	if r.Count == nil {
		return 0
	}
	if *r.Count < 0 {
		return -1
	}
	return mathutil.ToInt(float64(*r.Count))
}
