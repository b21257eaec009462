package projection

import (
	"fmt"
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/iwvelando/revenue-forecast/pkg/mathutil"
	"github.com/iwvelando/revenue-forecast/pkg/model"
)

// PaymentKey identifies one occurrence of a payment.
type PaymentKey struct {
	PaymentID  model.ID `json:"paymentId"`
	Occurrence int      `json:"occurrence"`
}

// String renders the key for display, e.g. "1712_3".
func (k PaymentKey) String() string {
	return fmt.Sprintf("%s_%d", k.PaymentID, k.Occurrence)
}

// PaymentInstance is one dated cash event of a payment schedule.
type PaymentInstance struct {
	Key      PaymentKey          `json:"key"`
	Type     model.PaymentType   `json:"type,omitempty"`
	Status   model.PaymentStatus `json:"status"`
	DueDate  model.Date          `json:"dueDate"`
	PaidDate model.Date          `json:"paidDate,omitempty"`
	Amount   float64             `json:"amount"`
}

// Received reports whether the instance counts as received cash.
func (pi PaymentInstance) Received() bool {
	return pi.Status == model.StatusReceived
}

// RelevantDate is the date the instance is recognized on: the paid date of a
// received payment, the due date otherwise.
func (pi PaymentInstance) RelevantDate() (time.Time, bool) {
	if pi.Received() && pi.PaidDate.IsSet() {
		return pi.PaidDate.Time()
	}
	return pi.DueDate.Time()
}

// CashRevenue splits the cash of one month into received and pending amounts.
type CashRevenue struct {
	Received float64 `json:"received"`
	Pending  float64 `json:"pending"`
}

// DefaultHorizon is the default expansion limit for recurring payments:
// December 31st, DefaultHorizonYears after the reference date's year.
func DefaultHorizon(reference time.Time) time.Time {
	return datetime.EndOfYear(reference.Year() + constants.DefaultHorizonYears)
}

// ExpandRecurringPayments turns a payment into its dated instances.
//
// A non-recurring payment yields itself. A recurring payment yields one
// instance per cycle from its due date, up to its occurrence count (or
// MaxRecurrenceInstances when unbounded, none when negative) and never past
// horizon. A zero
// horizon disables the date limit. Only the first occurrence keeps the
// stored status and paid date; later ones are always pending.
func ExpandRecurringPayments(payment model.Payment, serviceTotal float64, horizon time.Time) []PaymentInstance {
	amount := payment.AmountFor(serviceTotal)

	if !payment.IsRecurring() {
		return []PaymentInstance{{
			Key:      PaymentKey{PaymentID: payment.ID},
			Type:     payment.Type,
			Status:   payment.Status,
			DueDate:  payment.DueDate,
			PaidDate: payment.PaidDate,
			Amount:   amount,
		}}
	}

	base, ok := payment.DueDate.Time()
	if !ok {
		return nil
	}

	limit := payment.Recurrence.Occurrences()
	if limit < 0 {
		return nil
	}
	if limit == 0 {
		limit = constants.MaxRecurrenceInstances
	}
	cycle := payment.Recurrence.Frequency.CycleMonths()

	instances := make([]PaymentInstance, 0, limit)
	for i := 0; i < limit; i++ {
		due := datetime.AddMonths(base, i*cycle)
		if !horizon.IsZero() && due.After(horizon) {
			break
		}

		instance := PaymentInstance{
			Key:     PaymentKey{PaymentID: payment.ID, Occurrence: i},
			Type:    payment.Type,
			Status:  model.StatusPending,
			DueDate: model.Date(datetime.FormatDate(due)),
			Amount:  amount,
		}
		if i == 0 {
			instance.Status = payment.Status
			instance.PaidDate = payment.PaidDate
		}
		instances = append(instances, instance)
	}
	return instances
}

// ActualRevenue recognizes a service's cash for a zero-based month.
//
// Each payment instance lands in the month of its relevant date and counts
// as received or pending by status. A service without a payment schedule
// falls back to its distributed revenue, all of it received.
func ActualRevenue(service model.Service, year, month int, horizon time.Time) CashRevenue {
	period := MonthPeriod(year, month)
	if !service.HasPayments() {
		return CashRevenue{Received: ServiceRevenue(service, period)}
	}

	total := service.Total()
	var cash CashRevenue
	for _, payment := range service.Payments {
		for _, instance := range ExpandRecurringPayments(payment, total, horizon) {
			date, ok := instance.RelevantDate()
			if !ok || !inMonth(date, period) {
				continue
			}
			if instance.Received() {
				cash.Received += instance.Amount
			} else {
				cash.Pending += instance.Amount
			}
		}
	}
	return cash
}

// PendingRevenue sums, by due date, the instances of the payments whose
// stored status is pending.
func PendingRevenue(service model.Service, year, month int, horizon time.Time) float64 {
	period := MonthPeriod(year, month)
	total := service.Total()

	pending := 0.0
	for _, payment := range service.Payments {
		if payment.Status != model.StatusPending {
			continue
		}
		for _, instance := range ExpandRecurringPayments(payment, total, horizon) {
			due, ok := instance.DueDate.Time()
			if ok && inMonth(due, period) {
				pending += instance.Amount
			}
		}
	}
	return pending
}

// PaymentPlan summarizes a service's payment schedule as entered, without
// expanding recurrences.
type PaymentPlan struct {
	ServiceTotal      float64 `json:"serviceTotal"`
	Planned           float64 `json:"planned"`
	PlannedPercentage float64 `json:"plannedPercentage"`
	Received          float64 `json:"received"`
	Pending           float64 `json:"pending"`
}

// SummarizePayments totals a service's payment schedule.
func SummarizePayments(service model.Service) PaymentPlan {
	plan := PaymentPlan{ServiceTotal: service.Total()}
	for _, payment := range service.Payments {
		amount := payment.AmountFor(plan.ServiceTotal)
		plan.Planned += amount
		if payment.IsReceived() {
			plan.Received += amount
		} else {
			plan.Pending += amount
		}
	}
	if plan.ServiceTotal > 0 {
		plan.PlannedPercentage = mathutil.CalculatePercentage(plan.Planned, plan.ServiceTotal)
	}
	return plan
}

func inMonth(date time.Time, period Period) bool {
	return date.Year() == period.Year && datetime.MonthIndex(date) == period.Month
}
