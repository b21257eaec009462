package projection

import (
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/iwvelando/revenue-forecast/pkg/model"
	"github.com/iwvelando/revenue-forecast/pkg/mathutil"
)

// SocialChargesRate resolves the social charges percentage that applies to a
// service on a given date.
//
// Without a reduced-rate regime the service's base rate applies (25 when
// unset). With a regime, the reduced rate applies up to and including its end
// date. After that date the rate is DefaultSocialChargeRate, not the
// service's base rate. A malformed end date skips the comparison and also
// yields DefaultSocialChargeRate.
func SocialChargesRate(service model.Service, date time.Time) float64 {
	rate := constants.DefaultSocialChargeRate
	if base := service.Params.SocialChargesRate; base != nil {
		rate = float64(*base)
	}

	if !service.Params.ReducedChargesEndDate.IsSet() {
		return rate
	}
	reducedEnd, ok := service.Params.ReducedChargesEndDate.Time()
	if !ok {
		return constants.DefaultSocialChargeRate
	}

	if !datetime.Normalize(date).After(reducedEnd) {
		if reduced := service.Params.ReducedChargesRate; reduced != nil {
			return float64(*reduced)
		}
		return constants.DefaultSocialChargeRate
	}
	return constants.DefaultSocialChargeRate
}

// MonthlyCharges applies the rate in force on the first day of the month to
// the revenue recognized for that month.
func MonthlyCharges(service model.Service, year, month int, revenue float64) float64 {
	rate := SocialChargesRate(service, datetime.StartOfMonth(year, month))
	return mathutil.ApplyPercentage(revenue, rate)
}
