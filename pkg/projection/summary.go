package projection

import (
	"fmt"
	"strings"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
)

// Mode selects how revenue is recognized.
type Mode string

// Calculation modes
const (
	ModeDistributed Mode = constants.ModeDistributed
	ModeActual      Mode = constants.ModeActual
)

// ParseMode validates a mode token. An empty token means distributed.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeDistributed:
		return ModeDistributed, nil
	case ModeActual:
		return ModeActual, nil
	default:
		return "", fmt.Errorf("expected mode %s or %s, got %s", ModeDistributed, ModeActual, value)
	}
}

// Summary is the aggregate of one period.
type Summary struct {
	Period         string  `json:"period"`
	Revenue        float64 `json:"revenue"`
	PendingRevenue float64 `json:"pendingRevenue"`
	Charges        float64 `json:"charges"`
	Fixed          float64 `json:"fixed"`
	OneShot        float64 `json:"oneShot"`
	Net            float64 `json:"net"`
}

// Add accumulates other into s, keeping s's period label.
func (s *Summary) Add(other Summary) {
	s.Revenue += other.Revenue
	s.PendingRevenue += other.PendingRevenue
	s.Charges += other.Charges
	s.Fixed += other.Fixed
	s.OneShot += other.OneShot
	s.Net += other.Net
}

// Scale returns s with every amount multiplied by factor.
func (s Summary) Scale(factor float64) Summary {
	return Summary{
		Period:         s.Period,
		Revenue:        s.Revenue * factor,
		PendingRevenue: s.PendingRevenue * factor,
		Charges:        s.Charges * factor,
		Fixed:          s.Fixed * factor,
		OneShot:        s.OneShot * factor,
		Net:            s.Net * factor,
	}
}

func newSummary(period string, revenue, pending, charges float64, costs FixedCosts) Summary {
	fixed := costs.Recurring()
	return Summary{
		Period:         period,
		Revenue:        revenue,
		PendingRevenue: pending,
		Charges:        charges,
		Fixed:          fixed,
		OneShot:        costs.CustomOneShot,
		Net:            revenue - charges - fixed - costs.CustomOneShot,
	}
}
