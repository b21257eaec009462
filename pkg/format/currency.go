// Package format renders amounts for display.
package format

import (
	"math"
	"strings"

	"github.com/iwvelando/revenue-forecast/pkg/mathutil"
)

// Currency returns a euro amount with French separators (e.g., "-1 234,56 €").
func Currency(amount float64) string {
	return NumericCurrency(amount) + " €"
}

// NumericCurrency returns an amount with French separators and no currency
// symbol (e.g., "-1 234,56").
func NumericCurrency(amount float64) string {
	rounded := mathutil.Round(amount)
	sign := ""
	if rounded < 0 {
		sign = "-"
	}
	return sign + formatPositiveCurrency(math.Abs(rounded))
}

func formatPositiveCurrency(value float64) string {
	formatted := mathutil.FormatCents(value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(' ')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "," + decPart
}
