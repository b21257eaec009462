package mathutil

import (
	"math"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// leadingNumber matches the decimal literal at the start of a string, so
// "100€" reads as 100 and "2 unités" as 2.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ToFloat coerces a loosely typed value (number, numeric string, nil) into a
// float64. A string with trailing text keeps its leading number. Anything
// that does not read as a finite number yields 0.
func ToFloat(value interface{}) float64 {
	if s, ok := value.(string); ok {
		trimmed := strings.TrimSpace(s)
		if f, err := cast.ToFloat64E(trimmed); err == nil {
			return finite(f)
		}
		prefix := leadingNumber.FindString(trimmed)
		if prefix == "" {
			return 0
		}
		value = prefix
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ToInt coerces a loosely typed value into an integer, truncating any
// fractional part. Anything that does not read as a number yields 0.
func ToInt(value interface{}) int {
	return int(math.Trunc(ToFloat(value)))
}

// ToBool coerces a loosely typed flag. Numbers are true when non-zero and
// strings follow strconv.ParseBool. Anything unreadable is false.
func ToBool(value interface{}) bool {
	switch v := value.(type) {
	case float64:
		return v != 0
	case string:
		value = strings.TrimSpace(v)
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return false
	}
	return b
}
