package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/iwvelando/revenue-forecast/pkg/mathutil"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Number is a float that decodes from numbers, numeric strings or null.
// Anything unreadable decodes to 0 instead of failing.
type Number float64

// NumberPtr returns a pointer to a Number, for optional fields.
func NumberPtr(v float64) *Number {
	n := Number(v)
	return &n
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*n = 0
		return nil
	}
	*n = Number(mathutil.ToFloat(raw))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	var raw interface{}
	if err := value.Decode(&raw); err != nil {
		*n = 0
		return nil
	}
	*n = Number(mathutil.ToFloat(raw))
	return nil
}

// Flag is a boolean that decodes from booleans, "true"/"false" strings,
// numbers or null. Anything unreadable decodes to false instead of failing.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*f = false
		return nil
	}
	*f = Flag(mathutil.ToBool(raw))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Flag) UnmarshalYAML(value *yaml.Node) error {
	var raw interface{}
	if err := value.Decode(&raw); err != nil {
		*f = false
		return nil
	}
	*f = Flag(mathutil.ToBool(raw))
	return nil
}

// ID identifies a record. The desktop application writes numeric
// identifiers (creation timestamps) while other producers use strings; both
// decode to the same textual form.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if num, ok := raw.(json.Number); ok {
		*id = ID(num.String())
		return nil
	}
	*id = ID(cast.ToString(raw))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		*id = ""
		return nil
	}
	if value.Tag == "!!null" {
		*id = ""
		return nil
	}
	*id = ID(value.Value)
	return nil
}

// Date is an ISO calendar date kept in its stored textual form. Values that
// are empty, malformed or not strings behave as absent.
type Date string

// Time parses the date. ok is false when the date is absent or invalid.
func (d Date) Time() (time.Time, bool) {
	return datetime.ParseDate(string(d))
}

// IsSet reports whether the date holds any text at all, valid or not.
func (d Date) IsSet() bool {
	return strings.TrimSpace(string(d)) != ""
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = ""
		return nil
	}
	*d = Date(s)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode || value.Tag == "!!null" {
		*d = ""
		return nil
	}
	*d = Date(value.Value)
	return nil
}

// Kind is the normalized cadence of a service or a custom fixed cost.
type Kind int

// Cadences
const (
	KindUnknown Kind = iota
	KindOneShot
	KindMonthly
	KindQuarterly
	KindAnnual
)

// CycleMonths returns the length of one billing cycle in months, or 0 for
// one-shot and unknown cadences.
func (k Kind) CycleMonths() int {
	switch k {
	case KindMonthly:
		return 1
	case KindQuarterly:
		return 3
	case KindAnnual:
		return 12
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindOneShot:
		return "one-shot"
	case KindMonthly:
		return "monthly"
	case KindQuarterly:
		return "quarterly"
	case KindAnnual:
		return "annual"
	default:
		return "unknown"
	}
}

// Frequency is a stored billing frequency token.
type Frequency string

// Kind normalizes the token. The desktop application stores "oneshot",
// "mois", "trimestre" and "annee"; English spellings are accepted as well.
func (f Frequency) Kind() Kind {
	switch strings.ToLower(strings.TrimSpace(string(f))) {
	case "oneshot", "one-shot", "one_shot", "once":
		return KindOneShot
	case "mois", "monthly", "month":
		return KindMonthly
	case "trimestre", "quarterly", "quarter":
		return KindQuarterly
	case "annee", "année", "annual", "yearly", "year":
		return KindAnnual
	default:
		return KindUnknown
	}
}

// RecurrenceFrequency is the cadence of a recurring payment.
type RecurrenceFrequency string

// CycleMonths returns the months between two occurrences. Unknown values
// repeat monthly.
func (f RecurrenceFrequency) CycleMonths() int {
	switch strings.ToLower(strings.TrimSpace(string(f))) {
	case "quarterly", "trimestre":
		return 3
	case "yearly", "annual", "annee":
		return 12
	default:
		return 1
	}
}
