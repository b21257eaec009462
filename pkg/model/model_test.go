package model

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

const storedSimulation = `{
  "id": 1735689600000,
  "name": "Agence",
  "isTest": false,
  "services": [
    {
      "id": 1,
      "name": "Maintenance",
      "price": "1000",
      "quantity": "2",
      "frequency": "mois",
      "startDate": "2025-03-01",
      "endDate": "",
      "params": {
        "socialChargesRate": 22,
        "reducedChargesRate": null,
        "hostingCost": "15.5",
        "domainPrice": 12,
        "domainCount": 2,
        "customFixedCosts": [
          {"id": 1736000000000, "name": "Licence", "amount": 300, "frequency": "trimestre", "startDate": "2025-02-01", "endDate": ""}
        ]
      },
      "payments": [
        {"id": 5, "type": "deposit", "percentage": 30, "amount": null, "dueDate": "2025-01-15", "paidDate": null, "status": "pending",
         "recurrence": {"enabled": false, "frequency": "monthly", "count": null}, "notes": ""}
      ]
    },
    {
      "id": "b",
      "name": "Broken",
      "price": "abc",
      "quantity": null,
      "frequency": "oneshot",
      "startDate": 42,
      "params": null
    }
  ],
  "params": {}
}`

func TestDecodeStoredSimulation(t *testing.T) {
	sim, err := DecodeSimulationJSON([]byte(storedSimulation))
	if err != nil {
		t.Fatalf("DecodeSimulationJSON() error = %v", err)
	}

	if sim.ID != "1735689600000" {
		t.Errorf("simulation ID = %q, expected 1735689600000", sim.ID)
	}
	if len(sim.Services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(sim.Services))
	}

	svc := sim.Services[0]
	if svc.Total() != 2000 {
		t.Errorf("Total() = %v, expected 2000", svc.Total())
	}
	if svc.Frequency.Kind() != KindMonthly {
		t.Errorf("Frequency.Kind() = %v, expected monthly", svc.Frequency.Kind())
	}
	if svc.Params.SocialChargesRate == nil || *svc.Params.SocialChargesRate != 22 {
		t.Errorf("SocialChargesRate = %v, expected 22", svc.Params.SocialChargesRate)
	}
	if svc.Params.ReducedChargesRate != nil {
		t.Errorf("ReducedChargesRate should be nil for null input")
	}
	if svc.Params.HostingCost != 15.5 {
		t.Errorf("HostingCost = %v, expected 15.5", svc.Params.HostingCost)
	}
	if _, ok := svc.End(); ok {
		t.Errorf("empty end date should be absent")
	}
	if got := svc.Params.CustomFixedCosts[0].ID; got != "1736000000000" {
		t.Errorf("custom cost ID = %q", got)
	}

	payment := svc.Payments[0]
	if payment.Amount != nil {
		t.Errorf("Amount should be nil for null input")
	}
	if payment.IsRecurring() {
		t.Errorf("disabled recurrence should not be recurring")
	}
	if got := payment.AmountFor(svc.Total()); got != 600 {
		t.Errorf("AmountFor() = %v, expected 600", got)
	}

	broken := sim.Services[1]
	if broken.Total() != 0 {
		t.Errorf("unparseable price should give a zero total, got %v", broken.Total())
	}
	if broken.StartDate != "" {
		t.Errorf("non-string date should decode as absent, got %q", broken.StartDate)
	}
	if broken.Params.SocialChargesRate != nil {
		t.Errorf("null params should leave defaults")
	}
}

func TestServiceTotalTruncatesQuantity(t *testing.T) {
	svc := Service{Price: 99.5, Quantity: 2.9}
	if got := svc.Total(); math.Abs(got-199) > 1e-9 {
		t.Errorf("Total() = %v, expected 199", got)
	}
}

func TestPaymentAmountPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		payment  Payment
		expected float64
	}{
		{"Percentage only", Payment{Percentage: NumberPtr(50)}, 1000},
		{"Fixed only", Payment{Amount: NumberPtr(250)}, 250},
		{"Both set", Payment{Percentage: NumberPtr(10), Amount: NumberPtr(999)}, 200},
		{"Neither set", Payment{}, 0},
		{"Zero percentage", Payment{Percentage: NumberPtr(0), Amount: NumberPtr(999)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.payment.AmountFor(2000); got != tt.expected {
				t.Errorf("AmountFor() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestFrequencyKind(t *testing.T) {
	tests := []struct {
		input    Frequency
		expected Kind
	}{
		{"oneshot", KindOneShot},
		{"one-shot", KindOneShot},
		{"mois", KindMonthly},
		{"Monthly", KindMonthly},
		{"trimestre", KindQuarterly},
		{"quarterly", KindQuarterly},
		{"annee", KindAnnual},
		{"yearly", KindAnnual},
		{"", KindUnknown},
		{"weekly", KindUnknown},
	}

	for _, tt := range tests {
		if got := tt.input.Kind(); got != tt.expected {
			t.Errorf("Frequency(%q).Kind() = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestRecurrence(t *testing.T) {
	if got := RecurrenceFrequency("quarterly").CycleMonths(); got != 3 {
		t.Errorf("quarterly cycle = %d, expected 3", got)
	}
	if got := RecurrenceFrequency("yearly").CycleMonths(); got != 12 {
		t.Errorf("yearly cycle = %d, expected 12", got)
	}
	if got := RecurrenceFrequency("fortnightly").CycleMonths(); got != 1 {
		t.Errorf("unknown cycle = %d, expected monthly", got)
	}

	r := Recurrence{Enabled: true, Count: NumberPtr(4)}
	if r.Occurrences() != 4 {
		t.Errorf("Occurrences() = %d, expected 4", r.Occurrences())
	}
	if (Recurrence{Enabled: true}).Occurrences() != 0 {
		t.Errorf("missing count should be unbounded")
	}
	if got := (Recurrence{Enabled: true, Count: NumberPtr(-1)}).Occurrences(); got != -1 {
		t.Errorf("negative count Occurrences() = %d, expected -1", got)
	}
	if got := (Recurrence{Enabled: true, Count: NumberPtr(-0.5)}).Occurrences(); got != -1 {
		t.Errorf("fractional negative count Occurrences() = %d, expected -1", got)
	}
}

func TestDecodeLenientFlags(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		isTest    bool
		recurring bool
	}{
		{
			name:      "Booleans",
			data:      `{"id": "a", "isTest": true, "services": [{"payments": [{"recurrence": {"enabled": true}}]}]}`,
			isTest:    true,
			recurring: true,
		},
		{
			name:      "Strings",
			data:      `{"id": "a", "isTest": "false", "services": [{"payments": [{"recurrence": {"enabled": "true"}}]}]}`,
			isTest:    false,
			recurring: true,
		},
		{
			name:      "Numbers",
			data:      `{"id": "a", "isTest": 1, "services": [{"payments": [{"recurrence": {"enabled": 0}}]}]}`,
			isTest:    true,
			recurring: false,
		},
		{
			name:      "Null and garbage",
			data:      `{"id": "a", "isTest": null, "services": [{"payments": [{"recurrence": {"enabled": "sometimes"}}]}]}`,
			isTest:    false,
			recurring: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, err := DecodeSimulationJSON([]byte(tt.data))
			if err != nil {
				t.Fatalf("DecodeSimulationJSON() error = %v", err)
			}
			if bool(sim.IsTest) != tt.isTest {
				t.Errorf("IsTest = %v, expected %v", sim.IsTest, tt.isTest)
			}
			if got := sim.Services[0].Payments[0].IsRecurring(); got != tt.recurring {
				t.Errorf("IsRecurring() = %v, expected %v", got, tt.recurring)
			}
		})
	}
}

func TestDecodeFlagYAML(t *testing.T) {
	sims, err := DecodeSimulations(strings.NewReader("- id: a\n  isTest: \"true\"\n- id: b\n  isTest: nope\n"))
	if err != nil {
		t.Fatalf("DecodeSimulations() error = %v", err)
	}
	if len(sims) != 2 || !sims[0].IsTest || sims[1].IsTest {
		t.Errorf("unexpected flags %+v", sims)
	}
}

func TestFlagMarshalsAsBool(t *testing.T) {
	data, err := json.Marshal(Simulation{ID: "a", IsTest: true})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"isTest":true`) {
		t.Errorf("Marshal() = %s, expected a JSON boolean", data)
	}
}

func TestServiceTotalReadsLeadingNumbers(t *testing.T) {
	sim, err := DecodeSimulationJSON([]byte(`{"id": "a", "services": [{"price": "100€", "quantity": "2 unités"}]}`))
	if err != nil {
		t.Fatalf("DecodeSimulationJSON() error = %v", err)
	}
	if got := sim.Services[0].Total(); got != 200 {
		t.Errorf("Total() = %v, expected 200", got)
	}
}

func TestDecodeSimulationsYAML(t *testing.T) {
	doc := `
simulations:
  - id: demo
    name: Demo
    isTest: true
    services:
      - id: 1
        name: Site
        price: "4500"
        quantity: 1
        frequency: oneshot
        startDate: 2025-01-15
        endDate: 2025-03-10
        params:
          socialChargesRate: 25
          customFixedCosts:
            - name: Audit
              amount: nope
              frequency: oneshot
`
	sims, err := DecodeSimulations(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeSimulations() error = %v", err)
	}
	if len(sims) != 1 {
		t.Fatalf("expected 1 simulation, got %d", len(sims))
	}
	sim := sims[0]
	if !sim.IsTest || sim.ID != "demo" {
		t.Errorf("unexpected simulation header %+v", sim)
	}
	svc := sim.Services[0]
	if svc.Total() != 4500 {
		t.Errorf("Total() = %v, expected 4500", svc.Total())
	}
	if _, ok := svc.Start(); !ok {
		t.Errorf("expected a valid start date")
	}
	if svc.Params.CustomFixedCosts[0].Amount != 0 {
		t.Errorf("unparseable amount should decode to 0")
	}
}

func TestDecodeSimulationsJSONArray(t *testing.T) {
	sims, err := DecodeSimulations(strings.NewReader(`[{"id": 1, "name": "A"}, {"id": "2", "name": "B"}]`))
	if err != nil {
		t.Fatalf("DecodeSimulations() error = %v", err)
	}
	if len(sims) != 2 || sims[0].ID != "1" || sims[1].ID != "2" {
		t.Errorf("unexpected simulations %+v", sims)
	}
}

func TestNumberMarshalsAsNumber(t *testing.T) {
	data, err := json.Marshal(Service{Price: 12.5, Quantity: 2})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"price":12.5`) {
		t.Errorf("expected numeric price in %s", data)
	}
}
