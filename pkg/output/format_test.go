package output

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/pkg/projection"
)

func sampleReport() forecast.Report {
	rows := []projection.Summary{
		{Period: "2025-T1", Revenue: 3000, Charges: 750, Fixed: 60, Net: 2190},
		{Period: "2025-T2", Revenue: 1234.5, PendingRevenue: 600, Charges: 308.625, OneShot: 100, Net: 825.875},
		{Period: "2025-T3"},
		{Period: "2025-T4"},
	}
	total := projection.Summary{Period: "2025"}
	for _, row := range rows {
		total.Add(row)
	}
	return forecast.Report{
		Mode:          projection.ModeActual,
		Granularity:   "quarter",
		Year:          2025,
		ReferenceDate: "2025-06-30",
		Simulations:   []string{"Agency", "Freelance"},
		Rows:          rows,
		Total:         total,
		Warnings:      []string{"Simulation 'Agency' service 'Logo' is one-shot without both a start and an end date and will earn nothing"},
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestPrettyFormat(t *testing.T) {
	output := captureStdout(t, func() {
		PrettyFormat(sampleReport())
	})

	expected := []string{
		"--- Revenue report (quarter, actual) as of 2025-06-30 ---",
		"Simulations: Agency, Freelance",
		"Period    | Revenue | Pending | Charges | Fixed | One-shot | Net | Margin",
		"2025-T1   | 3 000,00 €",
		"1 234,50 €",
		"600,00 €",
		"Total     | 4 234,50 €",
		"warning: Simulation 'Agency'",
	}
	for _, fragment := range expected {
		if !strings.Contains(output, fragment) {
			t.Errorf("PrettyFormat output missing %q:\n%s", fragment, output)
		}
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "2025-T3") && !strings.HasSuffix(line, "| -") {
			t.Errorf("row without revenue should have no margin: %s", line)
		}
	}
}

func TestPrettyFormatNoSimulations(t *testing.T) {
	output := PrettyString(forecast.Report{Granularity: "month", Mode: projection.ModeDistributed, Rows: []projection.Summary{}})
	if !strings.Contains(output, "Simulations: none") {
		t.Errorf("expected placeholder for empty simulations:\n%s", output)
	}
	if !strings.Contains(output, "Total") {
		t.Errorf("expected a total row:\n%s", output)
	}
}

func TestCsvFormat(t *testing.T) {
	output := captureStdout(t, func() {
		CsvFormat(sampleReport())
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header, 4 rows and a total, got %d lines:\n%s", len(lines), output)
	}

	expectedHeader := `"period","revenue","pending revenue","charges","fixed costs","one-shot costs","net"`
	if lines[0] != expectedHeader {
		t.Errorf("header = %s, expected %s", lines[0], expectedHeader)
	}
	if lines[1] != `"2025-T1","3000.00","0.00","750.00","60.00","0.00","2190.00"` {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if lines[5] != `"Total","4234.50","600.00","1058.63","60.00","100.00","3015.88"` {
		t.Errorf("unexpected total row: %s", lines[5])
	}
}

func TestCsvStringMatchesCsvFormat(t *testing.T) {
	report := sampleReport()
	output := captureStdout(t, func() {
		CsvFormat(report)
	})
	if output != CsvString(report) {
		t.Errorf("CsvFormat and CsvString differ")
	}
}
