// Package output provides utilities for formatting and displaying revenue reports.
package output

import (
	"fmt"
	"strings"

	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/pkg/format"
	"github.com/iwvelando/revenue-forecast/pkg/mathutil"
	"github.com/iwvelando/revenue-forecast/pkg/projection"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var csvColumns = []string{"period", "revenue", "pending revenue", "charges", "fixed costs", "one-shot costs", "net"}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(report forecast.Report) {
	fmt.Print(PrettyString(report))
}

// PrettyString renders the human-readable table.
func PrettyString(report forecast.Report) string {
	p := message.NewPrinter(language.French)
	var b strings.Builder

	fmt.Fprintf(&b, "--- Revenue report (%s, %s) as of %s ---\n", report.Granularity, report.Mode, report.ReferenceDate)
	if len(report.Simulations) > 0 {
		fmt.Fprintf(&b, "Simulations: %s\n", strings.Join(report.Simulations, ", "))
	} else {
		fmt.Fprintf(&b, "Simulations: none\n")
	}
	fmt.Fprintf(&b, "Period    | Revenue | Pending | Charges | Fixed | One-shot | Net | Margin\n")
	fmt.Fprintf(&b, "______    | _______ | _______ | _______ | _____ | ________ | ___ | ______\n")

	for _, row := range report.Rows {
		writePrettyRow(&b, p, row)
	}
	writePrettyRow(&b, p, totalRow(report))

	for _, warning := range report.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", warning)
	}
	return b.String()
}

func writePrettyRow(b *strings.Builder, p *message.Printer, row projection.Summary) {
	margin := "-"
	if !mathutil.IsZero(row.Revenue) {
		margin = p.Sprintf("%.1f %%", mathutil.CalculatePercentage(row.Net, row.Revenue))
	}
	fmt.Fprintf(b, "%-9s | %s | %s | %s | %s | %s | %s | %s\n",
		row.Period,
		format.Currency(row.Revenue),
		format.Currency(row.PendingRevenue),
		format.Currency(row.Charges),
		format.Currency(row.Fixed),
		format.Currency(row.OneShot),
		format.Currency(row.Net),
		margin,
	)
}

func totalRow(report forecast.Report) projection.Summary {
	total := report.Total
	total.Period = "Total"
	return total
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(report forecast.Report) {
	fmt.Print(CsvString(report))
}

// CsvString renders the report rows as CSV, one row per period plus a total.
func CsvString(report forecast.Report) string {
	var b strings.Builder

	quoted := make([]string, len(csvColumns))
	for i, column := range csvColumns {
		quoted[i] = fmt.Sprintf(`"%s"`, column)
	}
	b.WriteString(strings.Join(quoted, ","))
	b.WriteString("\n")

	for _, row := range report.Rows {
		writeCsvRow(&b, row)
	}
	writeCsvRow(&b, totalRow(report))
	return b.String()
}

func writeCsvRow(b *strings.Builder, row projection.Summary) {
	fmt.Fprintf(b, `"%s","%s","%s","%s","%s","%s","%s"`+"\n",
		row.Period,
		mathutil.FormatCents(row.Revenue),
		mathutil.FormatCents(row.PendingRevenue),
		mathutil.FormatCents(row.Charges),
		mathutil.FormatCents(row.Fixed),
		mathutil.FormatCents(row.OneShot),
		mathutil.FormatCents(row.Net),
	)
}
