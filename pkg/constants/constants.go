// Package constants provides shared constants for the revenue-forecast application.
package constants

// DateLayout is the calendar date format used by stored records.
const DateLayout = "2006-01-02"

// MonthLayout is the month bucket format used in reports.
const MonthLayout = "2006-01"

// Social charges constants
const (
	// DefaultSocialChargeRate is the canonical social charges percentage. It
	// applies when a service has no base rate and, unconditionally, once a
	// reduced-rate regime has ended (even when the service's own base rate
	// differs).
	DefaultSocialChargeRate = 25.0
)

// Calendar constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// MonthsPerQuarter is the number of months in a quarter
	MonthsPerQuarter = 3

	// QuartersPerYear is the number of quarters in a year
	QuartersPerYear = 4
)

// Projection constants
const (
	// StartYear is the first year of every multi-year projection.
	StartYear = 2025

	// DefaultYearsToProject is how many years past the reference year a
	// projection covers.
	DefaultYearsToProject = 5

	// MaxRecurrenceInstances caps the expansion of a recurring payment that
	// has no occurrence count (five years of monthly payments).
	MaxRecurrenceInstances = 60

	// DefaultHorizonYears places the default expansion horizon on December 31
	// of the reference year plus this many years.
	DefaultHorizonYears = 5
)

// Numeric constants
const (
	// DecimalPlaces is the precision for currency rounding
	DecimalPlaces = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Service billing frequencies as stored by the desktop application.
const (
	FrequencyOneShot   = "oneshot"
	FrequencyMonthly   = "mois"
	FrequencyQuarterly = "trimestre"
	FrequencyAnnual    = "annee"
)

// Payment recurrence frequencies.
const (
	RecurrenceMonthly   = "monthly"
	RecurrenceQuarterly = "quarterly"
	RecurrenceYearly    = "yearly"
)

// Calculation modes
const (
	// ModeDistributed smooths revenue over the service's active duration.
	ModeDistributed = "distributed"

	// ModeActual recognizes revenue on payment dates.
	ModeActual = "actual"
)

// Report granularities
const (
	GranularityMonth      = "month"
	GranularityQuarter    = "quarter"
	GranularityYear       = "year"
	GranularityProjection = "projection"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Storage backends
const (
	StorageBackendFile   = "file"
	StorageBackendSQLite = "sqlite"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultDataDir is where simulation files live when no directory is configured
	DefaultDataDir = "data"

	// DefaultSQLitePath is the default SQLite database file
	DefaultSQLitePath = "simulations.db"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
