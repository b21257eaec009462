// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/datetime"
	"github.com/iwvelando/revenue-forecast/pkg/projection"
	"github.com/iwvelando/revenue-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// DateLayout is the format expected for dates in config files.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for revenue-forecast.
type Configuration struct {
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Projection ProjectionConfig `yaml:"projection,omitempty"`
	Storage    StorageConfig    `yaml:"storage,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// ProjectionConfig selects what a report computes.
type ProjectionConfig struct {
	Mode           string `yaml:"mode,omitempty"`        // distributed, actual
	Granularity    string `yaml:"granularity,omitempty"` // month, quarter, year, projection
	Year           int    `yaml:"year,omitempty"`        // defaults to the reference year
	ReferenceDate  string `yaml:"referenceDate,omitempty"`
	StartYear      int    `yaml:"startYear,omitempty"`
	YearsToProject int    `yaml:"yearsToProject,omitempty"`
	IncludeTest    bool   `yaml:"includeTest,omitempty"`
}

// StorageConfig locates stored simulations.
type StorageConfig struct {
	Backend    string `yaml:"backend,omitempty"` // file, sqlite
	DataDir    string `yaml:"dataDir,omitempty"`
	SQLitePath string `yaml:"sqlitePath,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

// Default returns a configuration holding only default values.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		// Defaults always decode.
		panic(err)
	}
	return conf
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix("REVENUE_FORECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("projection.mode", constants.ModeDistributed)
	v.SetDefault("projection.granularity", constants.GranularityMonth)
	v.SetDefault("projection.startYear", constants.StartYear)
	v.SetDefault("projection.yearsToProject", constants.DefaultYearsToProject)
	v.SetDefault("storage.backend", constants.StorageBackendFile)
	v.SetDefault("storage.dataDir", constants.DefaultDataDir)
	v.SetDefault("storage.sqlitePath", constants.DefaultSQLitePath)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// Validate rejects unsupported tokens and malformed dates.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if err := validation.ValidateMode(c.Projection.Mode); err != nil {
		return err
	}
	if err := validation.ValidateGranularity(c.Projection.Granularity); err != nil {
		return err
	}
	if err := validation.ValidateStorageBackend(c.Storage.Backend); err != nil {
		return err
	}
	if c.Projection.ReferenceDate != "" {
		if _, ok := datetime.ParseDate(c.Projection.ReferenceDate); !ok {
			return fmt.Errorf("invalid reference date %q, expected %s", c.Projection.ReferenceDate, DateLayout)
		}
	}
	if c.Projection.YearsToProject < 0 {
		return fmt.Errorf("yearsToProject must not be negative, got %d", c.Projection.YearsToProject)
	}
	return nil
}

// ReferenceDate resolves the configured reference date, falling back to now.
func (c *Configuration) ReferenceDate(now time.Time) (time.Time, error) {
	if c.Projection.ReferenceDate == "" {
		return datetime.Normalize(now), nil
	}
	reference, ok := datetime.ParseDate(c.Projection.ReferenceDate)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid reference date %q, expected %s", c.Projection.ReferenceDate, DateLayout)
	}
	return reference, nil
}

// ReportYear is the configured year, or the reference year when unset.
func (c *Configuration) ReportYear(reference time.Time) int {
	if c.Projection.Year > 0 {
		return c.Projection.Year
	}
	return reference.Year()
}

// EngineOptions builds the projection options for a reference date.
func (c *Configuration) EngineOptions(reference time.Time) projection.Options {
	return projection.Options{
		ReferenceDate:  reference,
		StartYear:      c.Projection.StartYear,
		YearsToProject: c.Projection.YearsToProject,
	}
}
