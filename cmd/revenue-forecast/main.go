package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/revenue-forecast/internal/config"
	"github.com/iwvelando/revenue-forecast/internal/forecast"
	"github.com/iwvelando/revenue-forecast/internal/logging"
	"github.com/iwvelando/revenue-forecast/internal/store"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/model"
	"github.com/iwvelando/revenue-forecast/pkg/output"
	"go.uber.org/zap"
)

// loadConfiguration reads the config file. A missing default file is not an
// error; defaults apply.
func loadConfiguration(path string, explicit bool) (*config.Configuration, error) {
	if !explicit {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	return config.LoadConfiguration(path)
}

func loadSimulations(ctx context.Context, logger *zap.Logger, conf *config.Configuration, importPath string) ([]model.Simulation, error) {
	if importPath != "" {
		file, err := os.Open(importPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", importPath, err)
		}
		defer file.Close()
		return model.DecodeSimulations(file)
	}

	s, err := store.Open(logger, conf.Storage)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			logger.Warn("failed to close store",
				zap.String("op", "main.loadSimulations"),
				zap.Error(closeErr),
			)
		}
	}()
	return s.List(ctx)
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	modeFlag := flag.String("mode", "", "calculation mode override: distributed, actual")
	granularityFlag := flag.String("granularity", "", "report granularity override: month, quarter, year, projection")
	yearFlag := flag.Int("year", 0, "report year override (defaults to the reference year)")
	referenceFlag := flag.String("reference-date", "", "reference date override (YYYY-MM-DD, defaults to today)")
	importFlag := flag.String("import", "", "read simulations from a JSON or YAML file instead of the configured store")
	includeTestFlag := flag.Bool("include-test", false, "include simulations flagged as tests")
	flag.Parse()

	explicitConfig := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicitConfig = true
		}
	})

	conf, err := loadConfiguration(*configLocation, explicitConfig)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over config
	if *outputFormatFlag != "" {
		conf.Output.Format = *outputFormatFlag
	}
	if *modeFlag != "" {
		conf.Projection.Mode = *modeFlag
	}
	if *granularityFlag != "" {
		conf.Projection.Granularity = *granularityFlag
	}
	if *yearFlag > 0 {
		conf.Projection.Year = *yearFlag
	}
	if *referenceFlag != "" {
		conf.Projection.ReferenceDate = *referenceFlag
	}
	if *includeTestFlag {
		conf.Projection.IncludeTest = true
	}

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	reference, err := conf.ReferenceDate(time.Now())
	if err != nil {
		logger.Fatal("failed to resolve reference date",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	sims, err := loadSimulations(context.Background(), logger, conf, *importFlag)
	if err != nil {
		logger.Fatal("failed to load simulations",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	logger.Debug("simulations loaded",
		zap.String("op", "main"),
		zap.Int("count", len(sims)),
	)

	report, err := forecast.BuildReport(logger, *conf, sims, reference)
	if err != nil {
		logger.Fatal("failed to compute report",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range report.Warnings {
		logger.Warn("Data warning: "+warning,
			zap.String("op", "main"),
		)
	}

	switch conf.Output.Format {
	case constants.OutputFormatPretty:
		output.PrettyFormat(report)
	case constants.OutputFormatCSV:
		output.CsvFormat(report)
	}
}
