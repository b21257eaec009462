// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/revenue-forecast/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateMode checks if the calculation mode is supported.
func ValidateMode(mode string) error {
	if mode != constants.ModeDistributed && mode != constants.ModeActual {
		return fmt.Errorf("expected mode of %s or %s, got %s",
			constants.ModeDistributed, constants.ModeActual, mode)
	}
	return nil
}

// ValidateGranularity checks if the report granularity is supported.
func ValidateGranularity(granularity string) error {
	switch granularity {
	case constants.GranularityMonth, constants.GranularityQuarter,
		constants.GranularityYear, constants.GranularityProjection:
		return nil
	}
	return fmt.Errorf("expected granularity of %s, %s, %s or %s, got %s",
		constants.GranularityMonth, constants.GranularityQuarter,
		constants.GranularityYear, constants.GranularityProjection, granularity)
}

// ValidateStorageBackend checks if the storage backend is supported.
func ValidateStorageBackend(backend string) error {
	if backend != constants.StorageBackendFile && backend != constants.StorageBackendSQLite {
		return fmt.Errorf("expected storage backend of %s or %s, got %s",
			constants.StorageBackendFile, constants.StorageBackendSQLite, backend)
	}
	return nil
}
