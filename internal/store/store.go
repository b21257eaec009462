// Package store persists simulations. The projection engine never touches a
// store; callers load simulations and hand them over.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/revenue-forecast/internal/config"
	"github.com/iwvelando/revenue-forecast/pkg/constants"
	"github.com/iwvelando/revenue-forecast/pkg/model"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a simulation does not exist.
var ErrNotFound = errors.New("simulation not found")

// ErrInvalidID is returned for identifiers that cannot be stored.
var ErrInvalidID = errors.New("invalid simulation id")

// Store reads and writes simulations.
type Store interface {
	List(ctx context.Context) ([]model.Simulation, error)
	Get(ctx context.Context, id model.ID) (model.Simulation, error)
	Save(ctx context.Context, sim model.Simulation) error
	Delete(ctx context.Context, id model.ID) error
	Close() error
}

// Open creates the store selected by the storage configuration.
func Open(logger *zap.Logger, conf config.StorageConfig) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch conf.Backend {
	case "", constants.StorageBackendFile:
		dir := conf.DataDir
		if dir == "" {
			dir = constants.DefaultDataDir
		}
		logger.Debug("opening file store",
			zap.String("op", "store.Open"),
			zap.String("dir", dir),
		)
		return NewFileStore(logger, dir)
	case constants.StorageBackendSQLite:
		path := conf.SQLitePath
		if path == "" {
			path = constants.DefaultSQLitePath
		}
		logger.Debug("opening sqlite store",
			zap.String("op", "store.Open"),
			zap.String("path", path),
		)
		return NewSQLiteStore(logger, path)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", conf.Backend)
	}
}

func checkID(id model.ID) error {
	s := string(id)
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return nil
}
