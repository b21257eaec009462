package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/iwvelando/revenue-forecast/pkg/model"
	"go.uber.org/zap"
)

const (
	filePrefix = "sim_"
	fileSuffix = ".json"
)

// FileStore keeps one JSON document per simulation, named sim_<id>.json,
// inside a data directory.
type FileStore struct {
	logger *zap.Logger
	dir    string
	mu     sync.RWMutex
}

// NewFileStore creates the data directory if needed.
func NewFileStore(logger *zap.Logger, dir string) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{logger: logger, dir: dir}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(id model.ID) string {
	return filepath.Join(s.dir, filePrefix+string(id)+fileSuffix)
}

// List loads every simulation file, ordered by name. Files that cannot be
// decoded are skipped with a warning.
func (s *FileStore) List(ctx context.Context) ([]model.Simulation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var sims []model.Simulation
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		sim, err := model.DecodeSimulationJSON(data)
		if err != nil {
			s.logger.Warn("skipping unreadable simulation file",
				zap.String("op", "store.FileStore.List"),
				zap.String("file", name),
				zap.Error(err),
			)
			continue
		}
		sims = append(sims, sim)
	}

	sort.SliceStable(sims, func(i, j int) bool {
		if sims[i].Name != sims[j].Name {
			return sims[i].Name < sims[j].Name
		}
		return sims[i].ID < sims[j].ID
	})
	return sims, nil
}

// Get loads a single simulation.
func (s *FileStore) Get(_ context.Context, id model.ID) (model.Simulation, error) {
	if err := checkID(id); err != nil {
		return model.Simulation{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Simulation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return model.Simulation{}, fmt.Errorf("failed to read simulation %s: %w", id, err)
	}
	return model.DecodeSimulationJSON(data)
}

// Save writes a simulation, replacing any previous version.
func (s *FileStore) Save(_ context.Context, sim model.Simulation) error {
	if err := checkID(sim.ID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sim, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode simulation %s: %w", sim.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, filePrefix+"*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write simulation %s: %w", sim.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write simulation %s: %w", sim.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(sim.ID)); err != nil {
		return fmt.Errorf("failed to store simulation %s: %w", sim.ID, err)
	}

	s.logger.Debug("simulation saved",
		zap.String("op", "store.FileStore.Save"),
		zap.String("id", string(sim.ID)),
	)
	return nil
}

// Delete removes a simulation.
func (s *FileStore) Delete(_ context.Context, id model.ID) error {
	if err := checkID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete simulation %s: %w", id, err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}
