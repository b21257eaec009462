package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iwvelando/revenue-forecast/pkg/model"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore keeps simulations as JSON documents in a SQLite table.
type SQLiteStore struct {
	logger *zap.Logger
	db     *sql.DB
	mu     sync.RWMutex
}

// NewSQLiteStore opens (and migrates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(logger *zap.Logger, dbPath string) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database only lives as long as its single connection.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{logger: logger, db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS simulations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		is_test INTEGER NOT NULL DEFAULT 0,
		data_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_simulations_name ON simulations(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// List returns every simulation ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Simulation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, data_json FROM simulations ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sims []model.Simulation
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		sim, err := model.DecodeSimulationJSON([]byte(data))
		if err != nil {
			s.logger.Warn("skipping unreadable simulation row",
				zap.String("op", "store.SQLiteStore.List"),
				zap.String("id", id),
				zap.Error(err),
			)
			continue
		}
		sims = append(sims, sim)
	}
	return sims, rows.Err()
}

// Get retrieves a simulation by ID.
func (s *SQLiteStore) Get(ctx context.Context, id model.ID) (model.Simulation, error) {
	if err := checkID(id); err != nil {
		return model.Simulation{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data_json FROM simulations WHERE id = ?", string(id)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Simulation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Simulation{}, err
	}
	return model.DecodeSimulationJSON([]byte(data))
}

// Save inserts or replaces a simulation.
func (s *SQLiteStore) Save(ctx context.Context, sim model.Simulation) error {
	if err := checkID(sim.ID); err != nil {
		return err
	}

	data, err := json.Marshal(sim)
	if err != nil {
		return fmt.Errorf("failed to encode simulation %s: %w", sim.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO simulations (id, name, is_test, data_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			is_test = excluded.is_test,
			data_json = excluded.data_json,
			updated_at = excluded.updated_at
	`, string(sim.ID), sim.Name, bool(sim.IsTest), string(data), now, now)
	if err != nil {
		return fmt.Errorf("failed to store simulation %s: %w", sim.ID, err)
	}

	s.logger.Debug("simulation saved",
		zap.String("op", "store.SQLiteStore.Save"),
		zap.String("id", string(sim.ID)),
	)
	return nil
}

// Delete removes a simulation.
func (s *SQLiteStore) Delete(ctx context.Context, id model.ID) error {
	if err := checkID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM simulations WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("failed to delete simulation %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
