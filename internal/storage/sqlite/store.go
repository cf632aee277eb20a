// Package sqlite is the default local store, a single database file driven
// by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	apperrors "github.com/julianstephens/onboard/internal/errors"
	"github.com/julianstephens/onboard/internal/logger"
	"github.com/julianstephens/onboard/internal/migration"
	"github.com/julianstephens/onboard/migrations"
)

// ErrNotInitialized is returned by Load when the database file is missing.
var ErrNotInitialized = apperrors.WithHint(errors.New("database not initialized"), "run 'onboard init' first")

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init creates the database file if needed and applies pending migrations.
func (s *Store) Init(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	runner, err := migration.NewRunner(s.db, migrations.SQLite(), migration.DriverSQLite)
	if err != nil {
		return err
	}
	if _, err := runner.Apply(ctx, func(msg string) { logger.Debug(msg, "db", s.path) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Load opens an existing database and checks that its schema is current.
func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return ErrNotInitialized
	}
	if err := s.open(); err != nil {
		return err
	}

	runner, err := migration.NewRunner(s.db, migrations.SQLite(), migration.DriverSQLite)
	if err != nil {
		return err
	}
	current, err := runner.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return err
	}
	if current < latest {
		logger.Info("Upgrading database schema", "from", current, "to", latest)
		if _, err := runner.Apply(ctx, nil); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	}
	return runner.ValidateVersion(ctx)
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serialises writers, which sqlite requires anyway.
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying connection, nil before Init or Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func (s *Store) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not loaded")
	}
	return s.db, nil
}
