/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package store initializes the monitored server's persisted SQLite
// store. Initialization is idempotent: re-running against a healthy
// store is a no-op, while a corrupt store is a fatal finding since the
// server cannot safely start on it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/NVIDIA/sentinel-installer/pkg/errors"
)

// Initializer is the capability interface for persisted-store setup.
type Initializer interface {
	Init(ctx context.Context) error
}

// schema is the monitored server's baseline schema. CREATE TABLE IF NOT
// EXISTS keeps re-runs idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS schema_info (
		version    INTEGER NOT NULL,
		applied_at TEXT    NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE IF NOT EXISTS metrics (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		host       TEXT    NOT NULL,
		name       TEXT    NOT NULL,
		value      REAL    NOT NULL,
		created_at TEXT    NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_metrics_host_name ON metrics(host, name)`,
	`CREATE TABLE IF NOT EXISTS checks (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		host       TEXT    NOT NULL,
		status     TEXT    NOT NULL,
		detail     TEXT,
		created_at TEXT    NOT NULL DEFAULT (datetime('now'))
	)`,
}

// SQLiteStore initializes a SQLite data store on disk.
type SQLiteStore struct {
	// Path is the database file location.
	Path string
}

// NewSQLiteStore creates an initializer for the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{Path: path}
}

// Init creates the database directory and schema. When the database file
// already exists, an integrity check runs first; failure is classified as
// a fatal step error because continuing would risk silent data loss.
func (s *SQLiteStore) Init(ctx context.Context) error {
	existed := false
	if _, err := os.Stat(s.Path); err == nil {
		existed = true
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeStepFatal, "failed to create data directory", err)
	}

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStepFatal, "failed to open data store", err)
	}
	defer db.Close()

	if existed {
		if err := s.verify(ctx, db); err != nil {
			return err
		}
		slog.Info("data store already initialized", "path", s.Path)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.WrapWithContext(errors.ErrCodeStepFatal,
				"failed to apply data store schema", err,
				map[string]any{"path": s.Path})
		}
	}

	if !existed {
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_info (version) VALUES (1)`); err != nil {
			return errors.Wrap(errors.ErrCodeStepFatal, "failed to stamp schema version", err)
		}
		slog.Info("data store initialized", "path", s.Path)
	}

	return nil
}

func (s *SQLiteStore) verify(ctx context.Context, db *sql.DB) error {
	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return errors.WrapWithContext(errors.ErrCodeStepFatal,
			"data store is corrupt", err,
			map[string]any{"path": s.Path})
	}
	if result != "ok" {
		return errors.Newf(errors.ErrCodeStepFatal,
			"data store integrity check failed: %s", result)
	}
	return nil
}

// String describes the store for logs and summaries.
func (s *SQLiteStore) String() string {
	return fmt.Sprintf("sqlite:%s", s.Path)
}
