/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package backup snapshots the monitored server's mutable data before any
// destructive upgrade step. Backups are timestamped, never overwrite one
// another, and live in a dedicated backups/ subdirectory next to the
// data file.
package backup

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// timestamp layout for backup names, second resolution.
const stampLayout = "20060102-150405"

// Record describes one completed backup. Immutable once written.
type Record struct {
	SourcePath string    `json:"sourcePath" yaml:"sourcePath"`
	BackupPath string    `json:"backupPath" yaml:"backupPath"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// Manager creates backups of the data file.
type Manager struct {
	// Dir is the backup directory. When empty, a backups/ subdirectory
	// next to the source file is used.
	Dir string

	// Now is the clock, overridable for tests.
	Now func() time.Time
}

// New creates a Manager writing into dir (or the per-source default when
// dir is empty).
func New(dir string) *Manager {
	return &Manager{Dir: dir, Now: time.Now}
}

// Backup snapshots the data file. A missing source file is a no-op, not
// an error: there is nothing to protect. The backup name is
// <base>.backup.<YYYYMMDD-HHMMSS>; when a backup with the same timestamp
// already exists, an ordinal suffix disambiguates deterministically
// rather than silently overwriting.
func (m *Manager) Backup(sourcePath string) (*Record, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		if os.IsNotExist(err) {
			slog.Info("no prior data to back up", "path", sourcePath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat data file %q: %w", sourcePath, err)
	}

	dir := m.Dir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(sourcePath), "backups")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %q: %w", dir, err)
	}

	now := m.Now()
	base := fmt.Sprintf("%s.backup.%s", filepath.Base(sourcePath), now.Format(stampLayout))

	target, err := reserveName(dir, base)
	if err != nil {
		return nil, err
	}

	if err := copyFile(sourcePath, target); err != nil {
		return nil, fmt.Errorf("failed to copy %q to %q: %w", sourcePath, target, err)
	}

	slog.Info("backed up prior data", "source", sourcePath, "backup", target)

	return &Record{
		SourcePath: sourcePath,
		BackupPath: target,
		Timestamp:  now,
	}, nil
}

// reserveName returns the first free path for base within dir, trying
// base, then base.1, base.2, and so on. Creation is exclusive so two
// backups taken within the same second get distinct files.
func reserveName(dir, base string) (string, error) {
	for n := 0; n < 1000; n++ {
		candidate := filepath.Join(dir, base)
		if n > 0 {
			candidate = fmt.Sprintf("%s.%d", candidate, n)
		}
		f, err := os.OpenFile(candidate, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_ = f.Close()
			return candidate, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("failed to reserve backup file %q: %w", candidate, err)
		}
	}
	return "", fmt.Errorf("too many backups named %q in %q", base, dir)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
