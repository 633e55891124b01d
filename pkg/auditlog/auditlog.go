/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package auditlog maintains the append-only installation log: one
// timestamped line per entry, written under an exclusive file lock so a
// single writer is guaranteed while other processes tail the file.
package auditlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// entry timestamp layout: "YYYY-MM-DD HH:MM:SS".
const stampLayout = "2006-01-02 15:04:05"

// Log appends entries to a line-oriented audit file. Each Append opens,
// writes one line, and closes, so a crash mid-run leaves a usable trail.
// There is no rotation; MaxSizeMB is advisory metadata for external
// viewers only.
type Log struct {
	Path      string
	MaxSizeMB int

	// Now is the clock, overridable for tests.
	Now func() time.Time

	lock *flock.Flock
}

// New creates a Log writing to path.
func New(path string) *Log {
	return &Log{
		Path: path,
		Now:  time.Now,
		lock: flock.New(path + ".lock"),
	}
}

// Append writes one entry in the form "YYYY-MM-DD HH:MM:SS - <message>".
// The write happens under an exclusive advisory lock; readers are not
// blocked.
func (l *Log) Append(message string) error {
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	if err := l.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock log %q: %w", l.Path, err)
	}
	defer func() { _ = l.lock.Unlock() }()

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log %q: %w", l.Path, err)
	}

	line := fmt.Sprintf("%s - %s\n", l.Now().Format(stampLayout), message)
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append to log %q: %w", l.Path, err)
	}
	return f.Close()
}

// Appendf formats and appends one entry.
func (l *Log) Appendf(format string, args ...any) error {
	return l.Append(fmt.Sprintf(format, args...))
}
