package record

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists the record as vendor-scoped key/value entries in a
// plain text file, one "key=value" line per entry. The format matches the
// registry-equivalent store the monitored server reads at uninstall.
type FileStore struct {
	// Path is the record file location
	// (default /etc/sentinel/install.record).
	Path string
}

// DefaultRecordPath is the production record location.
const DefaultRecordPath = "/etc/sentinel/install.record"

// NewFileStore creates a file-backed record store at the given path,
// falling back to DefaultRecordPath when empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultRecordPath
	}
	return &FileStore{Path: path}
}

// Load implements the Store interface.
func (s *FileStore) Load() (*InstallationRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open record %q: %w", s.Path, err)
	}
	defer f.Close()

	entries := make(map[string]string, 3)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		entries[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read record %q: %w", s.Path, err)
	}

	return &InstallationRecord{
		InstalledVersion:    entries[keyInstalledVersion],
		InstallPath:         entries[keyInstallPath],
		KeepDataOnUninstall: flagToBool(entries[keyKeepDataOnUninstall]),
	}, nil
}

// Save implements the Store interface. The record is written atomically
// via a temporary file rename so a crash never leaves a half-written
// record.
func (s *FileStore) Save(rec *InstallationRecord) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create record directory: %w", err)
	}

	content := fmt.Sprintf("%s=%s\n%s=%s\n%s=%s\n",
		keyInstalledVersion, rec.InstalledVersion,
		keyInstallPath, rec.InstallPath,
		keyKeepDataOnUninstall, boolToFlag(rec.KeepDataOnUninstall))

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("failed to replace record: %w", err)
	}
	return nil
}

// Delete implements the Store interface.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete record %q: %w", s.Path, err)
	}
	return nil
}
