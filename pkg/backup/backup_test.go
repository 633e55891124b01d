package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup(t *testing.T) {
	t.Run("missing source is a no-op", func(t *testing.T) {
		m := New(t.TempDir())
		rec, err := m.Backup(filepath.Join(t.TempDir(), "absent.db"))
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("creates timestamped copy", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "sentinel.db")
		require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

		m := New("")
		m.Now = func() time.Time { return time.Date(2026, 8, 29, 10, 15, 1, 0, time.UTC) }

		rec, err := m.Backup(src)
		require.NoError(t, err)
		require.NotNil(t, rec)

		assert.Equal(t, src, rec.SourcePath)
		assert.Equal(t, filepath.Join(dir, "backups", "sentinel.db.backup.20260829-101501"), rec.BackupPath)

		data, err := os.ReadFile(rec.BackupPath)
		require.NoError(t, err)
		assert.Equal(t, "data", string(data))
	})

	t.Run("same-second backups never overwrite", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "sentinel.db")
		require.NoError(t, os.WriteFile(src, []byte("first"), 0o644))

		m := New(filepath.Join(dir, "backups"))
		frozen := time.Date(2026, 8, 29, 10, 15, 1, 0, time.UTC)
		m.Now = func() time.Time { return frozen }

		rec1, err := m.Backup(src)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(src, []byte("second"), 0o644))
		rec2, err := m.Backup(src)
		require.NoError(t, err)

		require.NotEqual(t, rec1.BackupPath, rec2.BackupPath)
		assert.Equal(t, rec1.BackupPath+".1", rec2.BackupPath)

		// First backup content is intact.
		data, err := os.ReadFile(rec1.BackupPath)
		require.NoError(t, err)
		assert.Equal(t, "first", string(data))

		data, err = os.ReadFile(rec2.BackupPath)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})

	t.Run("ordinal suffix increments deterministically", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "sentinel.db")
		require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

		m := New(filepath.Join(dir, "backups"))
		m.Now = func() time.Time { return time.Date(2026, 8, 29, 10, 15, 1, 0, time.UTC) }

		var paths []string
		for i := 0; i < 4; i++ {
			rec, err := m.Backup(src)
			require.NoError(t, err)
			paths = append(paths, rec.BackupPath)
		}

		base := filepath.Join(dir, "backups", "sentinel.db.backup.20260829-101501")
		want := []string{base, base + ".1", base + ".2", base + ".3"}
		assert.Equal(t, want, paths)
	})

	t.Run("unwritable backup directory fails", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission checks do not apply to root")
		}
		dir := t.TempDir()
		src := filepath.Join(dir, "sentinel.db")
		require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

		locked := filepath.Join(dir, "locked")
		require.NoError(t, os.MkdirAll(locked, 0o555))

		m := New(filepath.Join(locked, "backups"))
		_, err := m.Backup(src)
		assert.Error(t, err)
	})
}

func TestBackupManyFiles(t *testing.T) {
	// Distinct sources in one directory share the backup dir without
	// interfering.
	dir := t.TempDir()
	m := New(filepath.Join(dir, "backups"))
	m.Now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }

	for i := 0; i < 3; i++ {
		src := filepath.Join(dir, fmt.Sprintf("file%d.db", i))
		require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
		rec, err := m.Backup(src)
		require.NoError(t, err)
		assert.Contains(t, rec.BackupPath, fmt.Sprintf("file%d.db.backup.", i))
	}
}
