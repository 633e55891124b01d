package record

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "etc", "install.record"))

	// No record yet: nil, nil.
	rec, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, rec)

	want := &InstallationRecord{
		InstalledVersion:    "1.0.0",
		InstallPath:         "/opt/sentinel",
		KeepDataOnUninstall: true,
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, got)

	// Update on upgrade.
	want.InstalledVersion = "1.1.0"
	require.NoError(t, store.Save(want))
	got, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", got.InstalledVersion)

	// Delete, then delete again (no-op).
	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete())
	rec, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFileStoreFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "install.record")
	store := NewFileStore(path)
	require.NoError(t, store.Save(&InstallationRecord{
		InstalledVersion: "2.0.0",
		InstallPath:      "/opt/sentinel",
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Vendor-scoped key/value entries, one per line, keepData as "0"|"1".
	assert.Equal(t, "installedVersion=2.0.0\ninstallPath=/opt/sentinel\nkeepDataOnUninstall=0\n", string(data))
}

func TestFileStoreTolerantLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "install.record")
	require.NoError(t, os.WriteFile(path, []byte(`
# written by an older installer
installedVersion = 0.9.0
garbage line
installPath=/srv/sentinel
keepDataOnUninstall=1
`), 0o644))

	got, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "0.9.0", got.InstalledVersion)
	assert.Equal(t, "/srv/sentinel", got.InstallPath)
	assert.True(t, got.KeepDataOnUninstall)
}

func TestMemoryStore(t *testing.T) {
	store := &MemoryStore{}

	rec, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, store.Save(&InstallationRecord{InstalledVersion: "1.0.0"}))
	rec, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", rec.InstalledVersion)

	// Load returns a copy, not a live pointer.
	rec.InstalledVersion = "mutated"
	rec2, _ := store.Load()
	assert.Equal(t, "1.0.0", rec2.InstalledVersion)

	require.NoError(t, store.Delete())
	rec, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, rec)
}
