package scripts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	g := &FileGenerator{}

	written, err := g.Generate(Params{
		InstallPath: dir,
		ServiceName: "sentinel",
		Host:        "0.0.0.0",
		Port:        5002,
	})
	require.NoError(t, err)
	require.Len(t, written, 3)

	for _, path := range written {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm(), "%s must be executable", path)
		assert.Equal(t, filepath.Join(dir, "bin"), filepath.Dir(path))
	}

	start, err := os.ReadFile(filepath.Join(dir, "bin", "sentinel-start.sh"))
	require.NoError(t, err)
	assert.Contains(t, string(start), "--host 0.0.0.0 --port 5002")
	assert.True(t, strings.HasPrefix(string(start), "#!/bin/sh"))

	stop, err := os.ReadFile(filepath.Join(dir, "bin", "sentinel-stop.sh"))
	require.NoError(t, err)
	assert.Contains(t, string(stop), `systemctl stop "sentinel"`)
}

func TestGenerateIdempotent(t *testing.T) {
	dir := t.TempDir()
	g := &FileGenerator{}
	params := Params{InstallPath: dir, ServiceName: "sentinel", Host: "0.0.0.0", Port: 5002}

	_, err := g.Generate(params)
	require.NoError(t, err)

	// Re-running overwrites in place with the same content.
	params.Port = 8080
	_, err = g.Generate(params)
	require.NoError(t, err)

	start, err := os.ReadFile(filepath.Join(dir, "bin", "sentinel-start.sh"))
	require.NoError(t, err)
	assert.Contains(t, string(start), "--port 8080")
}
