package probe

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSProber(t *testing.T) {
	t.Run("parses release file", func(t *testing.T) {
		path := writeFile(t, "os-release", `
# comment line
NAME="Ubuntu"
ID=ubuntu
VERSION_ID="22.04"
PRETTY_NAME="Ubuntu 22.04.4 LTS"
malformed line without delimiter
`)
		r := &Report{}
		p := &OSProber{ReleasePath: path}
		p.Probe(context.Background(), r)

		assert.True(t, r.OS.Known)
		assert.Equal(t, "ubuntu", r.OS.ID)
		assert.Equal(t, "22.04", r.OS.VersionID)
		assert.Equal(t, "Ubuntu 22.04.4 LTS", r.OS.PrettyName)
	})

	t.Run("missing file reports unknown", func(t *testing.T) {
		r := &Report{}
		p := &OSProber{ReleasePath: filepath.Join(t.TempDir(), "nope")}
		p.Probe(context.Background(), r)

		assert.False(t, r.OS.Known)
		assert.Empty(t, r.OS.ID)
	})
}

func TestToolchainProber(t *testing.T) {
	t.Run("missing binary reports not found", func(t *testing.T) {
		r := &Report{}
		p := &ToolchainProber{Binary: "definitely-not-a-real-binary-xyz"}
		p.Probe(context.Background(), r)

		assert.False(t, r.Toolchain.Found)
		assert.Empty(t, r.Toolchain.Path)
	})

	t.Run("finds binary on path", func(t *testing.T) {
		// sh is present on any host these tests run on
		r := &Report{}
		p := &ToolchainProber{Binary: "sh"}
		p.Probe(context.Background(), r)

		assert.True(t, r.Toolchain.Found)
		assert.NotEmpty(t, r.Toolchain.Path)
	})
}

func TestDiskProber(t *testing.T) {
	t.Run("existing path", func(t *testing.T) {
		r := &Report{}
		p := &DiskProber{Path: t.TempDir()}
		p.Probe(context.Background(), r)

		assert.True(t, r.Disk.Known)
		assert.Greater(t, r.Disk.TotalBytes, uint64(0))
	})

	t.Run("walks to existing parent", func(t *testing.T) {
		r := &Report{}
		p := &DiskProber{Path: filepath.Join(t.TempDir(), "not", "yet", "created")}
		p.Probe(context.Background(), r)

		assert.True(t, r.Disk.Known)
	})
}

func TestMemoryProber(t *testing.T) {
	t.Run("parses meminfo", func(t *testing.T) {
		path := writeFile(t, "meminfo", "MemTotal:       16384000 kB\nMemFree:         1024000 kB\n")
		r := &Report{}
		p := &MemoryProber{MeminfoPath: path}
		p.Probe(context.Background(), r)

		assert.True(t, r.Memory.Known)
		assert.Equal(t, uint64(16384000*1024), r.Memory.TotalBytes)
	})

	t.Run("malformed meminfo reports unknown", func(t *testing.T) {
		path := writeFile(t, "meminfo", "MemTotal:       lots kB\n")
		r := &Report{}
		p := &MemoryProber{MeminfoPath: path}
		p.Probe(context.Background(), r)

		assert.False(t, r.Memory.Known)
	})
}

func TestPortProber(t *testing.T) {
	t.Run("free port", func(t *testing.T) {
		r := &Report{}
		p := &PortProber{Host: "127.0.0.1", Port: freePort(t)}
		p.Probe(context.Background(), r)

		assert.True(t, r.Port.Known)
		assert.False(t, r.Port.InUse)
	})

	t.Run("port in use", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()

		port := ln.Addr().(*net.TCPAddr).Port
		r := &Report{}
		p := &PortProber{Host: "127.0.0.1", Port: port}
		p.Probe(context.Background(), r)

		assert.True(t, r.Port.Known)
		assert.True(t, r.Port.InUse)
	})
}

func TestRun(t *testing.T) {
	f := NewDefaultFactory(
		WithToolchainBinary("definitely-not-a-real-binary-xyz"),
		WithInstallPath(t.TempDir()),
		WithListenAddress("127.0.0.1", freePort(t)),
		WithServiceName(""),
	)

	r := Run(context.Background(), f)
	require.NotNil(t, r)

	// Unreadable or absent metrics must never abort the probe; the
	// report is simply partial.
	assert.False(t, r.Toolchain.Found)
	assert.True(t, r.Disk.Known)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
