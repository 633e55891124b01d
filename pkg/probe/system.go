package probe

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// DiskProber reports free and total bytes on the filesystem that will
// hold the installation. When the install path does not exist yet, the
// nearest existing parent is probed instead.
type DiskProber struct {
	Path string
}

// Name implements the Prober interface.
func (p *DiskProber) Name() string { return "disk" }

// Probe fills the disk section of the report.
func (p *DiskProber) Probe(_ context.Context, r *Report) {
	path := p.Path
	if path == "" {
		path = "/"
	}

	// Walk up until an existing directory is found.
	for {
		if _, err := os.Stat(path); err == nil {
			break
		}
		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}

	var fs unix.Statfs_t
	if err := unix.Statfs(path, &fs); err != nil {
		slog.Warn("could not stat filesystem, reporting unknown", "path", path, "error", err)
		return
	}

	r.Disk = DiskInfo{
		FreeBytes:  fs.Bavail * uint64(fs.Bsize),
		TotalBytes: fs.Blocks * uint64(fs.Bsize),
		Known:      true,
	}
}

// MemoryProber estimates total physical memory from /proc/meminfo.
type MemoryProber struct {
	// MeminfoPath overrides the meminfo location, for tests.
	MeminfoPath string
}

// Name implements the Prober interface.
func (p *MemoryProber) Name() string { return "memory" }

// Probe fills the memory section of the report.
func (p *MemoryProber) Probe(_ context.Context, r *Report) {
	path := p.MeminfoPath
	if path == "" {
		path = "/proc/meminfo"
	}

	f, err := os.Open(path)
	if err != nil {
		slog.Warn("could not read meminfo, reporting unknown", "path", path, "error", err)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// MemTotal:  16384000 kB
		if len(fields) >= 2 && fields[0] == "MemTotal:" {
			kb, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				slog.Warn("malformed MemTotal line", "value", fields[1])
				return
			}
			r.Memory = MemoryInfo{TotalBytes: kb * 1024, Known: true}
			return
		}
	}
	slog.Warn("MemTotal not found in meminfo", "path", path)
}
