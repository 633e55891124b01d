package probe

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// ToolchainProber locates the runtime toolchain binary on PATH and reads
// its version.
type ToolchainProber struct {
	Binary string

	// Timeout bounds the version query subprocess.
	Timeout time.Duration
}

// Name implements the Prober interface.
func (p *ToolchainProber) Name() string { return "toolchain" }

// Probe looks up the binary and queries "--version". A missing binary or
// failed query leaves the corresponding fields unset.
func (p *ToolchainProber) Probe(ctx context.Context, r *Report) {
	binary := p.Binary
	if binary == "" {
		binary = "node"
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		slog.Warn("toolchain not found on PATH", "binary", binary)
		return
	}
	r.Toolchain.Path = path
	r.Toolchain.Found = true

	timeout := p.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		slog.Warn("could not query toolchain version", "path", path, "error", err)
		return
	}
	r.Toolchain.Version = strings.TrimSpace(string(out))
}
