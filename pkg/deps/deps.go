/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package deps installs the monitored server's runtime dependencies by
// invoking the package manager against its manifest. A missing toolchain
// is fatal; a failed download is downgraded to a warning so the rest of
// the install can proceed and be retried later.
package deps

import (
	"context"
	"log/slog"
	"os/exec"
	"time"

	"github.com/NVIDIA/sentinel-installer/pkg/errors"
)

// Runner executes external commands. Abstracted for testing.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands via os/exec with a bounded timeout.
type ExecRunner struct {
	Timeout time.Duration
}

// Run implements the Runner interface, returning combined output.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	timeout := r.Timeout
	if timeout == 0 {
		timeout = 10 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

// Installer installs dependencies from the manifest directory.
type Installer interface {
	Install(ctx context.Context) error
}

// NPMInstaller drives "npm install" against the manifest's directory.
type NPMInstaller struct {
	// ManifestDir is the directory holding package.json.
	ManifestDir string

	// NPMBinary overrides the npm binary name, for tests.
	NPMBinary string

	Runner Runner
}

// NewNPMInstaller creates an installer for the manifest in dir.
func NewNPMInstaller(dir string) *NPMInstaller {
	return &NPMInstaller{
		ManifestDir: dir,
		NPMBinary:   "npm",
		Runner:      &ExecRunner{},
	}
}

// Install runs the package manager. The toolchain itself missing is
// fatal: nothing downstream can work without it. Any other failure is a
// warning; dependencies can be installed manually and the run re-tried.
func (i *NPMInstaller) Install(ctx context.Context) error {
	binary := i.NPMBinary
	if binary == "" {
		binary = "npm"
	}

	if _, err := exec.LookPath(binary); err != nil {
		return errors.Wrap(errors.ErrCodeStepFatal, "package manager not found on PATH", err)
	}

	slog.Info("installing dependencies", "manifest", i.ManifestDir)

	out, err := i.Runner.Run(ctx, binary, "install", "--omit=dev", "--prefix", i.ManifestDir)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeStepWarning,
			"dependency installation failed; run the package manager manually and re-run the installer",
			err,
			map[string]any{"output": out})
	}

	slog.Debug("dependencies installed", "manifest", i.ManifestDir)
	return nil
}
