/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/sentinel-installer/pkg/errors"
	"github.com/NVIDIA/sentinel-installer/pkg/logging"
)

const (
	name           = "sentinelctl"
	versionDefault = "dev"

	serviceName = "sentinel"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes, stable for scripting around the installer.
const (
	exitOK           = 0
	exitGeneric      = 1
	exitPrivilege    = 2
	exitPrerequisite = 3
	exitStepFatal    = 4
)

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		EnableShellCompletion: true,
		Usage:                 "Install and manage the Sentinel monitoring server",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Description: fmt.Sprintf(`sentinelctl - Sentinel monitoring server installer

Version: %s
Commit:  %s
Built:   %s

Tooling to install, upgrade, and remove a locally hosted Sentinel
monitoring server:

install   - probes the environment, validates prerequisites, collects
            configuration, and executes the ordered setup steps.
uninstall - reverses a prior installation, honoring the recorded data
            retention choice.
status    - reports the installation record, service registration, and
            data store presence without changing anything.`, version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "installer log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Value:   "info",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			installCmd(),
			uninstallCmd(),
			statusCmd(),
		},
	}
}

// Execute runs the CLI. Called by main.main(); exits the process with
// the code derived from the failure classification.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a failure to its exit code: 2 for missing privilege, 3
// for unmet blocking prerequisites, 4 for a failed required step or
// backup, 1 for everything else.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	switch errors.CodeOf(err) {
	case errors.ErrCodePrivilege:
		return exitPrivilege
	case errors.ErrCodePrerequisite:
		return exitPrerequisite
	case errors.ErrCodeStepFatal, errors.ErrCodeBackup:
		return exitStepFatal
	default:
		return exitGeneric
	}
}
