/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/sentinel-installer/pkg/auditlog"
	"github.com/NVIDIA/sentinel-installer/pkg/backup"
	"github.com/NVIDIA/sentinel-installer/pkg/config"
	"github.com/NVIDIA/sentinel-installer/pkg/deps"
	"github.com/NVIDIA/sentinel-installer/pkg/errors"
	"github.com/NVIDIA/sentinel-installer/pkg/firewall"
	"github.com/NVIDIA/sentinel-installer/pkg/installer"
	"github.com/NVIDIA/sentinel-installer/pkg/probe"
	"github.com/NVIDIA/sentinel-installer/pkg/record"
	"github.com/NVIDIA/sentinel-installer/pkg/requirement"
	"github.com/NVIDIA/sentinel-installer/pkg/scripts"
	"github.com/NVIDIA/sentinel-installer/pkg/serializer"
	"github.com/NVIDIA/sentinel-installer/pkg/service"
	"github.com/NVIDIA/sentinel-installer/pkg/store"
)

func installCmd() *cli.Command {
	return &cli.Command{
		Name:                  "install",
		EnableShellCompletion: true,
		Usage:                 "Install or upgrade the Sentinel monitoring server",
		Description: `Install or upgrade the Sentinel monitoring server on this machine.

The run proceeds in ordered phases:
  1. Probe the environment (OS release, Node.js toolchain, free disk,
     memory, listen port, prior service registration). Probing is
     read-only and tolerates unreadable metrics.
  2. Validate prerequisites. Blocking findings (toolchain, OS release,
     free disk) abort the run unless --override-prereqs is set;
     advisory findings (memory, port in use) only warn.
  3. Resolve the install mode from the installation record: Fresh when
     no record exists, Reinstall when the recorded version matches,
     Upgrade otherwise.
  4. Back up prior data. Upgrades always back up and abort if the
     backup fails; reinstalls back up unless --backup-on-reinstall is
     disabled.
  5. Execute the setup steps in order: dependency installation, data
     store initialization, firewall rule, service registration, helper
     script generation. Optional step failures warn and continue;
     required step failures abort.

Every phase and step result is appended to the installation log as it
happens, so an interrupted run leaves a usable trail.

# Examples

Basic install with defaults (port 5002, /opt/sentinel):
  sentinelctl install

Install with service registration and firewall rule (needs elevation):
  sudo sentinelctl install --install-service --configure-firewall

Upgrade an existing installation, replacing the service entry:
  sudo sentinelctl install --install-service --force

Install from a configuration file, flags winning on overlap:
  sentinelctl install --config sentinel.yaml --port 6000

# Exit Codes

  0  success (warnings allowed)
  1  invalid configuration or internal failure
  2  elevation required
  3  blocking prerequisite not met
  4  required step or pre-upgrade backup failed`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file; explicit flags take precedence",
			},
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port for the monitored server (1-65535)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host for the monitored server",
			},
			&cli.StringFlag{
				Name:  "server-log-level",
				Usage: "Monitored server log level (debug, info, warning, error)",
			},
			&cli.StringFlag{
				Name:  "max-log-size",
				Usage: "Monitored server log size cap in MB",
			},
			&cli.StringFlag{
				Name:  "install-path",
				Usage: "Installation directory",
			},
			&cli.BoolFlag{
				Name:  "install-service",
				Usage: "Register the server as a background service",
			},
			&cli.BoolFlag{
				Name:  "configure-firewall",
				Usage: "Open the listen port in the host firewall",
			},
			&cli.BoolFlag{
				Name:  "skip-dependencies",
				Usage: "Skip runtime dependency installation",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Replace an existing service registration",
			},
			&cli.BoolFlag{
				Name:  "override-prereqs",
				Usage: "Proceed past blocking prerequisite findings",
			},
			&cli.BoolFlag{
				Name:  "backup-on-reinstall",
				Usage: "Back up data before a same-version reinstall",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "keep-data",
				Usage: "Record that a later uninstall should keep the data store",
			},
			&cli.StringFlag{
				Name:  "service-wrapper-url",
				Usage: "Service wrapper helper download URL (platforms that need one)",
			},
			&cli.StringFlag{
				Name:  "data-file",
				Usage: "Data store location (default: <install-path>/data/sentinel.db)",
			},
			&cli.StringFlag{
				Name:  "backup-dir",
				Usage: "Backup directory (default: backups/ next to the data file)",
			},
			recordPathFlag,
			auditLogFlag,
			outputFlag,
			formatFlag,
		},
		Action: runInstall,
	}
}

func runInstall(ctx context.Context, cmd *cli.Command) error {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return fmt.Errorf("unknown output format: %q", outFormat)
	}

	cfg, err := collectConfig(cmd)
	if err != nil {
		return err
	}

	dataFile := cmd.String("data-file")
	if dataFile == "" {
		dataFile = filepath.Join(cfg.InstallPath, "data", "sentinel.db")
	}

	inst, err := newInstaller(cfg, dataFile, cmd)
	if err != nil {
		return err
	}

	report, runErr := inst.Run(ctx, cfg)

	ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close output writer", "error", err)
		}
	}()

	// The report serializes even for aborted runs; the abort reason and
	// exit code travel on the returned error.
	if err := ser.Serialize(report); err != nil {
		return fmt.Errorf("failed to serialize run report: %w", err)
	}

	return runErr
}

// collectConfig merges config file values under explicit flags and
// validates the result.
func collectConfig(cmd *cli.Command) (*config.Config, error) {
	in := config.Input{
		Port:                cmd.String("port"),
		Host:                cmd.String("host"),
		LogLevel:            cmd.String("server-log-level"),
		MaxLogSizeMB:        cmd.String("max-log-size"),
		InstallPath:         cmd.String("install-path"),
		InstallService:      boolIfSet(cmd, "install-service"),
		ConfigureFirewall:   boolIfSet(cmd, "configure-firewall"),
		SkipDependencies:    boolIfSet(cmd, "skip-dependencies"),
		Force:               boolIfSet(cmd, "force"),
		OverridePrereqs:     boolIfSet(cmd, "override-prereqs"),
		BackupOnReinstall:   boolIfSet(cmd, "backup-on-reinstall"),
		KeepDataOnUninstall: boolIfSet(cmd, "keep-data"),
		ServiceWrapperURL:   cmd.String("service-wrapper-url"),
	}

	if path := cmd.String("config"); path != "" {
		fromFile, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		in = config.Overlay(*fromFile, in)
	}

	cfg, err := config.Collect(config.Defaults(), in)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, "invalid configuration", err)
	}
	return cfg, nil
}

// newInstaller wires the production effectors for one run.
func newInstaller(cfg *config.Config, dataFile string, cmd *cli.Command) (*installer.Installer, error) {
	inst := &installer.Installer{
		CandidateVersion: version,
		ServiceName:      serviceName,
		DataFile:         dataFile,
		Records:          record.NewFileStore(cmd.String("record-path")),
		Validator:        requirement.New(),
		Backups:          backup.New(cmd.String("backup-dir")),
		Audit:            auditlog.New(cmd.String("audit-log")),
		Deps:             deps.NewNPMInstaller(cfg.InstallPath),
		Store:            store.NewSQLiteStore(dataFile),
		Scripts:          &scripts.FileGenerator{},
	}

	inst.ProbeFactory = probe.NewDefaultFactory(
		probe.WithInstallPath(cfg.InstallPath),
		probe.WithListenAddress(cfg.Host, cfg.Port),
		probe.WithServiceName(serviceName),
	)

	// The toolchain path doubles as the service entrypoint; probing
	// resolves the real location at run time, "node" is the PATH
	// fallback.
	inst.Toolchain = "node"

	if cfg.ConfigureFirewall {
		table, err := firewall.NewIPTables()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStepFatal,
				"firewall configuration requested but iptables is unavailable", err)
		}
		inst.Firewall = table
	}

	manager := service.NewManager(&service.KardianosSupervisor{})
	if cfg.ServiceWrapperURL != "" {
		manager.Wrapper = service.NewWrapperCache(cfg.ServiceWrapperURL, "/var/cache/sentinel")
	}
	inst.Services = manager

	return inst, nil
}
