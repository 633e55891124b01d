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
	"github.com/NVIDIA/sentinel-installer/pkg/firewall"
	"github.com/NVIDIA/sentinel-installer/pkg/installer"
	"github.com/NVIDIA/sentinel-installer/pkg/record"
	"github.com/NVIDIA/sentinel-installer/pkg/serializer"
	"github.com/NVIDIA/sentinel-installer/pkg/service"
)

func uninstallCmd() *cli.Command {
	return &cli.Command{
		Name:                  "uninstall",
		EnableShellCompletion: true,
		Usage:                 "Remove a previously installed Sentinel server",
		Description: `Remove a previously installed Sentinel monitoring server.

Reads the installation record, unregisters the background service,
removes the firewall rule, and deletes the record. The data store is
kept or removed according to the choice recorded at install time; a
machine without an installation record is left untouched.

# Examples

Standard uninstall:
  sudo sentinelctl uninstall

Uninstall when the server was installed on a non-default port:
  sudo sentinelctl uninstall --port 6000`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port whose firewall rule should be removed",
				Value:   5002,
			},
			&cli.StringFlag{
				Name:  "data-file",
				Usage: "Data store location (default: <recorded install path>/data/sentinel.db)",
			},
			recordPathFlag,
			auditLogFlag,
			outputFlag,
			formatFlag,
		},
		Action: runUninstall,
	}
}

func runUninstall(ctx context.Context, cmd *cli.Command) error {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return fmt.Errorf("unknown output format: %q", outFormat)
	}

	records := record.NewFileStore(cmd.String("record-path"))

	inst := &installer.Installer{
		ServiceName: serviceName,
		Records:     records,
		Audit:       auditlog.New(cmd.String("audit-log")),
		DataFile:    cmd.String("data-file"),
		Services:    service.NewManager(&service.KardianosSupervisor{}),
	}

	rec, err := records.Load()
	if err != nil {
		return fmt.Errorf("failed to read installation record: %w", err)
	}
	if inst.DataFile == "" && rec != nil && rec.InstallPath != "" {
		inst.DataFile = filepath.Join(rec.InstallPath, "data", "sentinel.db")
	}

	// Firewall removal is best-effort; a host without iptables simply
	// has no rule to remove.
	if table, err := firewall.NewIPTables(); err == nil {
		inst.Firewall = table
	} else {
		slog.Debug("iptables unavailable, skipping rule removal", "error", err)
	}

	report, runErr := inst.Uninstall(ctx, int(cmd.Int("port")))

	ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close output writer", "error", err)
		}
	}()
	if err := ser.Serialize(report); err != nil {
		return fmt.Errorf("failed to serialize uninstall report: %w", err)
	}

	return runErr
}
