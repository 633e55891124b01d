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

	"github.com/NVIDIA/sentinel-installer/pkg/installer"
	"github.com/NVIDIA/sentinel-installer/pkg/record"
	"github.com/NVIDIA/sentinel-installer/pkg/serializer"
	"github.com/NVIDIA/sentinel-installer/pkg/service"
)

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:                  "status",
		EnableShellCompletion: true,
		Usage:                 "Report the current installation state",
		Description: `Report the Sentinel installation state on this machine: the
installation record (version and path), whether the background service
is registered, and whether the data store exists. Reading status never
changes anything.

# Examples

Human-readable status:
  sentinelctl status --format table

Status as JSON for scripting:
  sentinelctl status --format json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data-file",
				Usage: "Data store location (default: <recorded install path>/data/sentinel.db)",
			},
			recordPathFlag,
			outputFlag,
			formatFlag,
		},
		Action: runStatus,
	}
}

func runStatus(ctx context.Context, cmd *cli.Command) error {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return fmt.Errorf("unknown output format: %q", outFormat)
	}

	records := record.NewFileStore(cmd.String("record-path"))

	inst := &installer.Installer{
		ServiceName: serviceName,
		Records:     records,
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

	status, err := inst.InspectStatus(ctx)
	if err != nil {
		return err
	}

	ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close output writer", "error", err)
		}
	}()
	return ser.Serialize(status)
}
