/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// UninstallReport summarizes what an uninstall run removed and kept.
type UninstallReport struct {
	WasInstalled   bool      `json:"wasInstalled" yaml:"wasInstalled"`
	RemovedService bool      `json:"removedService" yaml:"removedService"`
	RemovedRule    bool      `json:"removedRule" yaml:"removedRule"`
	DataKept       bool      `json:"dataKept" yaml:"dataKept"`
	Finished       time.Time `json:"finished" yaml:"finished"`
}

// Uninstall reverses a prior installation: unregisters the service,
// removes the ingress rule, honors the record's data retention choice,
// and deletes the record last so an interrupted uninstall can be
// re-run. With no record present it is a no-op.
func (i *Installer) Uninstall(ctx context.Context, port int) (*UninstallReport, error) {
	report := &UninstallReport{}
	defer func() { report.Finished = i.now() }()

	rec, err := i.Records.Load()
	if err != nil {
		return report, fmt.Errorf("failed to read installation record: %w", err)
	}
	if rec == nil {
		slog.Info("nothing to uninstall, no installation record found")
		return report, nil
	}
	report.WasInstalled = true
	report.DataKept = rec.KeepDataOnUninstall

	i.audit("uninstall started: version %s at %s", rec.InstalledVersion, rec.InstallPath)

	if i.Services != nil && i.Services.IsRegistered(i.ServiceName) {
		res, err := i.Services.Unregister(ctx, i.ServiceName)
		if err != nil {
			return report, fmt.Errorf("failed to unregister service %q: %w", i.ServiceName, err)
		}
		report.RemovedService = res.Changed
		i.audit("service %s unregistered", i.ServiceName)
	}

	if i.Firewall != nil {
		if err := i.Firewall.DeleteIngressRule(port); err != nil {
			slog.Warn("could not remove ingress rule", "port", port, "error", err)
		} else {
			report.RemovedRule = true
			i.audit("ingress rule for port %d removed", port)
		}
	}

	if !rec.KeepDataOnUninstall {
		if err := os.Remove(i.DataFile); err != nil && !os.IsNotExist(err) {
			return report, fmt.Errorf("failed to remove data file %q: %w", i.DataFile, err)
		}
		i.audit("data file %s removed", i.DataFile)
	} else {
		slog.Info("keeping data file per installation record", "path", i.DataFile)
	}

	if err := i.Records.Delete(); err != nil {
		return report, fmt.Errorf("failed to delete installation record: %w", err)
	}
	i.audit("uninstall completed: version %s removed", rec.InstalledVersion)

	return report, nil
}
