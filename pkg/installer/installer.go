/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package installer orchestrates the installation run: probe, validate,
// gate, resolve mode, back up, execute steps, and persist the
// installation record. One run per invocation, strictly sequential; the
// effectors it drives are process-wide resources unsafe for concurrent
// mutation.
package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/sentinel-installer/pkg/auditlog"
	"github.com/NVIDIA/sentinel-installer/pkg/backup"
	"github.com/NVIDIA/sentinel-installer/pkg/config"
	"github.com/NVIDIA/sentinel-installer/pkg/deps"
	"github.com/NVIDIA/sentinel-installer/pkg/errors"
	"github.com/NVIDIA/sentinel-installer/pkg/firewall"
	"github.com/NVIDIA/sentinel-installer/pkg/probe"
	"github.com/NVIDIA/sentinel-installer/pkg/record"
	"github.com/NVIDIA/sentinel-installer/pkg/requirement"
	"github.com/NVIDIA/sentinel-installer/pkg/scripts"
	"github.com/NVIDIA/sentinel-installer/pkg/service"
	"github.com/NVIDIA/sentinel-installer/pkg/store"
)

// Installer wires the probers, validator, and effectors into one run.
// All dependencies are interfaces or narrow structs so tests drive the
// orchestration against in-memory fakes.
type Installer struct {
	// CandidateVersion is the version this run installs.
	CandidateVersion string

	// ServiceName is the background-service entry name.
	ServiceName string

	// Toolchain is the runtime executable registered as the service
	// entrypoint.
	Toolchain string

	// DataFile is the monitored server's persisted data file, the
	// subject of pre-upgrade backups.
	DataFile string

	Records      record.Store
	ProbeFactory probe.Factory
	Validator    *requirement.Validator
	Backups      *backup.Manager
	Audit        *auditlog.Log

	Deps     deps.Installer
	Store    store.Initializer
	Firewall firewall.Table
	Services *service.Manager
	Scripts  scripts.Generator

	// Elevated reports whether the process has the privilege needed for
	// system mutation. Defaults to an euid check.
	Elevated func() bool

	// Now is the clock, overridable for tests.
	Now func() time.Time

	state State
}

// State returns the current run state.
func (i *Installer) State() State {
	if i.state == "" {
		return StateNotStarted
	}
	return i.state
}

func (i *Installer) elevated() bool {
	if i.Elevated != nil {
		return i.Elevated()
	}
	return os.Geteuid() == 0
}

// Run executes one full installation run against the collected
// configuration. The returned report is always usable, even when err is
// non-nil; err carries the structured classification the CLI maps to an
// exit code.
func (i *Installer) Run(ctx context.Context, cfg *config.Config) (*RunReport, error) {
	report := &RunReport{
		RunID:   uuid.New().String(),
		Version: i.CandidateVersion,
		Status:  RunStatusAborted,
		Started: i.now(),
		Results: make([]StepResult, 0, 5),
	}
	defer func() { report.Finished = i.now() }()

	// Privilege is checked before the run starts. Firewall and service
	// registration are the operations that need elevation.
	if (cfg.ConfigureFirewall || cfg.InstallService) && !i.elevated() {
		err := errors.New(errors.ErrCodePrivilege,
			"firewall and service setup require an elevated session; re-run with sufficient privileges or disable those options")
		report.Error = err.Error()
		return report, err
	}

	i.state = StateNotStarted
	i.advance(EventBegin)

	i.audit("run %s started: installing version %s", report.RunID, i.CandidateVersion)

	envReport := probe.Run(ctx, i.ProbeFactory)
	i.advance(EventProbed)

	verdict := i.Validator.Validate(envReport)
	report.Verdict = verdict

	if !verdict.Pass {
		i.advance(EventBlocked)
		if !cfg.OverridePrereqs {
			i.advance(EventFatal)
			err := errors.Newf(errors.ErrCodePrerequisite,
				"blocking prerequisites not met: %s", strings.Join(verdict.Blocking, "; "))
			report.Error = err.Error()
			i.audit("run aborted at gate: %s", strings.Join(verdict.Blocking, "; "))
			return report, err
		}
		i.audit("blocking prerequisites overridden by operator: %s", strings.Join(verdict.Blocking, "; "))
		i.advance(EventOverridden)
	} else {
		i.advance(EventValidated)
	}

	for _, advisory := range verdict.Advisory {
		slog.Warn("advisory finding", "finding", advisory)
	}

	rec, err := i.Records.Load()
	if err != nil {
		i.advance(EventFatal)
		report.Error = err.Error()
		return report, fmt.Errorf("failed to read installation record: %w", err)
	}

	mode := ResolveMode(rec, i.CandidateVersion)
	report.Mode = mode
	slog.Info("install mode resolved", "mode", mode)
	i.audit("configuration accepted: %s, mode %s", cfg.ListenAddress(), mode)

	backupRec, err := i.backupIfNeeded(mode, cfg)
	if err != nil {
		i.advance(EventFatal)
		report.Error = err.Error()
		i.audit("run aborted: %v", err)
		return report, err
	}
	report.Backup = backupRec

	// A run that went through backup is already executing; everything
	// else leaves ConfiguringInputs here.
	if i.state == StateConfiguringInputs {
		i.advance(EventConfigured)
	}

	if err := i.executeSteps(ctx, i.buildSteps(cfg), report); err != nil {
		i.advance(EventFatal)
		report.Error = err.Error()
		i.audit("run aborted: %v", err)
		return report, err
	}
	i.advance(EventCompleted)

	newRec := &record.InstallationRecord{
		InstalledVersion:    i.CandidateVersion,
		InstallPath:         cfg.InstallPath,
		KeepDataOnUninstall: cfg.KeepDataOnUninstall,
	}
	if err := i.Records.Save(newRec); err != nil {
		report.Error = err.Error()
		return report, fmt.Errorf("install steps completed but the installation record could not be written: %w", err)
	}

	report.Status = RunStatusSuccess
	i.audit("run %s completed: version %s installed at %s", report.RunID, i.CandidateVersion, cfg.InstallPath)
	return report, nil
}

// backupIfNeeded snapshots prior data for Upgrade and, when configured,
// Reinstall runs. Fresh installs never back up. A backup failure during
// an upgrade is fatal: proceeding would risk silent data loss. On a
// reinstall the data is unchanged by definition, so a failure only
// warns.
func (i *Installer) backupIfNeeded(mode Mode, cfg *config.Config) (*backup.Record, error) {
	switch mode {
	case ModeFresh:
		return nil, nil
	case ModeReinstall:
		if !cfg.BackupOnReinstall {
			slog.Info("same-version reinstall, backup disabled by configuration")
			return nil, nil
		}
	case ModeUpgrade:
		// always backs up
	}

	i.advance(EventBackupNeeded)

	rec, err := i.Backups.Backup(i.DataFile)
	if err != nil {
		if mode == ModeUpgrade {
			return nil, errors.Wrap(errors.ErrCodeBackup,
				"could not back up prior data before upgrade", err)
		}
		slog.Warn("backup failed on reinstall, continuing with unchanged data", "error", err)
	}
	if rec != nil {
		i.audit("backed up %s to %s", rec.SourcePath, rec.BackupPath)
	}

	i.advance(EventBackedUp)
	return rec, nil
}

func (i *Installer) audit(format string, args ...any) {
	if i.Audit == nil {
		return
	}
	if err := i.Audit.Appendf(format, args...); err != nil {
		slog.Warn("could not append to installation log", "error", err)
	}
}
