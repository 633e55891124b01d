/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package installer

import (
	"log/slog"

	"github.com/NVIDIA/sentinel-installer/pkg/record"
	"github.com/NVIDIA/sentinel-installer/pkg/version"
)

// Mode classifies a run by comparing the persisted installation record
// against the candidate version. Computed once per run, never persisted.
type Mode string

const (
	// ModeFresh means no installation record exists on this machine.
	ModeFresh Mode = "Fresh"
	// ModeUpgrade means a record exists with a different version.
	ModeUpgrade Mode = "Upgrade"
	// ModeReinstall means a record exists with the same version.
	ModeReinstall Mode = "Reinstall"
)

// ResolveMode derives the install mode. Versions compare semantically,
// so "1.0" and "1.0.0" are the same release. A recorded version that no
// longer parses is treated as an upgrade: replacing it is the safe
// interpretation, and the upgrade path is the one that protects data.
func ResolveMode(rec *record.InstallationRecord, candidate string) Mode {
	if rec == nil || rec.InstalledVersion == "" {
		return ModeFresh
	}

	cmp, err := version.CompareStrings(rec.InstalledVersion, candidate)
	if err != nil {
		slog.Warn("could not compare recorded version, treating as upgrade",
			"recorded", rec.InstalledVersion,
			"candidate", candidate,
			"error", err)
		return ModeUpgrade
	}

	if cmp == 0 {
		return ModeReinstall
	}
	return ModeUpgrade
}
