/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package installer

import (
	"context"
	"fmt"
	"os"
)

// Status describes the installation as found on this machine. Reading
// status never mutates anything.
type Status struct {
	Installed         bool   `json:"installed" yaml:"installed"`
	InstalledVersion  string `json:"installedVersion,omitempty" yaml:"installedVersion,omitempty"`
	InstallPath       string `json:"installPath,omitempty" yaml:"installPath,omitempty"`
	ServiceRegistered bool   `json:"serviceRegistered" yaml:"serviceRegistered"`
	DataFilePresent   bool   `json:"dataFilePresent" yaml:"dataFilePresent"`
}

// InspectStatus reports the installation record, service registration,
// and data file presence.
func (i *Installer) InspectStatus(ctx context.Context) (*Status, error) {
	status := &Status{}

	rec, err := i.Records.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read installation record: %w", err)
	}
	if rec != nil {
		status.Installed = true
		status.InstalledVersion = rec.InstalledVersion
		status.InstallPath = rec.InstallPath
	}

	if i.Services != nil {
		status.ServiceRegistered = i.Services.IsRegistered(i.ServiceName)
	}

	if _, err := os.Stat(i.DataFile); err == nil {
		status.DataFilePresent = true
	}

	return status, nil
}
