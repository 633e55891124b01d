/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package probe

import "context"

// Prober reads one environment concern into the shared report.
// Implementations record partial results and never return errors;
// unreadable metrics stay unknown.
type Prober interface {
	Name() string
	Probe(ctx context.Context, r *Report)
}

// Report aggregates all environment probe results for one run.
type Report struct {
	OS        OSInfo        `json:"os" yaml:"os"`
	Toolchain ToolchainInfo `json:"toolchain" yaml:"toolchain"`
	Disk      DiskInfo      `json:"disk" yaml:"disk"`
	Memory    MemoryInfo    `json:"memory" yaml:"memory"`
	Port      PortInfo      `json:"port" yaml:"port"`
	Service   ServiceInfo   `json:"service" yaml:"service"`
}

// OSInfo describes the operating system release.
type OSInfo struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	VersionID  string `json:"versionId,omitempty" yaml:"versionId,omitempty"`
	PrettyName string `json:"prettyName,omitempty" yaml:"prettyName,omitempty"`
	Known      bool   `json:"known" yaml:"known"`
}

// ToolchainInfo describes the runtime toolchain the monitored server
// requires (Node.js).
type ToolchainInfo struct {
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Found   bool   `json:"found" yaml:"found"`
}

// DiskInfo describes free and total bytes on the install path filesystem.
type DiskInfo struct {
	FreeBytes  uint64 `json:"freeBytes" yaml:"freeBytes"`
	TotalBytes uint64 `json:"totalBytes" yaml:"totalBytes"`
	Known      bool   `json:"known" yaml:"known"`
}

// MemoryInfo describes total physical memory.
type MemoryInfo struct {
	TotalBytes uint64 `json:"totalBytes" yaml:"totalBytes"`
	Known      bool   `json:"known" yaml:"known"`
}

// PortInfo describes availability of the configured listen port.
type PortInfo struct {
	Port  int  `json:"port" yaml:"port"`
	InUse bool `json:"inUse" yaml:"inUse"`
	Known bool `json:"known" yaml:"known"`
}

// ServiceInfo describes whether a service unit with the configured name
// is already registered with the supervisor.
type ServiceInfo struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Registered bool   `json:"registered" yaml:"registered"`
	Known      bool   `json:"known" yaml:"known"`
}
