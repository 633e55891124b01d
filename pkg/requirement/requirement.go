/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package requirement classifies environment probe results against
// minimum thresholds into blocking and advisory findings.
package requirement

import (
	"fmt"
	"log/slog"

	"github.com/NVIDIA/sentinel-installer/pkg/probe"
	"github.com/NVIDIA/sentinel-installer/pkg/version"
)

// Check records the evaluation of a single requirement.
type Check struct {
	// Name identifies the requirement (e.g. "toolchain-version").
	Name string `json:"name" yaml:"name"`

	// Required marks the check as blocking when unsatisfied.
	Required bool `json:"required" yaml:"required"`

	// Satisfied indicates whether the probed value met the threshold.
	Satisfied bool `json:"satisfied" yaml:"satisfied"`

	// Detail describes the probed value versus the threshold.
	Detail string `json:"detail" yaml:"detail"`
}

// Verdict aggregates all requirement checks for one run.
// Pass is true iff every required check is satisfied.
type Verdict struct {
	Pass     bool     `json:"pass" yaml:"pass"`
	Checks   []Check  `json:"checks" yaml:"checks"`
	Blocking []string `json:"blocking,omitempty" yaml:"blocking,omitempty"`
	Advisory []string `json:"advisory,omitempty" yaml:"advisory,omitempty"`
}

// Validator evaluates an environment report against minimum thresholds.
type Validator struct {
	// MinOSVersion is the minimum OS release (blocking when probed below).
	MinOSVersion version.Version

	// MinToolchain is the minimum toolchain version (blocking).
	MinToolchain version.Version

	// MinDiskMB is the minimum free disk space in MB (blocking).
	MinDiskMB uint64

	// MinMemoryGB is the recommended memory in GB (advisory only).
	MinMemoryGB uint64
}

// Option is a functional option for configuring Validator instances.
type Option func(*Validator)

// WithMinOSVersion sets the minimum OS release version.
func WithMinOSVersion(v version.Version) Option {
	return func(val *Validator) {
		val.MinOSVersion = v
	}
}

// WithMinToolchain sets the minimum toolchain version.
func WithMinToolchain(v version.Version) Option {
	return func(val *Validator) {
		val.MinToolchain = v
	}
}

// WithMinDiskMB sets the minimum free disk space in megabytes.
func WithMinDiskMB(mb uint64) Option {
	return func(val *Validator) {
		val.MinDiskMB = mb
	}
}

// WithMinMemoryGB sets the advisory memory threshold in gigabytes.
func WithMinMemoryGB(gb uint64) Option {
	return func(val *Validator) {
		val.MinMemoryGB = gb
	}
}

// New creates a Validator with production thresholds, adjusted by the
// provided options.
func New(opts ...Option) *Validator {
	v := &Validator{
		MinOSVersion: version.MustParse("20.04"),
		MinToolchain: version.MustParse("18.0.0"),
		MinDiskMB:    1000,
		MinMemoryGB:  4,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate evaluates the report and returns a verdict. Metrics the prober
// could not read never block on their own: an unknown value produces an
// advisory finding, since aborting on an unreadable metric would violate
// the prober's partial-report contract.
func (v *Validator) Validate(report *probe.Report) *Verdict {
	verdict := &Verdict{Checks: make([]Check, 0, 6)}

	verdict.add(v.checkOS(report))
	verdict.add(v.checkDisk(report))
	verdict.add(v.checkMemory(report))
	verdict.add(v.checkToolchain(report))
	verdict.add(v.checkPort(report))
	verdict.add(v.checkService(report))

	verdict.Pass = len(verdict.Blocking) == 0

	slog.Debug("requirement validation completed",
		"pass", verdict.Pass,
		"blocking", len(verdict.Blocking),
		"advisory", len(verdict.Advisory))

	return verdict
}

func (verdict *Verdict) add(c Check) {
	verdict.Checks = append(verdict.Checks, c)
	if c.Satisfied {
		return
	}
	if c.Required {
		verdict.Blocking = append(verdict.Blocking, fmt.Sprintf("%s: %s", c.Name, c.Detail))
	} else {
		verdict.Advisory = append(verdict.Advisory, fmt.Sprintf("%s: %s", c.Name, c.Detail))
	}
}

func (v *Validator) checkOS(report *probe.Report) Check {
	c := Check{Name: "os-version", Required: true}

	if !report.OS.Known {
		c.Required = false
		c.Detail = "could not determine OS release"
		return c
	}

	osv, err := version.Parse(report.OS.VersionID)
	if err != nil {
		c.Required = false
		c.Detail = fmt.Sprintf("unparsable OS version %q", report.OS.VersionID)
		return c
	}

	c.Satisfied = osv.AtLeast(v.MinOSVersion)
	c.Detail = fmt.Sprintf("%s %s (minimum %s)", report.OS.ID, report.OS.VersionID, v.MinOSVersion)
	return c
}

func (v *Validator) checkDisk(report *probe.Report) Check {
	c := Check{Name: "free-disk", Required: true}

	if !report.Disk.Known {
		c.Required = false
		c.Detail = "could not determine free disk space"
		return c
	}

	freeMB := report.Disk.FreeBytes / (1024 * 1024)
	c.Satisfied = freeMB >= v.MinDiskMB
	c.Detail = fmt.Sprintf("%d MB free (minimum %d MB)", freeMB, v.MinDiskMB)
	return c
}

func (v *Validator) checkMemory(report *probe.Report) Check {
	c := Check{Name: "memory", Required: false}

	if !report.Memory.Known {
		c.Detail = "could not determine memory size"
		return c
	}

	totalGB := report.Memory.TotalBytes / (1024 * 1024 * 1024)
	c.Satisfied = totalGB >= v.MinMemoryGB
	c.Detail = fmt.Sprintf("%d GB memory (recommended %d GB)", totalGB, v.MinMemoryGB)
	return c
}

func (v *Validator) checkToolchain(report *probe.Report) Check {
	c := Check{Name: "toolchain", Required: true}

	if !report.Toolchain.Found {
		c.Detail = "toolchain not found on PATH"
		return c
	}

	tv, err := version.Parse(report.Toolchain.Version)
	if err != nil {
		c.Detail = fmt.Sprintf("unparsable toolchain version %q", report.Toolchain.Version)
		return c
	}

	c.Satisfied = tv.AtLeast(v.MinToolchain)
	c.Detail = fmt.Sprintf("%s at %s (minimum %s)", report.Toolchain.Version, report.Toolchain.Path, v.MinToolchain)
	return c
}

func (v *Validator) checkService(report *probe.Report) Check {
	c := Check{Name: "service-unit", Required: false}

	if !report.Service.Known {
		c.Satisfied = true
		c.Detail = "could not determine prior service registration"
		return c
	}

	c.Satisfied = !report.Service.Registered
	if report.Service.Registered {
		c.Detail = fmt.Sprintf("service %q already registered; use force to replace it", report.Service.Name)
	} else {
		c.Detail = fmt.Sprintf("service %q not registered", report.Service.Name)
	}
	return c
}

func (v *Validator) checkPort(report *probe.Report) Check {
	c := Check{Name: "port-available", Required: false}

	if !report.Port.Known {
		c.Satisfied = true
		c.Detail = "could not determine port availability"
		return c
	}

	c.Satisfied = !report.Port.InUse
	c.Detail = fmt.Sprintf("port %d in use: %t", report.Port.Port, report.Port.InUse)
	return c
}
