package requirement

import (
	"testing"

	"github.com/NVIDIA/sentinel-installer/pkg/probe"
)

func healthyReport() *probe.Report {
	return &probe.Report{
		OS:        probe.OSInfo{ID: "ubuntu", VersionID: "22.04", Known: true},
		Toolchain: probe.ToolchainInfo{Path: "/usr/bin/node", Version: "v20.11.1", Found: true},
		Disk:      probe.DiskInfo{FreeBytes: 50 * 1024 * 1024 * 1024, TotalBytes: 100 * 1024 * 1024 * 1024, Known: true},
		Memory:    probe.MemoryInfo{TotalBytes: 16 * 1024 * 1024 * 1024, Known: true},
		Port:      probe.PortInfo{Port: 5002, InUse: false, Known: true},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*probe.Report)
		wantPass     bool
		wantBlocking int
		wantAdvisory int
	}{
		{
			name:     "healthy environment passes",
			mutate:   func(*probe.Report) {},
			wantPass: true,
		},
		{
			name: "missing toolchain blocks",
			mutate: func(r *probe.Report) {
				r.Toolchain = probe.ToolchainInfo{}
			},
			wantPass:     false,
			wantBlocking: 1,
		},
		{
			name: "old toolchain blocks",
			mutate: func(r *probe.Report) {
				r.Toolchain.Version = "v16.20.2"
			},
			wantPass:     false,
			wantBlocking: 1,
		},
		{
			name: "low disk blocks",
			mutate: func(r *probe.Report) {
				r.Disk.FreeBytes = 500 * 1024 * 1024
			},
			wantPass:     false,
			wantBlocking: 1,
		},
		{
			name: "old os blocks",
			mutate: func(r *probe.Report) {
				r.OS.VersionID = "18.04"
			},
			wantPass:     false,
			wantBlocking: 1,
		},
		{
			name: "low memory is advisory only",
			mutate: func(r *probe.Report) {
				r.Memory.TotalBytes = 2 * 1024 * 1024 * 1024
			},
			wantPass:     true,
			wantAdvisory: 1,
		},
		{
			name: "port in use is advisory only",
			mutate: func(r *probe.Report) {
				r.Port.InUse = true
			},
			wantPass:     true,
			wantAdvisory: 1,
		},
		{
			name: "unknown os is advisory not blocking",
			mutate: func(r *probe.Report) {
				r.OS = probe.OSInfo{}
			},
			wantPass:     true,
			wantAdvisory: 1,
		},
		{
			name: "unknown disk is advisory not blocking",
			mutate: func(r *probe.Report) {
				r.Disk = probe.DiskInfo{}
			},
			wantPass:     true,
			wantAdvisory: 1,
		},
		{
			name: "registered service unit is advisory only",
			mutate: func(r *probe.Report) {
				r.Service = probe.ServiceInfo{Name: "sentinel", Registered: true, Known: true}
			},
			wantPass:     true,
			wantAdvisory: 1,
		},
		{
			name: "unregistered service unit adds no finding",
			mutate: func(r *probe.Report) {
				r.Service = probe.ServiceInfo{Name: "sentinel", Known: true}
			},
			wantPass: true,
		},
		{
			name: "multiple blocking findings accumulate",
			mutate: func(r *probe.Report) {
				r.Toolchain = probe.ToolchainInfo{}
				r.Disk.FreeBytes = 0
			},
			wantPass:     false,
			wantBlocking: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := healthyReport()
			tt.mutate(report)

			verdict := New().Validate(report)

			if verdict.Pass != tt.wantPass {
				t.Errorf("Pass = %t, want %t (blocking: %v)", verdict.Pass, tt.wantPass, verdict.Blocking)
			}
			if len(verdict.Blocking) != tt.wantBlocking {
				t.Errorf("blocking = %v, want %d findings", verdict.Blocking, tt.wantBlocking)
			}
			if len(verdict.Advisory) != tt.wantAdvisory {
				t.Errorf("advisory = %v, want %d findings", verdict.Advisory, tt.wantAdvisory)
			}
			if len(verdict.Checks) != 6 {
				t.Errorf("expected 6 checks, got %d", len(verdict.Checks))
			}
		})
	}
}

func TestValidatorOptions(t *testing.T) {
	v := New(
		WithMinDiskMB(10),
		WithMinMemoryGB(1),
	)

	report := healthyReport()
	report.Disk.FreeBytes = 20 * 1024 * 1024
	report.Memory.TotalBytes = 2 * 1024 * 1024 * 1024

	verdict := v.Validate(report)
	if !verdict.Pass {
		t.Errorf("expected pass with relaxed thresholds, blocking: %v", verdict.Blocking)
	}
	if len(verdict.Advisory) != 0 {
		t.Errorf("expected no advisories, got %v", verdict.Advisory)
	}
}
