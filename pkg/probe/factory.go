package probe

import (
	"context"
	"log/slog"
)

// Factory creates probers with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	Probers() []Prober
}

// DefaultFactory creates probers with production dependencies.
type DefaultFactory struct {
	ToolchainBinary string
	InstallPath     string
	Host            string
	Port            int
	ServiceName     string
}

// Option is a functional option for configuring DefaultFactory instances.
type Option func(*DefaultFactory)

// WithToolchainBinary overrides the toolchain binary name probed on PATH.
func WithToolchainBinary(name string) Option {
	return func(f *DefaultFactory) {
		f.ToolchainBinary = name
	}
}

// WithInstallPath sets the path whose filesystem is probed for free space.
func WithInstallPath(path string) Option {
	return func(f *DefaultFactory) {
		f.InstallPath = path
	}
}

// WithListenAddress sets the host and port probed for availability.
func WithListenAddress(host string, port int) Option {
	return func(f *DefaultFactory) {
		f.Host = host
		f.Port = port
	}
}

// WithServiceName sets the service unit name probed for prior registration.
func WithServiceName(name string) Option {
	return func(f *DefaultFactory) {
		f.ServiceName = name
	}
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...Option) *DefaultFactory {
	f := &DefaultFactory{
		ToolchainBinary: "node",
		InstallPath:     "/opt/sentinel",
		Host:            "0.0.0.0",
		Port:            5002,
		ServiceName:     "sentinel",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Probers returns the full prober set in probe order.
func (f *DefaultFactory) Probers() []Prober {
	return []Prober{
		&OSProber{},
		&ToolchainProber{Binary: f.ToolchainBinary},
		&DiskProber{Path: f.InstallPath},
		&MemoryProber{},
		&PortProber{Host: f.Host, Port: f.Port},
		&ServiceProber{UnitName: f.ServiceName},
	}
}

// Run executes every prober from the factory and returns the aggregate
// report. Probing is read-only and always succeeds; individual probers
// log what they could not read.
func Run(ctx context.Context, f Factory) *Report {
	r := &Report{}
	for _, p := range f.Probers() {
		if err := ctx.Err(); err != nil {
			slog.Warn("probing interrupted", "prober", p.Name(), "error", err)
			return r
		}
		slog.Debug("probing", "prober", p.Name())
		p.Probe(ctx, r)
	}
	return r
}
