// Package probe implements read-only environment probing for the
// installer: OS release, toolchain presence and version, disk space,
// memory, port availability, and prior service registration.
//
// Probers never fail the run. Any metric that cannot be read is reported
// as unknown and downstream logic is expected to tolerate partial
// reports.
package probe
