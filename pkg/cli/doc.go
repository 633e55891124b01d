// Package cli implements the command-line interface for the sentinelctl installer.
//
// # Overview
//
// The sentinelctl CLI installs, upgrades, and removes a locally hosted Sentinel
// monitoring server. It is designed for operators managing single-node Sentinel
// deployments without a configuration management system.
//
// # Commands
//
// install - Install or upgrade the server:
//
//	sentinelctl install [--port 5002] [--install-service] [--configure-firewall]
//
// Probes the environment, validates prerequisites, resolves the install mode
// (fresh, upgrade, or reinstall) from the installation record, backs up prior
// data when needed, and executes the ordered setup steps. Each step result is
// appended to the installation log immediately.
//
// uninstall - Remove a prior installation:
//
//	sentinelctl uninstall [--port 5002]
//
// Unregisters the background service, removes the firewall rule, honors the
// recorded data retention choice, and deletes the installation record. A
// machine without a record is left untouched.
//
// status - Report installation state:
//
//	sentinelctl status [--format table]
//
// Prints the installation record, service registration, and data store
// presence. Never mutates anything.
//
// # Global Flags
//
//	--log-level    Installer log verbosity (debug, info, warn, error)
//	--output, -o   Output file path (default: stdout)
//	--format, -t   Output format: yaml, json, table (default: yaml)
//
// # Environment Variables
//
//	LOG_LEVEL  Set installer logging verbosity (debug, info, warn, error)
//
// # Exit Codes
//
//	0  Success (warnings allowed)
//	1  Invalid configuration or internal failure
//	2  Elevation required for the requested options
//	3  Blocking prerequisite not met
//	4  Required step or pre-upgrade backup failed
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized packages:
//   - pkg/installer - Run orchestration and state machine
//   - pkg/probe - Environment probing
//   - pkg/requirement - Prerequisite validation
//   - pkg/config - Configuration collection
//   - pkg/serializer - Output formatting
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/sentinel-installer/pkg/cli.version=1.0.0'"
package cli
