/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package config collects and validates the operator-supplied installation
// parameters. Validation enumerates every violated field rather than
// stopping at the first, so the operator can fix all of them in one pass.
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// LogLevel is the monitored server's log verbosity.
type LogLevel string

const (
	LevelDebug   LogLevel = "Debug"
	LevelInfo    LogLevel = "Info"
	LevelWarning LogLevel = "Warning"
	LevelError   LogLevel = "Error"
)

// ParseLogLevel coerces a free-form level string to a LogLevel.
// Unknown values fall back to Info rather than failing: a defaultable
// field never blocks the install.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarning
	case "error":
		return LevelError
	default:
		if s != "" {
			slog.Warn("unknown log level, defaulting to Info", "level", s)
		}
		return LevelInfo
	}
}

// Config is the validated installation configuration.
type Config struct {
	Port         int      `json:"port" yaml:"port"`
	Host         string   `json:"host" yaml:"host"`
	LogLevel     LogLevel `json:"logLevel" yaml:"logLevel"`
	MaxLogSizeMB int      `json:"maxLogSizeMB" yaml:"maxLogSizeMB"`

	InstallPath string `json:"installPath" yaml:"installPath"`

	InstallService    bool `json:"installService" yaml:"installService"`
	ConfigureFirewall bool `json:"configureFirewall" yaml:"configureFirewall"`
	SkipDependencies  bool `json:"skipDependencies" yaml:"skipDependencies"`
	Force             bool `json:"force" yaml:"force"`

	// OverridePrereqs allows the run to proceed past blocking requirement
	// findings. The findings are still logged.
	OverridePrereqs bool `json:"overridePrereqs" yaml:"overridePrereqs"`

	// BackupOnReinstall controls whether a same-version reinstall
	// snapshots unchanged data before executing steps.
	BackupOnReinstall bool `json:"backupOnReinstall" yaml:"backupOnReinstall"`

	// KeepDataOnUninstall is persisted into the installation record and
	// honored by a later uninstall.
	KeepDataOnUninstall bool `json:"keepDataOnUninstall" yaml:"keepDataOnUninstall"`

	// ServiceWrapperURL, when set, points at the service-wrapper helper
	// archive fetched before first registration.
	ServiceWrapperURL string `json:"serviceWrapperUrl,omitempty" yaml:"serviceWrapperUrl,omitempty"`
}

// Input carries raw, unvalidated operator-supplied values. String fields
// stay strings so that "non-empty, then numeric, then in range" checks can
// report precisely what was wrong.
type Input struct {
	Port         string `yaml:"port"`
	Host         string `yaml:"host"`
	LogLevel     string `yaml:"logLevel"`
	MaxLogSizeMB string `yaml:"maxLogSizeMB"`
	InstallPath  string `yaml:"installPath"`

	InstallService      *bool `yaml:"installService"`
	ConfigureFirewall   *bool `yaml:"configureFirewall"`
	SkipDependencies    *bool `yaml:"skipDependencies"`
	Force               *bool `yaml:"force"`
	OverridePrereqs     *bool `yaml:"overridePrereqs"`
	BackupOnReinstall   *bool `yaml:"backupOnReinstall"`
	KeepDataOnUninstall *bool `yaml:"keepDataOnUninstall"`

	ServiceWrapperURL string `yaml:"serviceWrapperUrl"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Port:              5002,
		Host:              "0.0.0.0",
		LogLevel:          LevelInfo,
		MaxLogSizeMB:      100,
		InstallPath:       "/opt/sentinel",
		BackupOnReinstall: true,
	}
}

// Collect merges input over defaults and validates the result. All field
// violations are accumulated into a single *ValidationError.
func Collect(defaults Config, in Input) (*Config, error) {
	cfg := defaults
	verr := &ValidationError{}

	if p := strings.TrimSpace(in.Port); p != "" {
		port, err := strconv.Atoi(p)
		switch {
		case err != nil:
			verr.addf("port", p, "must be numeric")
		case port < 1 || port > 65535:
			verr.addf("port", p, "must be between 1 and 65535")
		default:
			cfg.Port = port
		}
	}

	if h := strings.TrimSpace(in.Host); h != "" {
		cfg.Host = h
	}

	// Log level and size cap are defaultable: bad values coerce rather
	// than reject.
	if in.LogLevel != "" {
		cfg.LogLevel = ParseLogLevel(in.LogLevel)
	}
	if s := strings.TrimSpace(in.MaxLogSizeMB); s != "" {
		size, err := strconv.Atoi(s)
		if err != nil || size <= 0 {
			slog.Warn("invalid max log size, defaulting to 100 MB", "value", s)
			cfg.MaxLogSizeMB = 100
		} else {
			cfg.MaxLogSizeMB = size
		}
	}

	if p := strings.TrimSpace(in.InstallPath); p != "" {
		cfg.InstallPath = p
	}

	setBool(&cfg.InstallService, in.InstallService)
	setBool(&cfg.ConfigureFirewall, in.ConfigureFirewall)
	setBool(&cfg.SkipDependencies, in.SkipDependencies)
	setBool(&cfg.Force, in.Force)
	setBool(&cfg.OverridePrereqs, in.OverridePrereqs)
	setBool(&cfg.BackupOnReinstall, in.BackupOnReinstall)
	setBool(&cfg.KeepDataOnUninstall, in.KeepDataOnUninstall)

	if in.ServiceWrapperURL != "" {
		cfg.ServiceWrapperURL = in.ServiceWrapperURL
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return &cfg, nil
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// ListenAddress returns the host:port pair the monitored server will bind.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
