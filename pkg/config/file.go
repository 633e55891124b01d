package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads raw input values from a YAML configuration file.
// Values from the file have lower precedence than explicit flags; the
// caller overlays flag values onto the returned Input before Collect.
func LoadFile(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var in Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return &in, nil
}

// Overlay returns a copy of base with every non-zero field of over
// applied on top. Used to give explicit flags precedence over config
// file values.
func Overlay(base, over Input) Input {
	out := base

	if over.Port != "" {
		out.Port = over.Port
	}
	if over.Host != "" {
		out.Host = over.Host
	}
	if over.LogLevel != "" {
		out.LogLevel = over.LogLevel
	}
	if over.MaxLogSizeMB != "" {
		out.MaxLogSizeMB = over.MaxLogSizeMB
	}
	if over.InstallPath != "" {
		out.InstallPath = over.InstallPath
	}
	if over.ServiceWrapperURL != "" {
		out.ServiceWrapperURL = over.ServiceWrapperURL
	}

	for _, pair := range []struct {
		dst **bool
		src *bool
	}{
		{&out.InstallService, over.InstallService},
		{&out.ConfigureFirewall, over.ConfigureFirewall},
		{&out.SkipDependencies, over.SkipDependencies},
		{&out.Force, over.Force},
		{&out.OverridePrereqs, over.OverridePrereqs},
		{&out.BackupOnReinstall, over.BackupOnReinstall},
		{&out.KeepDataOnUninstall, over.KeepDataOnUninstall},
	} {
		if pair.src != nil {
			*pair.dst = pair.src
		}
	}

	return out
}
