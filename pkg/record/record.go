/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package record persists the installation record, the single durable
// source of truth for "this machine already runs version X". The record
// is accessed only through the narrow Store interface; the mode resolver
// and the post-install writer are its sole touchpoints.
package record

// Keys of the vendor-scoped key/value entries.
const (
	keyInstalledVersion    = "installedVersion"
	keyInstallPath         = "installPath"
	keyKeepDataOnUninstall = "keepDataOnUninstall"
)

// InstallationRecord is the persisted state of a completed install.
// Created on first successful install, updated on upgrade, read at
// uninstall.
type InstallationRecord struct {
	InstalledVersion    string `json:"installedVersion" yaml:"installedVersion"`
	InstallPath         string `json:"installPath" yaml:"installPath"`
	KeepDataOnUninstall bool   `json:"keepDataOnUninstall" yaml:"keepDataOnUninstall"`
}

// Store is the capability interface over the OS key/value record store.
type Store interface {
	// Load returns the persisted record, or nil (with nil error) when no
	// record exists.
	Load() (*InstallationRecord, error)

	// Save writes the record, replacing any existing one.
	Save(rec *InstallationRecord) error

	// Delete removes the record. Deleting an absent record is a no-op.
	Delete() error
}

func boolToFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func flagToBool(s string) bool {
	return s == "1"
}
