/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"github.com/urfave/cli/v3"
)

// Flags shared across commands.
var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   "Output format: yaml, json, table",
		Value:   "yaml",
	}

	recordPathFlag = &cli.StringFlag{
		Name:  "record-path",
		Usage: "Installation record file location",
		Value: "/etc/sentinel/install.record",
	}

	auditLogFlag = &cli.StringFlag{
		Name:  "audit-log",
		Usage: "Installation log file location",
		Value: "/var/log/sentinel/install.log",
	}
)

// boolIfSet returns the flag value only when the operator set it, so
// config file values survive for flags left at their default.
func boolIfSet(cmd *cli.Command, name string) *bool {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.Bool(name)
	return &v
}
