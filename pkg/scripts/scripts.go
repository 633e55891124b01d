/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package scripts generates the operator helper scripts (start, stop,
// status) into the installation's bin directory. Generation is
// best-effort: the server is fully usable without the helpers.
package scripts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"
)

// Generator writes helper scripts for an installation.
type Generator interface {
	Generate(params Params) ([]string, error)
}

// Params carries the values rendered into the helper scripts.
type Params struct {
	InstallPath string
	ServiceName string
	Host        string
	Port        int
}

var helperTemplates = map[string]string{
	"sentinel-start.sh": `#!/bin/sh
# Start the Sentinel monitoring server in the foreground.
cd "{{.InstallPath}}" || exit 1
exec node server.js --host {{.Host}} --port {{.Port}}
`,
	"sentinel-stop.sh": `#!/bin/sh
# Stop the Sentinel service if registered, otherwise kill the foreground process.
if command -v systemctl >/dev/null 2>&1 && systemctl list-unit-files "{{.ServiceName}}.service" >/dev/null 2>&1; then
    exec systemctl stop "{{.ServiceName}}"
fi
pkill -f "node server.js --host {{.Host}} --port {{.Port}}"
`,
	"sentinel-status.sh": `#!/bin/sh
# Report whether the Sentinel server answers on its port.
if command -v curl >/dev/null 2>&1; then
    curl -fsS "http://127.0.0.1:{{.Port}}/health" && echo " - up" && exit 0
fi
echo "down"
exit 1
`,
}

// FileGenerator renders the helper templates under <InstallPath>/bin.
type FileGenerator struct{}

// Generate implements the Generator interface, returning the paths of
// every script written.
func (g *FileGenerator) Generate(params Params) ([]string, error) {
	dir := filepath.Join(params.InstallPath, "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scripts directory %q: %w", dir, err)
	}

	written := make([]string, 0, len(helperTemplates))
	for name, body := range helperTemplates {
		tmpl, err := template.New(name).Parse(body)
		if err != nil {
			return written, fmt.Errorf("failed to parse template %q: %w", name, err)
		}

		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
		if err != nil {
			return written, fmt.Errorf("failed to create script %q: %w", path, err)
		}
		if err := tmpl.Execute(f, params); err != nil {
			_ = f.Close()
			return written, fmt.Errorf("failed to render script %q: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return written, fmt.Errorf("failed to close script %q: %w", path, err)
		}

		written = append(written, path)
		slog.Debug("helper script generated", "path", path)
	}

	return written, nil
}
