// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package probe

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"
)

var (
	osReleasePrimary  = "/etc/os-release"
	osReleaseFallback = "/usr/lib/os-release"
)

// OSProber reads operating system release information from
// /etc/os-release. Per freedesktop.org spec, falls back to
// /usr/lib/os-release if the primary file doesn't exist.
type OSProber struct {
	// ReleasePath overrides the os-release file location, for tests.
	ReleasePath string
}

// Name implements the Prober interface.
func (p *OSProber) Name() string { return "os" }

// Probe reads the release file into the report. Missing or unreadable
// files leave the OS section unknown.
func (p *OSProber) Probe(_ context.Context, r *Report) {
	root := p.ReleasePath
	if root == "" {
		root = osReleasePrimary
		if _, err := os.Stat(root); os.IsNotExist(err) {
			root = osReleaseFallback
		}
	}

	params, err := parseKVFile(root)
	if err != nil {
		slog.Warn("could not read os release, reporting unknown", "path", root, "error", err)
		return
	}

	r.OS = OSInfo{
		ID:         params["ID"],
		VersionID:  params["VERSION_ID"],
		PrettyName: params["PRETTY_NAME"],
		Known:      params["ID"] != "" && params["VERSION_ID"] != "",
	}
}

// parseKVFile parses a KEY=VALUE file such as os-release, skipping
// comments and malformed lines, and trimming surrounding quotes from
// values.
func parseKVFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	params := make(map[string]string, 15)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		params[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return params, scanner.Err()
}
