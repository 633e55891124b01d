package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/sentinel-installer/pkg/config"
	"github.com/NVIDIA/sentinel-installer/pkg/errors"
)

// runCollect drives the install command's flag parsing into
// collectConfig without executing the installer.
func runCollect(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	var cfg *config.Config
	var collectErr error

	cmd := installCmd()
	cmd.Action = func(_ context.Context, c *cli.Command) error {
		cfg, collectErr = collectConfig(c)
		return nil
	}

	err := cmd.Run(context.Background(), append([]string{"install"}, args...))
	require.NoError(t, err)
	return cfg, collectErr
}

func TestCollectConfigDefaults(t *testing.T) {
	cfg, err := runCollect(t)
	require.NoError(t, err)

	assert.Equal(t, 5002, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "/opt/sentinel", cfg.InstallPath)
	assert.True(t, cfg.BackupOnReinstall)
	assert.False(t, cfg.InstallService)
}

func TestCollectConfigFlags(t *testing.T) {
	cfg, err := runCollect(t,
		"--port", "6000",
		"--host", "127.0.0.1",
		"--server-log-level", "debug",
		"--install-service",
		"--configure-firewall",
		"--force")
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, config.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.InstallService)
	assert.True(t, cfg.ConfigureFirewall)
	assert.True(t, cfg.Force)
}

func TestCollectConfigInvalidPort(t *testing.T) {
	_, err := runCollect(t, "--port", "not-a-port")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	assert.Equal(t, exitGeneric, exitCode(err))
}

func TestCollectConfigFilePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentinel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\nhost: 10.0.0.5\ninstallService: true\n"), 0o600))

	cfg, err := runCollect(t, "--config", path, "--port", "6000")
	require.NoError(t, err)

	// Explicit flags win; untouched fields come from the file.
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "10.0.0.5", cfg.Host)
	assert.True(t, cfg.InstallService)
}

func TestCollectConfigMissingFile(t *testing.T) {
	_, err := runCollect(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
