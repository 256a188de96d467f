package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/stor/pkg/config"
	"github.com/arthur-debert/stor/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Target)
	assert.False(t, cfg.Copy)
	assert.False(t, cfg.Overwrite)
	assert.False(t, cfg.Simulate)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
target = "/srv/deploy"
copy = true
`)

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/deploy", cfg.Target)
	assert.True(t, cfg.Copy)
	assert.False(t, cfg.Overwrite)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `target = "/srv/deploy"`)

	t.Setenv("STOR_TARGET", "/srv/other")
	t.Setenv("STOR_OVERWRITE", "true")

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/other", cfg.Target)
	assert.True(t, cfg.Overwrite)
}

func TestMalformedFileIsAnError(t *testing.T) {
	path := writeConfig(t, `target = [broken`)

	_, err := config.LoadFrom(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfigParse))
}

func TestDefaultPathUnderConfigHome(t *testing.T) {
	assert.Contains(t, config.DefaultPath(), filepath.Join("stor", config.ConfigFileName))
}
