package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateXDG points the XDG directories at temp space so tests never
// pick up the developer's stor.toml or write logs into their state dir.
func isolateXDG(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)
}

func setupModule(t *testing.T) (module, target string) {
	t.Helper()
	root := t.TempDir()
	module = filepath.Join(root, "vim")
	target = filepath.Join(root, "home")
	require.NoError(t, os.MkdirAll(filepath.Join(module, "colors"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(module, "vimrc"), []byte("set nocompatible"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(module, "colors", "dark.vim"), []byte("hi Normal"), 0o644))
	require.NoError(t, os.MkdirAll(target, 0o755))
	return module, target
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestStowCommandCreatesLinks(t *testing.T) {
	isolateXDG(t)
	module, target := setupModule(t)

	require.NoError(t, execute(t, "-t", target, module))

	dest, err := os.Readlink(filepath.Join(target, "vimrc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(module, "vimrc"), dest)

	info, err := os.Lstat(filepath.Join(target, "colors"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDeleteFlagUnstows(t *testing.T) {
	isolateXDG(t)
	module, target := setupModule(t)

	require.NoError(t, execute(t, "-t", target, module))
	require.NoError(t, execute(t, "-t", target, "-D", module))

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRestowFlag(t *testing.T) {
	isolateXDG(t)
	module, target := setupModule(t)

	require.NoError(t, execute(t, "-t", target, module))
	require.NoError(t, execute(t, "-t", target, "-R", module))

	dest, err := os.Readlink(filepath.Join(target, "vimrc"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(module, "vimrc"), dest)
}

func TestSimulateFlagMakesNoChanges(t *testing.T) {
	isolateXDG(t)
	module, target := setupModule(t)

	require.NoError(t, execute(t, "-t", target, "-n", module))

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNoAliasForSimulate(t *testing.T) {
	isolateXDG(t)
	module, target := setupModule(t)

	require.NoError(t, execute(t, "-t", target, "--no", module))

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCopyFlagCopiesFiles(t *testing.T) {
	isolateXDG(t)
	module, target := setupModule(t)

	require.NoError(t, execute(t, "-t", target, "-c", module))

	info, err := os.Lstat(filepath.Join(target, "vimrc"))
	require.NoError(t, err)
	assert.Zero(t, info.Mode()&os.ModeSymlink)

	data, err := os.ReadFile(filepath.Join(target, "vimrc"))
	require.NoError(t, err)
	assert.Equal(t, "set nocompatible", string(data))
}

func TestInvalidModuleIsSkippedNotFatal(t *testing.T) {
	isolateXDG(t)
	module, target := setupModule(t)

	// A bogus module plus a valid one: the run succeeds and the valid
	// module is still stowed.
	missing := filepath.Join(t.TempDir(), "missing")
	require.NoError(t, execute(t, "-t", target, missing, module))

	_, err := os.Readlink(filepath.Join(target, "vimrc"))
	assert.NoError(t, err)
}

func TestDeleteAndRestowAreMutuallyExclusive(t *testing.T) {
	isolateXDG(t)
	module, target := setupModule(t)

	err := execute(t, "-t", target, "-D", "-R", module)
	assert.Error(t, err)
}

func TestRequiresAtLeastOneModule(t *testing.T) {
	isolateXDG(t)
	assert.Error(t, execute(t))
}

func TestConfigSuppliesDefaultTarget(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	module, target := setupModule(t)
	require.NoError(t, os.MkdirAll(filepath.Join(configHome, "stor"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(configHome, "stor", "stor.toml"),
		[]byte("target = \""+target+"\"\n"), 0o644))

	require.NoError(t, execute(t, module))

	_, err := os.Readlink(filepath.Join(target, "vimrc"))
	assert.NoError(t, err)
}
