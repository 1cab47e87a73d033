package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgspec/resolver/internal/testutil"
)

func TestLoad_MissingConfigFileIsNotAnError(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	cfg, err := Load(filepath.Join(dir, "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.CacheDir)
}

func TestLoad_ReadsCacheDirFromFile(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	path := testutil.WriteFile(t, dir, "config.yaml", "cache_dir: /tmp/custom-cache\ndefault_profile: profile.yaml\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-cache", cfg.CacheDir)
	assert.Equal(t, "profile.yaml", cfg.DefaultProfile)
}

func TestLoad_EmptyPathFallsBackToDefaultPaths(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	paths, err := DefaultPaths()
	require.NoError(t, err)
	assert.Equal(t, paths.CacheDir, cfg.CacheDir)
}

func TestExpandPath(t *testing.T) {
	expanded, err := ExpandPath("~/profiles")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(expanded))
	assert.Equal(t, "profiles", filepath.Base(expanded))

	unchanged, err := ExpandPath("/abs/profiles")
	require.NoError(t, err)
	assert.Equal(t, "/abs/profiles", unchanged)
}
