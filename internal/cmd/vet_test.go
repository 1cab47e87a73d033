package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgspec/resolver/internal/config"
	"github.com/pkgspec/resolver/internal/testutil"
)

func TestVetCmd_ReportsCandidatesAndParents(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	cacheDir, cacheCleanup := testutil.TempDir(t)
	defer cacheCleanup()

	profilePath := testutil.WriteFile(t, dir, "profile.yaml", `
package_dirs: ["."]
packages:
  zlib: {}
`)
	testutil.WriteFile(t, dir, "zlib.yaml", `
extends: [libc]
build_stages: []
`)
	testutil.WriteFile(t, dir, "libc.yaml", `build_stages: []`)

	resolvedConfig = &config.Config{CacheDir: cacheDir}
	t.Cleanup(func() { resolvedConfig = nil })

	cmd := newVetCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{profilePath, "zlib"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "zlib")
	assert.Contains(t, out.String(), "libc")
}

func TestVetCmd_UnresolvedPackageIsError(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	cacheDir, cacheCleanup := testutil.TempDir(t)
	defer cacheCleanup()

	profilePath := testutil.WriteFile(t, dir, "profile.yaml", `
package_dirs: ["."]
packages:
  ghost: {}
`)

	resolvedConfig = &config.Config{CacheDir: cacheDir}
	t.Cleanup(func() { resolvedConfig = nil })

	cmd := newVetCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{profilePath, "ghost"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, out.String(), "ghost")
}
