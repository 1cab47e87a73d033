package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgspec/resolver/internal/config"
	"github.com/pkgspec/resolver/internal/docval"
	"github.com/pkgspec/resolver/internal/testutil"
)

func mustParseDoc(t *testing.T, src string) *docval.Node {
	t.Helper()
	n, err := docval.ParseYAML([]byte(src))
	require.NoError(t, err)
	return n
}

func TestDiffCmd_ReportsAddedRemovedModified(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	cacheDir, cacheCleanup := testutil.TempDir(t)
	defer cacheCleanup()

	profilePath := testutil.WriteFile(t, dir, "profile.yaml", `
package_dirs: ["."]
packages:
  zlib: {}
  bzip2: {}
`)
	testutil.WriteFile(t, dir, "zlib.yaml", `
build_stages:
  - name: compile
    handler: make
sources:
  - url: http://example.com/zlib.tar.gz
    key: md5:aaa
`)
	testutil.WriteFile(t, dir, "bzip2.yaml", `
build_stages:
  - name: compile
    handler: cmake
`)

	resolvedConfig = &config.Config{CacheDir: cacheDir}
	t.Cleanup(func() { resolvedConfig = nil })

	cmd := newDiffCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{profilePath, "zlib", "bzip2"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Removed:")
	assert.Contains(t, out.String(), "sources")
	assert.Contains(t, out.String(), "Modified:")
	assert.Contains(t, out.String(), "build_stages")
}

func TestLineDiff_SkipsCommonLines(t *testing.T) {
	got := lineDiff("a\nb\n", "a\nc\n")
	assert.Equal(t, "- b\n+ c\n", got)
}

func TestDiffDocs_IdenticalDocsAreEmpty(t *testing.T) {
	a := mustParseDoc(t, "x: 1\n")
	b := mustParseDoc(t, "x: 1\n")
	added, removed, modified, err := diffDocs(a, b)
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Empty(t, removed)
	assert.Empty(t, modified)
}
