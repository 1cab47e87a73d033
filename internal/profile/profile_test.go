package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgspec/resolver/internal/checkout"
	"github.com/pkgspec/resolver/internal/docval"
	"github.com/pkgspec/resolver/internal/pkgerrors"
	"github.com/pkgspec/resolver/internal/sourcecache"
)

func writeYAML(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newManager(t *testing.T) *checkout.Manager {
	t.Helper()
	return checkout.New(sourcecache.NewDirCache(t.TempDir()))
}

func TestLoadProfile_MergesParametersAcrossExtends(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "base.yaml", `
parameters:
  optimize: true
`)
	writeYAML(t, dir, "child.yaml", `
extends: [base.yaml]
parameters:
  debug: false
packages: {}
`)

	m := newManager(t)
	defer m.Close()

	p, err := LoadProfile(m, docval.NewString(filepath.Join(dir, "child.yaml")), dir)
	require.NoError(t, err)

	params := p.Parameters()
	assert.Equal(t, true, params["optimize"])
	assert.Equal(t, false, params["debug"])
}

func TestLoadProfile_LocalParameterOverridesAncestor(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "base.yaml", `
parameters:
  optimize: true
`)
	writeYAML(t, dir, "child.yaml", `
extends: [base.yaml]
parameters:
  optimize: false
`)

	m := newManager(t)
	defer m.Close()

	p, err := LoadProfile(m, docval.NewString(filepath.Join(dir, "child.yaml")), dir)
	require.NoError(t, err)
	assert.Equal(t, false, p.Parameters()["optimize"])
}

func TestLoadProfile_CollidingAncestorParameterIsError(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "a.yaml", `
parameters:
  optimize: true
`)
	writeYAML(t, dir, "b.yaml", `
parameters:
  optimize: false
`)
	writeYAML(t, dir, "child.yaml", `
extends: [a.yaml, b.yaml]
`)

	m := newManager(t)
	defer m.Close()

	_, err := LoadProfile(m, docval.NewString(filepath.Join(dir, "child.yaml")), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrParameterCollision))
}

func TestLoadProfile_PackagesMergeAndSkipFilters(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "base.yaml", `
packages:
  foo:
    version: "1.0"
  bar:
    skip: true
`)
	writeYAML(t, dir, "child.yaml", `
extends: [base.yaml]
packages:
  foo:
    variant: minimal
`)

	m := newManager(t)
	defer m.Close()

	p, err := LoadProfile(m, docval.NewString(filepath.Join(dir, "child.yaml")), dir)
	require.NoError(t, err)

	foo := p.PackageSettings("foo")
	version, ok := docval.MapGet(foo, "version").AsString()
	require.True(t, ok)
	assert.Equal(t, "1.0", version)
	variant, ok := docval.MapGet(foo, "variant").AsString()
	require.True(t, ok)
	assert.Equal(t, "minimal", variant)

	bar := p.PackageSettings("bar")
	assert.True(t, bar.IsNull() || bar.Map.Len() == 0)
}

func TestLoadProfile_EmptyDocumentBecomesEmptyMapping(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "empty.yaml", "")

	m := newManager(t)
	defer m.Close()

	p, err := LoadProfile(m, docval.NewString(filepath.Join(dir, "empty.yaml")), dir)
	require.NoError(t, err)
	assert.Empty(t, p.Parameters())
}

func TestLoadProfile_LoadPackageYAMLFindsOverlayFile(t *testing.T) {
	dir := t.TempDir()
	pkgsDir := filepath.Join(dir, "pkgs")
	writeYAML(t, pkgsDir, "foo.yaml", `
dependencies:
  build: []
`)
	writeYAML(t, dir, "profile.yaml", `
package_dirs: [pkgs]
`)

	m := newManager(t)
	defer m.Close()

	p, err := LoadProfile(m, docval.NewString(filepath.Join(dir, "profile.yaml")), dir)
	require.NoError(t, err)

	doc, err := p.LoadPackageYAML("foo")
	require.NoError(t, err)
	require.NotNil(t, doc)

	second, err := p.LoadPackageYAML("foo")
	require.NoError(t, err)
	assert.Same(t, doc, second)
}
