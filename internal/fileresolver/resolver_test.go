package fileresolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type identityResolver struct{}

func (identityResolver) Resolve(path string) (string, error) { return path, nil }

func mkfile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFind_FirstHitWinsAcrossRootsAndCandidates(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()
	mkfile(t, filepath.Join(low, "pkg.yaml"))
	mkfile(t, filepath.Join(high, "pkg", "pkg.yaml"))

	r := New([]string{high, low}, identityResolver{})
	path, ok, err := r.Find([]string{"pkg.yaml", "pkg/pkg.yaml"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(high, "pkg", "pkg.yaml"), path)
}

func TestFind_NoHitReturnsFalse(t *testing.T) {
	r := New([]string{t.TempDir()}, identityResolver{})
	_, ok, err := r.Find([]string{"missing.yaml"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGlob_HigherPriorityRootOverwrites(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()
	mkfile(t, filepath.Join(low, "a.yaml"))
	mkfile(t, filepath.Join(low, "b.yaml"))
	mkfile(t, filepath.Join(high, "a.yaml"))

	r := New([]string{high, low}, identityResolver{})
	matches, err := r.Glob([]string{"*.yaml"})
	require.NoError(t, err)

	require.Contains(t, matches, "a.yaml")
	require.Contains(t, matches, "b.yaml")
	assert.Equal(t, filepath.Join(high, "a.yaml"), matches["a.yaml"])
	assert.Equal(t, filepath.Join(low, "b.yaml"), matches["b.yaml"])
}
