package checkout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgspec/resolver/internal/pkgerrors"
	"github.com/pkgspec/resolver/internal/sourcecache"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCheckout_FetchUnpackAndResolve(t *testing.T) {
	sourceDir := t.TempDir()
	writeFile(t, sourceDir, "marker.txt", "hello")

	cacheDir := t.TempDir()
	cache := sourcecache.NewDirCache(cacheDir)
	m := New(cache)
	defer m.Close()

	path, err := m.Checkout("mypkg", "key1", []string{sourceDir})
	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(path, "marker.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	resolved, err := m.Resolve("<mypkg>/marker.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(path, "marker.txt"), resolved)
}

func TestResolve_PassesThroughNonReservedPaths(t *testing.T) {
	m := New(sourcecache.NewDirCache(t.TempDir()))
	resolved, err := m.Resolve("plain/relative/path.yaml")
	require.NoError(t, err)
	assert.Equal(t, "plain/relative/path.yaml", resolved)
}

func TestResolve_UnboundNameIsError(t *testing.T) {
	m := New(sourcecache.NewDirCache(t.TempDir()))
	_, err := m.Resolve("<nope>/file")
	require.Error(t, err)
}

func TestCheckout_NameReboundToDifferentKeyIsError(t *testing.T) {
	sourceDir := t.TempDir()
	writeFile(t, sourceDir, "f.txt", "x")

	m := New(sourcecache.NewDirCache(t.TempDir()))
	defer m.Close()

	_, err := m.Checkout("mypkg", "key1", []string{sourceDir})
	require.NoError(t, err)

	_, err = m.Checkout("mypkg", "key2", []string{sourceDir})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrCheckoutNameReuse))
}

func TestCheckout_MultipleURLsIsError(t *testing.T) {
	m := New(sourcecache.NewDirCache(t.TempDir()))
	defer m.Close()

	_, err := m.Checkout("mypkg", "key1", []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrCheckoutNameReuse))
}

func TestClose_RemovesAllTempDirsBestEffort(t *testing.T) {
	sourceDir := t.TempDir()
	writeFile(t, sourceDir, "f.txt", "x")

	m := New(sourcecache.NewDirCache(t.TempDir()))
	path, err := m.Checkout("mypkg", "key1", []string{sourceDir})
	require.NoError(t, err)

	require.NoError(t, m.Close())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
