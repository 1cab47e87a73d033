package sourcecache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DirCache is a filesystem-backed SourceCache: "urls" are local
// directory paths (optionally prefixed with "file://"), fetched by
// copying the tree into cacheDir/key, and unpacked by copying that
// cached tree into the destination. It exists so tests and the CLI can
// exercise checkout end-to-end without a network.
type DirCache struct {
	cacheDir string
}

// NewDirCache returns a DirCache rooted at cacheDir, which is created
// on first Fetch if missing.
func NewDirCache(cacheDir string) *DirCache {
	return &DirCache{cacheDir: cacheDir}
}

// Fetch copies the local directory tree at url into the cache under
// key. label is accepted for interface conformance and ignored here;
// a richer cache would use it for progress reporting.
func (c *DirCache) Fetch(url, key, label string) error {
	src := strings.TrimPrefix(url, "file://")
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("fetching %q: %w", url, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("fetching %q: not a directory", url)
	}

	dst := filepath.Join(c.cacheDir, key)
	if _, err := os.Stat(dst); err == nil {
		// Already cached under this key.
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("preparing cache dir: %w", err)
	}
	return copyTree(src, dst)
}

// Unpack copies the cached tree for key into path.
func (c *DirCache) Unpack(key, path string) error {
	src := filepath.Join(c.cacheDir, key)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("unpacking %q: not fetched: %w", key, err)
	}
	return copyTree(src, path)
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		return copyFile(p, target, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
