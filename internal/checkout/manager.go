// Package checkout implements Component C: the Source Checkout
// Manager. It maintains name -> (key, temp path) bindings over a
// scoped lifetime and guarantees best-effort cleanup on Close.
package checkout

import (
	"errors"
	"fmt"
	"os"

	"github.com/pkgspec/resolver/internal/pkgerrors"
	"github.com/pkgspec/resolver/internal/sourcecache"
)

type binding struct {
	key      string
	tempPath string
}

// Manager is the scoped acquisition boundary for source checkouts. A
// caller performs zero or more Checkout calls and must call Close
// exactly once, typically via defer, to release every temp directory
// allocated through this Manager.
type Manager struct {
	cache    sourcecache.SourceCache
	bindings map[string]binding
}

// New constructs a Manager backed by cache.
func New(cache sourcecache.SourceCache) *Manager {
	return &Manager{cache: cache, bindings: make(map[string]binding)}
}

// Checkout binds name to key, fetching urls[0] into the source cache
// and unpacking it into a fresh temporary directory. Re-checking out an
// already-bound name under a different key is an error. Exactly one URL
// is required.
func (m *Manager) Checkout(name, key string, urls []string) (string, error) {
	if existing, ok := m.bindings[name]; ok {
		if existing.key != key {
			return "", pkgerrors.New(pkgerrors.ErrCheckoutNameReuse,
				"name %q already bound to key %q, cannot rebind to %q", name, existing.key, key)
		}
		return existing.tempPath, nil
	}

	if len(urls) != 1 {
		return "", pkgerrors.New(pkgerrors.ErrCheckoutNameReuse,
			"checkout %q requires exactly one source url, got %d", name, len(urls))
	}
	url := urls[0]

	if err := m.cache.Fetch(url, key, name); err != nil {
		return "", fmt.Errorf("fetching %q: %w", name, err)
	}

	tempPath, err := os.MkdirTemp("", "pkgspec-checkout-")
	if err != nil {
		return "", fmt.Errorf("allocating checkout dir for %q: %w", name, err)
	}

	if err := m.cache.Unpack(key, tempPath); err != nil {
		_ = os.RemoveAll(tempPath)
		return "", fmt.Errorf("unpacking %q: %w", name, err)
	}

	m.bindings[name] = binding{key: key, tempPath: tempPath}
	return tempPath, nil
}

// Close deletes every temp directory allocated through this Manager,
// best-effort: it attempts every deletion even if earlier ones fail,
// returning the joined errors.
func (m *Manager) Close() error {
	var errs []error
	for name, b := range m.bindings {
		if err := os.RemoveAll(b.tempPath); err != nil {
			errs = append(errs, fmt.Errorf("removing checkout %q at %q: %w", name, b.tempPath, err))
		}
	}
	m.bindings = make(map[string]binding)
	return errors.Join(errs...)
}
