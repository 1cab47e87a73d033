// Package sourcecache defines the source cache collaborator contract
// used by the Source Checkout Manager, plus a filesystem-backed
// implementation for tests and offline CLI use.
package sourcecache

// SourceCache fetches and unpacks a source tree identified by a stable
// key. Fetch and Unpack are synchronous; Unpack guarantees the
// destination is populated on success and leaves it in an unspecified
// state on failure — the caller (internal/checkout) is responsible for
// cleaning up.
type SourceCache interface {
	// Fetch retrieves the tree at url into the cache under key, labeled
	// label for diagnostics/progress reporting. Idempotent: fetching the
	// same key twice is a cache hit.
	Fetch(url, key, label string) error
	// Unpack extracts the cached tree for key into path, which must
	// already exist.
	Unpack(key, path string) error
}
