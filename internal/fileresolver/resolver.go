// Package fileresolver implements Component D: searching an ordered
// list of overlay roots for the first matching candidate file, and
// globbing across all roots with highest-priority-wins semantics.
package fileresolver

import (
	"os"
	"path/filepath"
)

// PathResolver expands the reserved "<name>rest" checkout path form
// into a physical path; internal/checkout.Manager implements this.
type PathResolver interface {
	Resolve(path string) (string, error)
}

// Resolver searches an ordered list of overlay roots, highest priority
// first. Roots may themselves be reserved checkout paths.
type Resolver struct {
	roots   []string
	resolve PathResolver
}

// New constructs a Resolver over roots, in priority order (first wins).
func New(roots []string, resolve PathResolver) *Resolver {
	return &Resolver{roots: roots, resolve: resolve}
}

// Find returns the first candidate, under the first root, whose
// resolved physical path exists on disk. The result is returned in
// unresolved "<root>/<candidate>" form so a later resolver stage can
// re-resolve it (e.g. against a different checkout scope). ok is false
// if no root/candidate pair exists on disk.
func (r *Resolver) Find(filenames []string) (path string, ok bool, err error) {
	for _, root := range r.roots {
		for _, candidate := range filenames {
			unresolved := filepath.Join(root, candidate)
			physical, err := r.resolve.Resolve(unresolved)
			if err != nil {
				return "", false, err
			}
			if _, statErr := os.Stat(physical); statErr == nil {
				return unresolved, true, nil
			}
		}
	}
	return "", false, nil
}

// Glob matches patterns against every root and returns a mapping from
// each matched relative name (the matched path below its root) to its
// physical path. Roots are visited last-to-first so that later (lower
// priority) roots populate the map first, and earlier (higher priority)
// roots overwrite — producing the effective, highest-priority match per
// relative name.
func (r *Resolver) Glob(patterns []string) (map[string]string, error) {
	out := make(map[string]string)

	for i := len(r.roots) - 1; i >= 0; i-- {
		root := r.roots[i]

		resolvedRoot, err := r.resolve.Resolve(root)
		if err != nil {
			return nil, err
		}

		for _, pattern := range patterns {
			unresolvedPattern := filepath.Join(root, pattern)
			physicalPattern, err := r.resolve.Resolve(unresolvedPattern)
			if err != nil {
				return nil, err
			}

			matches, err := filepath.Glob(physicalPattern)
			if err != nil {
				return nil, err
			}
			for _, match := range matches {
				rel, err := filepath.Rel(resolvedRoot, match)
				if err != nil {
					return nil, err
				}
				out[rel] = match
			}
		}
	}

	return out, nil
}
