package workspace

import (
	"slices"
	"sync"
)

// Roots is the set of project roots of a session.
// It implements the engine's ProjectRootProvider.
type Roots struct {
	mu    sync.RWMutex
	roots []string
}

// NewRoots creates a root set from paths.
func NewRoots(paths ...string) *Roots {
	r := &Roots{}
	r.Set(paths)
	return r
}

// Set replaces the roots. Paths are made absolute, normalized and
// deduplicated; order is preserved.
func (r *Roots) Set(paths []string) {
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		n := NormalizeRoot(p)
		if n == "" || slices.Contains(roots, n) {
			continue
		}
		roots = append(roots, n)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots = roots
}

// Roots returns a copy of the current roots.
func (r *Roots) Roots() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.roots)
}

// Relativize finds the root containing path and returns the path relative
// to it. When roots are nested the deepest containing root wins.
func (r *Roots) Relativize(path string) (root, rel string, ok bool) {
	path = Normalize(path)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, candidate := range r.roots {
		candidateRel, inside := Rel(candidate, path)
		if !inside {
			continue
		}
		if !ok || len(candidate) > len(root) {
			root, rel, ok = candidate, candidateRel, true
		}
	}
	return root, rel, ok
}
