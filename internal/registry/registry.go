// Package registry is the contestant registry: every sort algorithm
// variant this library ships (each mergesort K, each sample-sort
// classifier, each parallel-merge worker count) registers itself here
// under a unique name and a semver version tag, so the CLI and the
// benchmark harness can enumerate and dispatch by name instead of the
// caller wiring up a switch statement by hand.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/pss/internal/strview"
)

// SortFunc is the uniform contestant signature every registered
// variant is adapted to: sort str in place, filling lcp[1:] (lcp[0]
// is reserved, as everywhere else in this library).
type SortFunc func(str []strview.Str, lcp []uint64) error

// Entry describes one registered contestant.
type Entry struct {
	Name    string
	Version *semver.Version
	Family  string
	Fn      SortFunc
}

var (
	mu      sync.Mutex
	entries = map[string]Entry{}
	frozen  bool
)

// Register adds a contestant under name, tagged with a semver version
// string and a family label ("mergesort", "samplesort",
// "parallelmerge"). Panics on an invalid version, a duplicate name, or
// a call made after Freeze — all three are programming errors to be
// caught during package init, never a condition a caller recovers
// from at runtime.
func Register(name, version, family string, fn SortFunc) {
	v, err := semver.NewVersion(version)
	if err != nil {
		panic(fmt.Sprintf("registry: invalid version %q for contestant %q: %v", version, name, err))
	}

	mu.Lock()
	defer mu.Unlock()

	if frozen {
		panic(fmt.Sprintf("registry: Register(%q) called after the registry was frozen", name))
	}

	if _, exists := entries[name]; exists {
		panic(fmt.Sprintf("registry: duplicate contestant name %q", name))
	}

	entries[name] = Entry{Name: name, Version: v, Family: family, Fn: fn}
}

// Freeze closes registration. Every contestant registers itself from
// an init func, so by the time any driver or benchmark runs, the set
// of names is fixed; Freeze makes that assumption an enforced
// invariant instead of a convention.
func Freeze() {
	mu.Lock()
	frozen = true
	mu.Unlock()
}

// Reset clears the registry and unfreezes it. Test-only: production
// callers never need to unregister a contestant.
func Reset() {
	mu.Lock()
	entries = map[string]Entry{}
	frozen = false
	mu.Unlock()
}

// Get looks up a contestant by name.
func Get(name string) (Entry, bool) {
	mu.Lock()
	defer mu.Unlock()

	e, ok := entries[name]

	return e, ok
}

// List returns every registered contestant sorted by name, for
// deterministic enumeration.
func List() []Entry {
	mu.Lock()
	defer mu.Unlock()

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}
