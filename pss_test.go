package pss

import (
	"bytes"
	"math/rand"
	"sort"
	"testing"
)

func toBytes(strs ...string) [][]byte {
	out := make([][]byte, len(strs))
	for i, s := range strs {
		out[i] = []byte(s)
	}

	return out
}

func assertSorted(t *testing.T, got [][]byte, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}

	for i, w := range want {
		if !bytes.Equal(got[i], []byte(w)) {
			t.Fatalf("got[%d] = %q, want %q (full: %v)", i, got[i], w, got)
		}
	}
}

func assertLCP(t *testing.T, got []uint64, want []uint64) {
	t.Helper()

	if len(got) != len(want)+1 {
		t.Fatalf("lcp length = %d, want %d", len(got), len(want)+1)
	}

	for i, w := range want {
		if got[i+1] != w {
			t.Fatalf("lcp[%d] = %d, want %d", i+1, got[i+1], w)
		}
	}
}

// TestScenarios exercises the small concrete scenarios (a swapped pair,
// shared prefixes, empty strings, duplicates, nested prefixes) against
// three contestants; the large random stress case has its own test.
func TestScenarios(t *testing.T) {
	cases := []struct {
		name   string
		input  []string
		sorted []string
		lcp    []uint64
	}{
		{"two-strings", []string{"b", "a"}, []string{"a", "b"}, []uint64{0}},
		{"four-strings", []string{"ab", "aa", "abc", "aab"}, []string{"aa", "aab", "ab", "abc"}, []uint64{2, 1, 2}},
		{"empties", []string{"", "a", "", ""}, []string{"", "", "", "a"}, []uint64{0, 0, 0}},
		{"ten-copies", repeat("xyz", 10), repeat("xyz", 10), repeatLCP(3, 9)},
		{"bananas", []string{"banana", "ban", "banan", "bandana"}, []string{"ban", "banan", "banana", "bandana"}, []uint64{3, 5, 3}},
	}

	for _, contestant := range []string{"samplesort-simple", "mergesort-k4", "parallelmerge-w2"} {
		for _, c := range cases {
			t.Run(contestant+"/"+c.name, func(t *testing.T) {
				strs := toBytes(c.input...)
				lcp := make([]uint64, len(strs))

				if err := SortNamed(contestant, strs, lcp); err != nil {
					t.Fatalf("SortNamed: %v", err)
				}

				assertSorted(t, strs, c.sorted)
				assertLCP(t, lcp, c.lcp)
			})
		}
	}
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}

	return out
}

func repeatLCP(v uint64, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

// TestEmptyInput exercises n=0 across the public entry points.
func TestEmptyInput(t *testing.T) {
	if err := Sort(nil); err != nil {
		t.Fatalf("Sort(nil): %v", err)
	}

	if err := SortWithLCP(nil, nil); err != nil {
		t.Fatalf("SortWithLCP(nil, nil): %v", err)
	}
}

// TestSortWithLCPRejectsLengthMismatch checks the synchronous
// invalid-argument error path before any work starts.
func TestSortWithLCPRejectsLengthMismatch(t *testing.T) {
	strs := toBytes("a", "b")
	lcp := make([]uint64, 1)

	if err := SortWithLCP(strs, lcp); err == nil {
		t.Fatal("expected an error for mismatched lcp length")
	}
}

// TestSortNamedRejectsUnknownContestant exercises the one error path
// specific to dispatch by name.
func TestSortNamedRejectsUnknownContestant(t *testing.T) {
	strs := toBytes("a")
	lcp := make([]uint64, 1)

	if err := SortNamed("does-not-exist", strs, lcp); err == nil {
		t.Fatal("expected an error for an unregistered contestant name")
	}
}

// TestIdempotence sorts already-sorted input a second time and checks
// the arrangement and LCP array are unchanged.
func TestIdempotence(t *testing.T) {
	strs := toBytes("aa", "aab", "ab", "abc")
	lcp := make([]uint64, len(strs))

	if err := SortWithLCP(strs, lcp); err != nil {
		t.Fatalf("first sort: %v", err)
	}

	before := make([][]byte, len(strs))
	copy(before, strs)
	beforeLCP := append([]uint64(nil), lcp...)

	if err := SortWithLCP(strs, lcp); err != nil {
		t.Fatalf("second sort: %v", err)
	}

	for i := range strs {
		if !bytes.Equal(strs[i], before[i]) {
			t.Fatalf("idempotence violated at %d: %q vs %q", i, strs[i], before[i])
		}
	}
	for i := range lcp {
		if lcp[i] != beforeLCP[i] {
			t.Fatalf("lcp idempotence violated at %d: %d vs %d", i, lcp[i], beforeLCP[i])
		}
	}
}

// TestPermutation checks the multiset of strings is preserved.
func TestPermutation(t *testing.T) {
	in := []string{"delta", "alpha", "charlie", "bravo", "alpha"}
	strs := toBytes(in...)
	lcp := make([]uint64, len(strs))

	if err := SortWithLCP(strs, lcp); err != nil {
		t.Fatalf("SortWithLCP: %v", err)
	}

	got := make([]string, len(strs))
	for i, s := range strs {
		got[i] = string(s)
	}

	want := append([]string(nil), in...)
	sort.Strings(got)
	sort.Strings(want)

	if len(got) != len(want) {
		t.Fatalf("length changed: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("multiset not preserved: %v vs %v", got, want)
		}
	}
}

// TestStressAllContestantsAgree is the scenario-6 stress case: a
// sizable random batch is run through every registered contestant
// (sequential mergesort variants, every classifier variant, and the
// parallel merge driver at several worker counts) and all of them must
// agree on both the sorted order and the LCP array.
func TestStressAllContestantsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 6000

	strs := make([]string, n)
	for i := range strs {
		strs[i] = randomString(rng, 16)
	}

	in := make([]string, n)
	copy(in, strs)

	results := make(map[string][]string)
	lcps := make(map[string][]uint64)

	for _, name := range []string{
		"mergesort-k4", "mergesort-k16", "mergesort-k32", "mergesort-k64",
		"samplesort-simple", "samplesort-unrolled", "samplesort-interleaved", "samplesort-binsearch",
		"parallelmerge-w1", "parallelmerge-w2", "parallelmerge-w4", "parallelmerge-w8",
	} {
		input := toBytes(in...)
		lcp := make([]uint64, n)

		if err := SortNamed(name, input, lcp); err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		out := make([]string, n)
		for i, s := range input {
			out[i] = string(s)
		}

		results[name] = out
		lcps[name] = lcp

		for j := 1; j < n; j++ {
			if out[j-1] > out[j] {
				t.Fatalf("%s: not sorted at %d: %q > %q", name, j, out[j-1], out[j])
			}
		}
	}

	var reference string

	for name, out := range results {
		if reference == "" {
			reference = name
			continue
		}

		if !equalStrings(out, results[reference]) {
			t.Fatalf("%s disagrees with %s on sorted order", name, reference)
		}

		if !equalUint64(lcps[name], lcps[reference]) {
			t.Fatalf("%s disagrees with %s on the LCP array", name, reference)
		}
	}
}

// TestReservedLCPZeroSurvivesRecursion checks that lcp[0] — reserved,
// never read or written per the caller contract — survives every
// contestant that can trigger real recursion (mergesort past 2*k,
// samplesort past SmallsortThreshold, parallelmerge chunking into
// mergesort), rather than being clobbered by an internal merge step's
// final buffer copy.
func TestReservedLCPZeroSurvivesRecursion(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	n := 5000

	strs := make([]string, n)
	for i := range strs {
		strs[i] = randomString(rng, 12)
	}

	const sentinel = uint64(0xfeedface)

	for _, name := range []string{
		"mergesort-k4", "samplesort-simple", "parallelmerge-w4",
	} {
		input := toBytes(strs...)
		lcp := make([]uint64, n)
		lcp[0] = sentinel

		if err := SortNamed(name, input, lcp); err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		if lcp[0] != sentinel {
			t.Fatalf("%s: lcp[0] = %#x, want untouched sentinel %#x", name, lcp[0], sentinel)
		}

		for j := 1; j < n; j++ {
			if string(input[j-1]) > string(input[j]) {
				t.Fatalf("%s: not sorted at %d", name, j)
			}
		}
	}
}

func randomString(rng *rand.Rand, n int) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}

	return string(b)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func equalUint64(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// TestListContestantsCoversEveryFamily checks the registered set
// matches the parametric family §6 names: mergesort K, samplesort
// classifier variant, and parallel-merge worker count.
func TestListContestantsCoversEveryFamily(t *testing.T) {
	all := ListContestants()

	want := map[string]bool{
		"mergesort-k4": false, "mergesort-k16": false, "mergesort-k32": false, "mergesort-k64": false,
		"samplesort-simple": false, "samplesort-unrolled": false, "samplesort-interleaved": false, "samplesort-binsearch": false,
		"parallelmerge-w1": false, "parallelmerge-w2": false, "parallelmerge-w4": false, "parallelmerge-w8": false,
	}

	for _, e := range all {
		want[e.Name] = true
	}

	for name, seen := range want {
		if !seen {
			t.Fatalf("contestant %q was not registered", name)
		}
	}
}
