package splitter

import (
	"sort"
	"testing"

	"github.com/orizon-lang/pss/internal/strview"
)

func sortedSamples(words []string) []strview.Str {
	cp := make([]string, len(words))
	copy(cp, words)
	sort.Strings(cp)

	out := make([]strview.Str, len(cp))
	for i, s := range cp {
		out[i] = strview.Str(s)
	}

	return out
}

func TestBuildProducesAscendingSplitters(t *testing.T) {
	words := make([]string, 64)
	for i := range words {
		words[i] = string([]byte{byte('a' + i%26), byte('a' + (i*7)%26), byte('a' + (i*13)%26)})
	}

	tree, err := Build(sortedSamples(words), 0, 3)
	if err != nil {
		t.Fatal(err)
	}

	if tree.V != 7 {
		t.Fatalf("V = %d, want 7", tree.V)
	}

	for i := 1; i < tree.V; i++ {
		if tree.Splitter[i-1] > tree.Splitter[i] {
			t.Fatalf("splitter rank order not ascending at %d: %x > %x", i, tree.Splitter[i-1], tree.Splitter[i])
		}
	}

	if tree.LCP[0] != 0 || tree.LCP[tree.V] != 0 {
		t.Fatalf("sentinel LCP entries must be zero, got %d and %d", tree.LCP[0], tree.LCP[tree.V])
	}
}

func TestBuildRejectsBadTreebits(t *testing.T) {
	words := sortedSamples([]string{"a", "b", "c", "d", "e", "f", "g", "h"})
	if _, err := Build(words, 0, 1); err == nil {
		t.Fatal("expected error for treebits below 2")
	}
	if _, err := Build(words, 0, 17); err == nil {
		t.Fatal("expected error for treebits above 16")
	}
}

func TestBuildRejectsTooFewSamples(t *testing.T) {
	words := sortedSamples([]string{"a", "b", "c"})
	if _, err := Build(words, 0, 3); err == nil {
		t.Fatal("expected error: 3 samples cannot supply 7 splitters")
	}
}

func TestHighBitFlagsZeroByteKey(t *testing.T) {
	words := sortedSamples([]string{"a", "ab", "b", "ba", "c", "ca", "d"})

	tree, err := Build(words, 0, 2)
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for r := 0; r < tree.V; r++ {
		if hasZeroByte(tree.Splitter[r]) {
			found = true

			if r > 0 && tree.LCP[r]&HighBit == 0 {
				t.Fatalf("splitter rank %d has a zero byte but LCP[%d] = %#x lacks HighBit", r, r, tree.LCP[r])
			}
		}
	}
	if !found {
		t.Fatal("expected at least one splitter shorter than 8 bytes to flag a zero byte")
	}
}
