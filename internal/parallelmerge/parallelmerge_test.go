package parallelmerge

import (
	"bytes"
	"math/rand"
	"sort"
	"testing"

	"github.com/orizon-lang/pss/internal/inssort"
	"github.com/orizon-lang/pss/internal/losertree"
	"github.com/orizon-lang/pss/internal/strview"
	"github.com/orizon-lang/pss/tuning"
)

func sortedRun(words []string) *losertree.Run {
	cp := make([]string, len(words))
	copy(cp, words)
	sort.Strings(cp)

	strs := make([]strview.Str, len(cp))
	for i, w := range cp {
		strs[i] = strview.Str(w)
	}

	lcp := make([]uint64, len(strs))
	inssort.Sort(strs, lcp, 0)

	return losertree.NewRun(strs, lcp)
}

func checkFullySorted(t *testing.T, out []strview.Str, outLCP []uint64) {
	t.Helper()

	for i := 1; i < len(out); i++ {
		if bytes.Compare(out[i-1], out[i]) > 0 {
			t.Fatalf("not sorted at %d: %q > %q", i, out[i-1], out[i])
		}

		want := strview.CommonPrefix(out[i-1], out[i])
		if int(outLCP[i]) != want {
			t.Fatalf("lcp[%d] = %d, want %d", i, outLCP[i], want)
		}
	}
}

func smallCfg() tuning.Config {
	cfg := tuning.Default()
	cfg.MergeBulkSize = 4
	cfg.ShareWorkThreshold = 2
	cfg.SplitSamplesPerRun = 3

	return cfg
}

func TestMergeTwoRuns(t *testing.T) {
	a := sortedRun([]string{"banana", "date", "fig", "kiwi"})
	b := sortedRun([]string{"apple", "cherry", "elderberry", "grape"})

	total := 8
	out := make([]strview.Str, total)
	outLCP := make([]uint64, total)

	if err := Merge([]*losertree.Run{a, b}, out, outLCP, smallCfg(), 2); err != nil {
		t.Fatal(err)
	}

	checkFullySorted(t, out, outLCP)
}

func TestMergeManyRunsStress(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	const numRuns = 9
	const perRun = 500

	var runs []*losertree.Run
	total := 0

	for r := 0; r < numRuns; r++ {
		words := make([]string, perRun)
		for i := range words {
			l := 1 + rng.Intn(12)
			b := make([]byte, l)
			for j := range b {
				b[j] = byte('a' + rng.Intn(4))
			}
			words[i] = string(b)
		}

		runs = append(runs, sortedRun(words))
		total += perRun
	}

	out := make([]strview.Str, total)
	outLCP := make([]uint64, total)

	cfg := smallCfg()
	if err := Merge(runs, out, outLCP, cfg, 4); err != nil {
		t.Fatal(err)
	}

	checkFullySorted(t, out, outLCP)

	if len(out) != total {
		t.Fatalf("output length %d, want %d", len(out), total)
	}
}

func TestMergeRejectsLengthMismatch(t *testing.T) {
	a := sortedRun([]string{"a", "b"})

	out := make([]strview.Str, 3)
	outLCP := make([]uint64, 3)

	if err := Merge([]*losertree.Run{a}, out, outLCP, tuning.Default(), 2); err == nil {
		t.Fatal("expected error when stream total does not match output length")
	}
}

func TestMergeEmptyInput(t *testing.T) {
	if err := Merge(nil, nil, nil, tuning.Default(), 2); err != nil {
		t.Fatal(err)
	}
}

func TestMergeWithEmptyRunAmongNonEmpty(t *testing.T) {
	empty := losertree.NewRun(nil, nil)
	a := sortedRun([]string{"x", "y", "z"})

	out := make([]strview.Str, 3)
	outLCP := make([]uint64, 3)

	if err := Merge([]*losertree.Run{empty, a}, out, outLCP, smallCfg(), 2); err != nil {
		t.Fatal(err)
	}

	checkFullySorted(t, out, outLCP)
}
