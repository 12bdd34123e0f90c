package parallelmerge

import (
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/orizon-lang/pss/internal/losertree"
	"github.com/orizon-lang/pss/internal/strview"
	"github.com/orizon-lang/pss/tuning"
)

func strs(ss ...string) []strview.Str {
	out := make([]strview.Str, len(ss))
	for i, s := range ss {
		out[i] = strview.Str(s)
	}
	return out
}

// TestMergeJobYieldsOnIdleWorkerWithoutRealWorkers exercises the
// work-sharing heuristic in mergeToOutput against a mocked JobQueue,
// asserting HasIdle is actually consulted and that reporting an idle
// worker once the share-work threshold clears makes the job bail out
// early and surface the unwritten remainder, without ever starting a
// NumaLoop worker.
func TestMergeJobYieldsOnIdleWorkerWithoutRealWorkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	mq := NewMockJobQueue(ctrl)
	mq.EXPECT().HasIdle().Return(true).MinTimes(1)

	run := losertree.NewRun(strs("aa", "bb", "cc", "dd", "ee", "ff"), make([]uint64, 6))
	tree, err := losertree.New(8, []*losertree.Run{run})
	if err != nil {
		t.Fatalf("losertree.New: %v", err)
	}

	d := &driver{q: mq, cfg: tuning.Config{MergeBulkSize: 1, ShareWorkThreshold: 2}}
	d.longestJob.Store(6)

	out := make([]strview.Str, 6)
	outLCP := make([]uint64, 6)

	j := &mergeJob{d: d, tree: tree, out: out, outLCP: outLCP, length: 6}

	if j.mergeToOutput() {
		t.Fatal("expected mergeToOutput to yield once an idle worker is reported and length clears the threshold")
	}

	if j.length != 6 {
		t.Fatalf("expected the job to yield before writing anything (still the longest job seen), got length=%d", j.length)
	}
	for i, s := range out {
		if s != nil {
			t.Fatalf("position %d was written despite an immediate yield", i)
		}
	}
}

// TestMergeJobRunsToCompletionWithoutIdleWorkers confirms the same
// driver never yields when HasIdle reports false throughout, so the
// mock also pins down the "don't share work nobody's waiting for"
// branch.
func TestMergeJobRunsToCompletionWithoutIdleWorkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	mq := NewMockJobQueue(ctrl)
	mq.EXPECT().HasIdle().Return(false).AnyTimes()

	run := losertree.NewRun(strs("aa", "bb", "cc", "dd"), make([]uint64, 4))
	tree, err := losertree.New(4, []*losertree.Run{run})
	if err != nil {
		t.Fatalf("losertree.New: %v", err)
	}

	d := &driver{q: mq, cfg: tuning.Config{MergeBulkSize: 1, ShareWorkThreshold: 1}}
	d.longestJob.Store(4)

	out := make([]strview.Str, 4)
	outLCP := make([]uint64, 4)

	j := &mergeJob{d: d, tree: tree, out: out, outLCP: outLCP, length: 4}

	if !j.mergeToOutput() {
		t.Fatalf("expected mergeToOutput to finish without yielding, remainder length=%d", j.length)
	}

	for i, s := range out {
		if string(s) == "" {
			t.Fatalf("position %d left unwritten", i)
		}
	}
}
