// Package tuning holds the runtime-adjustable constants every algorithm
// family reads: small-sort thresholds, sample-sort tree depth, merge
// bulk sizing, and the work-sharing threshold the parallel driver uses.
// Values load from flags with sane defaults, and can optionally be
// hot-reloaded from a JSON file for long-running benchmark harnesses.
package tuning

import (
	"encoding/json"
	"flag"
	"os"
	"sync/atomic"
)

// Config is the full set of tunables. See SPEC_FULL.md's Open Question
// resolutions for the defaults' provenance.
type Config struct {
	// SmallsortThreshold is the bucket size at or below which sample
	// sort falls through to the base-case insertion sort (C2) instead
	// of recursing further. The mergesort does not read it: its base
	// case is fixed at ranges of at most 2K.
	SmallsortThreshold int `json:"smallsort_threshold"`

	// Treebits is the sample-sort splitter tree depth B.
	Treebits int `json:"treebits"`

	// SampleOversampleFactor scales how many samples are drawn per
	// splitter when building a classifier tree.
	SampleOversampleFactor int `json:"sample_oversample_factor"`

	// MergeBulkSize is the chunk size the parallel LCP-merge driver
	// processes per loser-tree call before checking whether to share
	// work.
	MergeBulkSize int `json:"merge_bulk_size"`

	// ShareWorkThreshold is the minimum estimated remaining work (in
	// elements) before a merge job voluntarily interrupts itself to
	// split and share with idle workers.
	ShareWorkThreshold int `json:"share_work_threshold"`

	// SplitSamplesPerRun is S, the number of evenly spaced samples the
	// parallel driver extracts per residual run when (re)splitting.
	SplitSamplesPerRun int `json:"split_samples_per_run"`
}

// Default returns the constants this library ships with.
func Default() Config {
	return Config{
		SmallsortThreshold:     1024,
		Treebits:               10,
		SampleOversampleFactor: 16,
		MergeBulkSize:          1024,
		ShareWorkThreshold:     2 * 1024,
		SplitSamplesPerRun:     20,
	}
}

// FlagSet registers every tunable onto fs, seeded from Default(), and
// returns a pointer the caller can dereference after fs.Parse.
func FlagSet(fs *flag.FlagSet) *Config {
	cfg := Default()

	fs.IntVar(&cfg.SmallsortThreshold, "smallsort-threshold", cfg.SmallsortThreshold,
		"strings at or below this bucket size fall through to insertion sort")
	fs.IntVar(&cfg.Treebits, "treebits", cfg.Treebits, "sample-sort splitter tree depth")
	fs.IntVar(&cfg.SampleOversampleFactor, "oversample", cfg.SampleOversampleFactor,
		"samples drawn per splitter when building a classifier tree")
	fs.IntVar(&cfg.MergeBulkSize, "merge-bulk-size", cfg.MergeBulkSize,
		"elements processed per parallel merge chunk before a work-sharing check")
	fs.IntVar(&cfg.ShareWorkThreshold, "share-work-threshold", cfg.ShareWorkThreshold,
		"minimum estimated remaining work before a merge job splits itself")
	fs.IntVar(&cfg.SplitSamplesPerRun, "split-samples", cfg.SplitSamplesPerRun,
		"samples drawn per residual run when the parallel driver (re)splits")

	return &cfg
}

// Store is a hot-reloadable Config: Current() is lock-free and safe to
// call from any worker goroutine mid-sort.
type Store struct {
	v atomic.Pointer[Config]
}

// NewStore wraps an initial config in a Store.
func NewStore(cfg Config) *Store {
	s := &Store{}
	s.v.Store(&cfg)

	return s
}

// Current returns the active config. Never nil.
func (s *Store) Current() Config { return *s.v.Load() }

// Set atomically replaces the active config.
func (s *Store) Set(cfg Config) { s.v.Store(&cfg) }

// LoadFile reads a JSON-encoded Config from path, starting from
// Default() so a partial file only overrides the fields it sets.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
