package pss

import "github.com/orizon-lang/pss/tuning"

// tuningStore holds the knobs every registered contestant reads at
// call time (classifier thresholds, merge bulk size, the work-sharing
// threshold, the splitter sample count). A contestant already running
// keeps the snapshot it started with; SetTuning only affects sorts
// that start after it returns.
var tuningStore = tuning.NewStore(tuning.Default())

// SetTuning replaces the library's tuning knobs. Safe to call from
// any goroutine.
func SetTuning(cfg tuning.Config) { tuningStore.Set(cfg) }

// Tuning returns the tuning knobs currently in effect.
func Tuning() tuning.Config { return tuningStore.Current() }

// WatchTuningFile starts hot-reloading the tuning knobs from a JSON
// file whenever it changes on disk, in place of one-shot SetTuning
// calls. The returned Watcher must be closed to stop watching.
func WatchTuningFile(path string) (*tuning.Watcher, error) {
	return tuning.WatchFile(path, tuningStore)
}
