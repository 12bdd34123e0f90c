package tuning

import (
	"os"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads a Store from a JSON file whenever the file
// changes on disk, translating fsnotify's raw event stream into
// Config swaps the same way the runtime's filesystem watcher
// translates raw events into its own Event type: a single reader
// goroutine owns the fsnotify.Watcher, and callers observe state
// through a channel rather than touching it directly.
type Watcher struct {
	store *Store
	path  string
	fsw   *fsnotify.Watcher
	errC  chan error
	done  chan struct{}
}

// WatchFile starts watching path for writes, applying each successful
// reload to store. The returned Watcher must be closed by the caller.
// If the file does not exist yet, WatchFile still succeeds: the first
// create event triggers the first load.
func WatchFile(path string, store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := parentDir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		store: store,
		path:  path,
		fsw:   fsw,
		errC:  make(chan error, 8),
		done:  make(chan struct{}),
	}

	if _, err := os.Stat(path); err == nil {
		if cfg, err := LoadFile(path); err == nil {
			store.Set(cfg)
		} else {
			w.errC <- err
		}
	}

	go w.loop()

	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			cfg, err := LoadFile(w.path)
			if err != nil {
				select {
				case w.errC <- err:
				default:
				}

				continue
			}

			w.store.Set(cfg)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

			select {
			case w.errC <- err:
			default:
			}
		}
	}
}

// Errors surfaces load/watch failures for the caller to log. It is
// never closed while the Watcher is open; buffered sends are dropped
// once full rather than blocking the reload loop.
func (w *Watcher) Errors() <-chan error { return w.errC }

// Close stops the watch loop and releases the underlying fsnotify
// watcher.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done

	return err
}

func parentDir(path string) string {
	i := len(path) - 1
	for i >= 0 && path[i] != '/' {
		i--
	}
	if i < 0 {
		return "."
	}
	if i == 0 {
		return "/"
	}

	return path[:i]
}
