package watch

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// localWatcher observes a working tree recursively via fsnotify and
// coalesces event bursts (one commit touching many files) into a single
// notification through a debounce timer.
type localWatcher struct {
	watcher  *fsnotify.Watcher
	debounce *Debouncer
}

// StartLocal begins watching root and all its subdirectories.
// Directories created later are added as they appear. A watcher-level
// error is forwarded as an error event and the watcher shuts down.
func StartLocal(root string, delay time.Duration, notify func(Event)) (Notifier, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := addRecursive(watcher, root); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &localWatcher{
		watcher: watcher,
		debounce: NewDebouncer(delay, func() {
			notify(Event{Path: root})
		}),
	}
	go w.loop(root, notify)
	return w, nil
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func (w *localWatcher) loop(root string, notify func(Event)) {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if shouldIgnore(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				// New subdirectories need their own watch.
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addRecursive(w.watcher, ev.Name)
				}
			}
			w.debounce.Trigger()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify watcher failed", slog.String("path", root), slog.Any("error", err))
			notify(Event{Path: root, Err: err})
			return
		}
	}
}

// shouldIgnore filters transient paths that churn during normal git
// operation without representing a logical change of their own.
func shouldIgnore(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".lock")
}

func (w *localWatcher) Stop() {
	w.debounce.Stop()
	if err := w.watcher.Close(); err != nil {
		slog.Error("watcher close", slog.Any("error", err))
	}
}
