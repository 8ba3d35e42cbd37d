// Package watch reloads the FAQ index when its source documents change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dgallion1/faqbot/internal/faq"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor or copy produces.
const DefaultDebounce = 500 * time.Millisecond

// Watcher rebuilds the index in a faq.Store whenever one of its documents is
// written, replaced or removed.
type Watcher struct {
	fs       *fsnotify.Watcher
	paths    []string
	watched  map[string]bool
	store    *faq.Store
	debounce time.Duration
	log      *slog.Logger
}

// New watches the directories holding paths. Directories are watched rather
// than files so that editors which save via rename keep being tracked.
func New(paths []string, store *faq.Store, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		fs:       fsw,
		paths:    paths,
		watched:  make(map[string]bool, len(paths)),
		store:    store,
		debounce: debounce,
		log:      log,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run processes file events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("faq document changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			w.Reload()
		}
	}
}

// Reload rebuilds the index from disk and swaps it in.
func (w *Watcher) Reload() {
	ix := faq.Load(w.paths, w.log)
	prev := w.store.Swap(ix)
	w.log.Info("faq index reloaded", "entries", ix.Len(), "previous_entries", prev.Len())
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.watched[abs]
}
