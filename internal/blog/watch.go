package blog

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// Watcher invalidates a Service when files under its directories change.
type Watcher struct {
	svc      *Service
	w        *fsnotify.Watcher
	onReload func()
}

// NewWatcher registers every existing directory under dirs. Missing
// directories are skipped.
func NewWatcher(svc *Service, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir && errors.Is(err, fs.ErrNotExist) {
					log.Printf("[watch] %s does not exist, not watching", dir)
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() {
				return w.Add(path)
			}
			return nil
		})
		if err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return &Watcher{svc: svc, w: w}, nil
}

// OnReload registers fn to run after each invalidation.
func (w *Watcher) OnReload(fn func()) {
	w.onReload = fn
}

func (w *Watcher) Close() error {
	return w.w.Close()
}

// Run blocks until ctx is done, coalescing bursts of events.
func (w *Watcher) Run(ctx context.Context) {
	log.Printf("[watch] watching for content changes ...")
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					if err := w.w.Add(ev.Name); err != nil {
						log.Printf("[watch] cannot watch %s: %v", ev.Name, err)
					}
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Reset(watchDebounce)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			log.Printf("[warn] watcher error: %v", err)
		case <-debounce.C:
			w.svc.Invalidate()
			log.Printf("[watch] content changed, collections invalidated")
			if w.onReload != nil {
				w.onReload()
			}
		}
	}
}
