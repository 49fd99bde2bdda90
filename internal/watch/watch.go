// Package watch reports changes to .feature files under a set of paths.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chriserin/gherkinast/internal/ctxlog"
)

const DefaultDebounce = 100 * time.Millisecond

// Watcher batches file events and calls back once per quiet period.
type Watcher struct {
	fs        *fsnotify.Watcher
	debounce  time.Duration
	extension string

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithExtension(ext string) Option {
	return func(w *Watcher) { w.extension = ext }
}

func New(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		fs:        fw,
		debounce:  DefaultDebounce,
		extension: ".feature",
		pending:   map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches a file, or a directory and every directory below it.
func (w *Watcher) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fs.Add(path)
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

// Run blocks until ctx is done, calling onChange with the sorted set of
// changed files after each quiet period. Calls to onChange never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	log := ctxlog.FromContext(ctx)
	defer w.fs.Close()

	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			log.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						log.Warn("watching new directory", "path", ev.Name, "error", err)
					}
				}
			}
			w.schedule(ev.Name, fire)

		case <-fire:
			if paths := w.drain(); len(paths) > 0 {
				onChange(paths)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", "error", err)
		}
	}
}

// Close releases the watcher without running it.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			return true
		}
	}
	return strings.EqualFold(filepath.Ext(ev.Name), w.extension)
}

func (w *Watcher) schedule(path string, fire chan<- struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if strings.EqualFold(filepath.Ext(path), w.extension) {
		w.pending[path] = struct{}{}
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	w.pending = map[string]struct{}{}
	return paths
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
