package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce groups bursts of writes into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports loaded files that changed on disk. It watches the parent
// directories so files replaced by rename are still noticed.
type Watcher struct {
	fs       *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]int
}

// NewWatcher creates a watcher. A non-positive debounce uses DefaultDebounce.
func NewWatcher(logger *zap.Logger, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fs:       fw,
		logger:   logger,
		debounce: debounce,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]int),
	}, nil
}

// Add starts tracking path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[abs]; ok {
		return nil
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}
	w.dirs[dir]++
	w.files[abs] = struct{}{}
	return nil
}

// Remove stops tracking path.
func (w *Watcher) Remove(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[abs]; !ok {
		return
	}
	delete(w.files, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if err := w.fs.Remove(dir); err != nil {
			w.logger.Debug("unwatch directory", zap.String("dir", dir), zap.Error(err))
		}
	}
}

func (w *Watcher) tracked(name string) (string, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[abs]
	return abs, ok
}

// Run delivers changed paths to onChange until ctx is cancelled. Paths are
// absolute and sorted; each burst of events is reported once.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, ok := w.tracked(ev.Name)
			if !ok {
				continue
			}
			w.logger.Debug("file changed", zap.String("path", abs), zap.Stringer("op", ev.Op))
			pending[abs] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			onChange(paths)
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
