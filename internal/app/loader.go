package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/logsift/internal/config"
	"github.com/five82/logsift/internal/ingest"
	"github.com/five82/logsift/internal/state"
)

const (
	defaultRetryInterval = 2 * time.Second
	maxBackoff           = 30 * time.Second
	maxReloadRetries     = 3
)

// Loader feeds the store. Loads are serialised and share one id counter, so
// record ids stay unique across reloads.
type Loader struct {
	mu      sync.Mutex
	counter *ingest.Counter
	store   *state.Store
	opts    ingest.Options
	logger  *zap.Logger
	retry   time.Duration
}

// NewLoader creates a loader writing into store.
func NewLoader(store *state.Store, cfg config.Config, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		counter: ingest.NewCounter(),
		store:   store,
		opts: ingest.Options{
			Workers:      cfg.Workers,
			MaxLineBytes: cfg.MaxLineBytes,
			Logger:       logger,
		},
		logger: logger,
		retry:  defaultRetryInterval,
	}
}

// Load reads paths and merges them into the store, replacing any files
// already loaded from the same paths. Per-file failures are recorded in the
// store and returned; a cancelled context leaves the store untouched.
func (l *Loader) Load(ctx context.Context, paths []string) error {
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		abs = append(abs, a)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	opts := l.opts
	opts.Counter = l.counter
	started := time.Now()
	batch, err := ingest.Load(ctx, abs, opts)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	l.store.Add(batch, err)
	l.logger.Info("load complete",
		zap.String("summary", ingest.Describe(batch)),
		zap.Int64("next_id", l.counter.Peek()),
		zap.Duration("elapsed", time.Since(started)))
	return err
}

// Reload re-reads every file currently in the store.
func (l *Loader) Reload(ctx context.Context) error {
	return l.Load(ctx, l.store.Snapshot().Paths())
}

// reloadWithRetry loads paths, retrying failed loads with exponential backoff.
// Rotated files are briefly missing, so a single failure is not final.
func (l *Loader) reloadWithRetry(ctx context.Context, paths []string) {
	for failures := 0; ; failures++ {
		err := l.Load(ctx, paths)
		if err == nil || ctx.Err() != nil {
			return
		}
		if failures >= maxReloadRetries {
			l.logger.Warn("reload failed, giving up", zap.Strings("paths", paths), zap.Error(err))
			return
		}
		wait := calculateBackoff(failures+1, l.retry)
		l.logger.Debug("reload failed, retrying", zap.Duration("wait", wait), zap.Error(err))
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// calculateBackoff doubles interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for j := 0; j < failures; j++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// StartWatcher reloads files as they change on disk until ctx is cancelled.
// It returns once the watches are registered.
func StartWatcher(ctx context.Context, loader *Loader, paths []string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := ingest.NewWatcher(logger, ingest.DefaultDebounce)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			_ = w.Close()
			return err
		}
	}
	go func() {
		defer func() { _ = w.Close() }()
		w.Run(ctx, func(changed []string) {
			logger.Info("reloading changed files", zap.Strings("paths", changed))
			loader.reloadWithRetry(ctx, changed)
		})
	}()
	return nil
}
