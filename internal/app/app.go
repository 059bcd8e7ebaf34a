package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/five82/logsift/internal/config"
	"github.com/five82/logsift/internal/logging"
	"github.com/five82/logsift/internal/prefs"
	"github.com/five82/logsift/internal/state"
	"github.com/five82/logsift/internal/ui"
)

// ErrNoFiles is returned when Run is given nothing to load.
var ErrNoFiles = errors.New("no log files given")

// Options configure a logsift run.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/logsift/prefs.toml
	Paths      []string
	// Headless skips the TUI when set.
	Headless *Headless
	Stdout   io.Writer
	Stderr   io.Writer
}

// Run loads the given files and either serves the TUI until the context is
// cancelled or performs the headless action and returns.
func Run(ctx context.Context, opts Options) error {
	if len(opts.Paths) == 0 {
		return ErrNoFiles
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	var console io.Writer
	if opts.Headless != nil {
		console = opts.Stderr
	}
	logger, closeLog, err := logging.New(logging.Options{
		File:    cfg.LogFile,
		Level:   cfg.LogLevel,
		Console: console,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	log := logger.Named("app")
	for _, warning := range cfg.Warnings {
		log.Warn("config value ignored", zap.String("warning", warning))
	}

	store := &state.Store{}
	loader := NewLoader(store, cfg, logger.Named("ingest"))
	loadErr := loader.Load(ctx, opts.Paths)
	if err := ctx.Err(); err != nil {
		return err
	}

	if opts.Headless != nil {
		if loadErr != nil {
			if len(store.Snapshot().Records) == 0 {
				return fmt.Errorf("load logs: %w", loadErr)
			}
			log.Warn("some files failed to load", zap.Error(loadErr))
		}
		return runHeadless(ctx, store, *opts.Headless, cfg, opts.Stdout, logger)
	}

	if cfg.Watch {
		if err := StartWatcher(ctx, loader, store.Snapshot().Paths(), logger.Named("watch")); err != nil {
			log.Warn("file watching disabled", zap.Error(err))
		}
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Config:    &cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Reload:    loader.Reload,
		Logger:    logger,
	})
}
