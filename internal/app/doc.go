// Package app provides the orchestration layer for logsift.
//
// # Overview
//
// This package wires together configuration, logging, loading, state and the
// UI. It is the composition root where every dependency is created and
// connected.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()      Read ~/.config/logsift/config.toml
//	       ├─────> logging.New()      File logger (plus stderr when headless)
//	       ├─────> Loader.Load()      Read, decode and parse the files
//	       ├─────> runHeadless()      Export, stats or tool call, then exit
//	       ├─────> StartWatcher()     Reload files as they change
//	       └─────> ui.Run()           Start TUI (blocks)
//
// # Loading
//
// Loader owns the id counter. Every load, including reloads triggered by the
// watcher or the UI, runs under one mutex so ids never repeat. A reload that
// fails is retried with exponential backoff (capped at 30 seconds) because a
// rotated file may be missing for a moment.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid configuration file
//   - Log file cannot be opened
//   - Headless run where no file could be loaded
//
// Recoverable errors (logged, run continues):
//   - Individual files that fail to load
//   - Watcher setup failure
//   - Reload failures after retries
package app
