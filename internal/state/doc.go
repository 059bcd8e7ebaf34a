// Package state holds the loaded log set shared between loaders and the UI.
//
// # Overview
//
// Loads and reloads run outside the UI goroutine. They hand their batches to
// a Store, and the UI polls Store.Snapshot to render:
//
//	Producer (loader, watcher):    Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ ingest.Load()  │            │                 │
//	│      ↓         │            │                 │
//	│ store.Add()    │───────────→│ store.Snapshot()│
//	│      ↓         │  (mutex)   │      ↓          │
//	│ wait for change│            │ render if       │
//	│                │            │ Version changed │
//	└────────────────┘            └─────────────────┘
//
// # Core Types
//
// Store:
//   - Add merges a batch, replacing files whose path was already loaded
//   - Remove drops a file by path or display name
//   - Record looks up a record by id
//   - Version increases on every change to the record set
//
// Snapshot:
//   - Files: per-source load results (line, parsed and dropped counts)
//   - Records: the merged set in canonical (timestamp, id) order
//   - LastError and ConsecutiveFailures: outcome of recent loads
//
// # Thread Safety
//
// Store uses a sync.RWMutex. Snapshot copies the file list and error. The
// record slice is rebuilt on every change and never modified in place, so
// snapshots share it without copying.
package state
