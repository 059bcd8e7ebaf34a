package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/logsift/internal/filter"
	"github.com/five82/logsift/internal/ingest"
	"github.com/five82/logsift/internal/logparse"
)

// Snapshot represents the loaded log set available to the UI.
type Snapshot struct {
	// Files describes each loaded source. Records are not repeated here.
	Files []ingest.FileResult
	// Records is every loaded record in canonical order. The slice is shared
	// between snapshots and must not be modified.
	Records             []logparse.Record
	Version             uint64
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive loads that reported errors
}

// HasFailures returns true when the last two loads both reported errors.
func (s Snapshot) HasFailures() bool {
	return s.ConsecutiveFailures >= 2
}

// Paths returns the distinct on-disk paths of the loaded files.
func (s Snapshot) Paths() []string {
	var paths []string
	for _, f := range s.Files {
		if !slices.Contains(paths, f.Path) {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// Store coordinates concurrent updates to the loaded file set.
type Store struct {
	mu       sync.RWMutex
	files    []ingest.FileResult
	snapshot Snapshot
}

// Add merges a load batch into the store. Files whose path is already loaded
// are replaced, so a reload never duplicates records. When err is non-nil it
// is recorded for visibility alongside whatever the batch did load.
func (s *Store) Add(batch ingest.Batch, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(batch, err)
}

// Replace discards every loaded file and stores batch in their place.
func (s *Store) Replace(batch ingest.Batch, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
	s.add(batch, err)
}

func (s *Store) add(batch ingest.Batch, err error) {
	reloaded := batch.Paths()
	kept := s.files[:0:0]
	for _, f := range s.files {
		if !slices.Contains(reloaded, f.Path) {
			kept = append(kept, f)
		}
	}
	s.files = append(kept, batch.Files...)

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
	} else {
		s.snapshot.LastError = nil
		s.snapshot.ConsecutiveFailures = 0
	}
	s.rebuild()
}

// Remove drops every source loaded from path, or the single source whose
// display name is path. It reports whether anything was removed.
func (s *Store) Remove(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.files[:0:0]
	for _, f := range s.files {
		if f.Path != path && f.Name != path {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(s.files) {
		return false
	}
	s.files = kept
	s.rebuild()
	return true
}

func (s *Store) rebuild() {
	sets := make([][]logparse.Record, 0, len(s.files))
	for _, f := range s.files {
		sets = append(sets, f.Records)
	}
	s.snapshot.Records = ingest.Merge(sets...)
	s.snapshot.Version++
	s.snapshot.LastUpdated = time.Now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Files = cloneFiles(s.files)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Version returns a counter that changes whenever the record set changes.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Version
}

// Record looks up a record by id.
func (s *Store) Record(id int64) (logparse.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.FindByID(s.snapshot.Records, id)
}

func cloneFiles(files []ingest.FileResult) []ingest.FileResult {
	if len(files) == 0 {
		return nil
	}
	dup := make([]ingest.FileResult, len(files))
	copy(dup, files)
	for i := range dup {
		dup[i].Records = nil
	}
	return dup
}
