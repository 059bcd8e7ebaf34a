package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/five82/logsift/internal/logparse"
)

// Options control a load.
type Options struct {
	// Counter assigns ids. A nil counter starts a fresh sequence at 1.
	Counter *Counter
	// Workers bounds how many files are read at once.
	Workers      int
	MaxLineBytes int
	// Now supplies the year for year-less timestamps. Defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// FileResult describes one loaded source.
type FileResult struct {
	Name        string
	Path        string
	Compression Compression
	Lines       int
	Parsed      int
	Dropped     int
	Err         error
	// Records holds the parsed records in canonical order.
	Records []logparse.Record
}

// Batch is the outcome of one Load call.
type Batch struct {
	Files []FileResult
}

// Records merges every file's records into canonical order.
func (b Batch) Records() []logparse.Record {
	sets := make([][]logparse.Record, 0, len(b.Files))
	for _, f := range b.Files {
		sets = append(sets, f.Records)
	}
	return Merge(sets...)
}

// Paths returns the distinct on-disk paths in the batch, in load order.
func (b Batch) Paths() []string {
	var paths []string
	for _, f := range b.Files {
		if !slices.Contains(paths, f.Path) {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

type readResult struct {
	sources []Source
	err     error
}

// Load reads paths in parallel, then parses their lines in the order the
// paths were given. Each input line consumes one id whether or not it
// parses. Per-file failures are recorded on the matching FileResult and
// combined into the returned error; healthy files are still returned.
func Load(ctx context.Context, paths []string, opts Options) (Batch, error) {
	if opts.Counter == nil {
		opts.Counter = NewCounter()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	logger := opts.Logger

	results := make([]readResult, len(paths))
	sem := make(chan struct{}, opts.Workers)
	var wg sync.WaitGroup
	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = readResult{err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			started := time.Now()
			sources, err := Read(path, opts.MaxLineBytes)
			results[i] = readResult{sources: sources, err: err}
			logger.Debug("read file",
				zap.String("path", path),
				zap.Int("sources", len(sources)),
				zap.Duration("elapsed", time.Since(started)),
				zap.Error(err))
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}

	now := opts.Now()
	var batch Batch
	var errs error
	for i, path := range paths {
		res := results[i]
		if res.err != nil {
			errs = multierr.Append(errs, res.err)
		}
		if len(res.sources) == 0 && res.err != nil {
			batch.Files = append(batch.Files, FileResult{
				Name: filepath.Base(path),
				Path: path,
				Err:  res.err,
			})
			continue
		}
		for j, src := range res.sources {
			fr := parseSource(src, opts.Counter, now)
			if j == len(res.sources)-1 {
				fr.Err = res.err
			}
			logger.Info("loaded source",
				zap.String("name", fr.Name),
				zap.Stringer("compression", fr.Compression),
				zap.Int("lines", fr.Lines),
				zap.Int("parsed", fr.Parsed),
				zap.Int("dropped", fr.Dropped))
			batch.Files = append(batch.Files, fr)
		}
	}
	if errs != nil {
		logger.Warn("load finished with errors", zap.Error(errs))
	}
	return batch, errs
}

func parseSource(src Source, counter *Counter, now time.Time) FileResult {
	fr := FileResult{
		Name:        src.Name,
		Path:        src.Path,
		Compression: src.Compression,
		Lines:       len(src.Lines),
	}
	records := make([]logparse.Record, 0, len(src.Lines))
	for _, line := range src.Lines {
		id := counter.Next()
		rec, ok := logparse.ParseAt(line, id, src.FileName, now)
		if !ok {
			fr.Dropped++
			continue
		}
		rec.Source = src.Name
		records = append(records, rec)
	}
	Sort(records)
	fr.Parsed = len(records)
	fr.Records = records
	return fr
}

// Sort puts records into canonical (timestamp, id) order in place.
func Sort(records []logparse.Record) {
	slices.SortStableFunc(records, logparse.Compare)
}

// Merge concatenates record sets into a new slice in canonical order.
func Merge(sets ...[]logparse.Record) []logparse.Record {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	merged := make([]logparse.Record, 0, n)
	for _, s := range sets {
		merged = append(merged, s...)
	}
	Sort(merged)
	return merged
}

// Describe summarises a batch for status lines.
func Describe(b Batch) string {
	var lines, parsed, failed int
	for _, f := range b.Files {
		lines += f.Lines
		parsed += f.Parsed
		if f.Err != nil {
			failed++
		}
	}
	s := fmt.Sprintf("%d files, %d/%d lines parsed", len(b.Files), parsed, lines)
	if failed > 0 {
		s += fmt.Sprintf(", %d failed", failed)
	}
	return s
}
