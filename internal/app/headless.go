package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/five82/logsift/internal/assist"
	"github.com/five82/logsift/internal/config"
	"github.com/five82/logsift/internal/export"
	"github.com/five82/logsift/internal/filter"
	"github.com/five82/logsift/internal/ingest"
	"github.com/five82/logsift/internal/logparse"
	"github.com/five82/logsift/internal/state"
)

const (
	defaultStatsBuckets = 12
	statsTop            = 5
)

// Headless describes a non-interactive run: filter the loaded records and
// write an export, a stats summary or the result of one tool call.
type Headless struct {
	Criteria filter.Criteria
	// Format defaults to the output file extension, or CSV on stdout.
	Format export.Format
	// Output is the export file. Empty writes to stdout.
	Output  string
	Stats   bool
	Buckets int
	// Tool runs one assistant tool with ToolArgs (a JSON object).
	Tool     string
	ToolArgs string
}

func runHeadless(ctx context.Context, store *state.Store, h Headless, cfg config.Config, w io.Writer, logger *zap.Logger) error {
	snap := store.Snapshot()
	switch {
	case h.Tool != "":
		d := assist.NewDispatcher(store, assist.Options{
			Limit:    cfg.SearchLimit,
			Location: cfg.Location,
			Logger:   logger.Named("assist"),
		})
		out, err := d.Call(ctx, h.Tool, []byte(h.ToolArgs))
		if _, werr := fmt.Fprintf(w, "%s\n", out); werr != nil {
			return fmt.Errorf("write tool result: %w", werr)
		}
		return err

	case h.Stats:
		records := h.Criteria.Apply(snap.Records)
		buckets := h.Buckets
		if buckets <= 0 {
			buckets = defaultStatsBuckets
		}
		return writeStats(w, records, len(snap.Records), snap.Files, buckets, cfg.Location)

	default:
		records := h.Criteria.Apply(snap.Records)
		logger.Debug("headless export",
			zap.Int("matched", len(records)),
			zap.Int("total", len(snap.Records)),
			zap.String("output", h.Output))
		if h.Output != "" {
			return export.WriteFile(h.Output, h.Format, records, cfg.Location)
		}
		format := h.Format
		if format == "" {
			format = export.CSV
		}
		return export.Write(w, format, records, cfg.Location)
	}
}

func writeStats(w io.Writer, records []logparse.Record, total int, files []ingest.FileResult, buckets int, loc *time.Location) error {
	sum := filter.Summarize(records, buckets)
	facets := filter.Facets(records)

	var b strings.Builder
	fmt.Fprintf(&b, "Records: %d of %d\n", sum.Total, total)
	if sum.Total > 0 {
		fmt.Fprintf(&b, "First:   %s\n", sum.First.In(loc).Format(export.TimeLayout))
		fmt.Fprintf(&b, "Last:    %s\n", sum.Last.In(loc).Format(export.TimeLayout))
	}

	b.WriteString("\nLevels\n")
	for _, lc := range sum.Levels {
		if lc.Count > 0 {
			fmt.Fprintf(&b, "  %-10s %d\n", lc.Value, lc.Count)
		}
	}

	if len(sum.Histogram) > 0 {
		b.WriteString("\nTimeline\n")
		for _, bk := range sum.Histogram {
			fmt.Fprintf(&b, "  %s  %d\n", bk.Start.In(loc).Format(export.TimeLayout), bk.Count)
		}
	}

	writeTop(&b, "Top daemons", facets.Daemons)
	writeTop(&b, "Top hosts", facets.Hosts)
	writeTop(&b, "Top modules", facets.Modules)

	if len(files) > 0 {
		b.WriteString("\nFiles\n")
		for _, f := range files {
			fmt.Fprintf(&b, "  %s: %d lines, %d parsed, %d dropped", f.Name, f.Lines, f.Parsed, f.Dropped)
			if f.Err != nil {
				fmt.Fprintf(&b, " (error: %v)", f.Err)
			}
			b.WriteByte('\n')
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}

func writeTop(b *strings.Builder, title string, counts []filter.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for _, c := range counts[:min(len(counts), statsTop)] {
		fmt.Fprintf(b, "  %-20s %d\n", c.Value, c.Count)
	}
}
