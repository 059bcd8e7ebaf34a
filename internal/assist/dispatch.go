package assist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/valyala/fastjson"
	"go.uber.org/zap"

	"github.com/five82/logsift/internal/filter"
	"github.com/five82/logsift/internal/logparse"
	"github.com/five82/logsift/internal/query"
	"github.com/five82/logsift/internal/state"
)

// Defaults for optional tool arguments.
const (
	DefaultLimit   = 200
	DefaultBuckets = 24
	DefaultTop     = 5
)

// Upper bounds for tool arguments.
const (
	MaxLimit   = 10000
	MaxBuckets = filter.MaxBuckets
	MaxTop     = 100
)

// ErrUnknownTool is returned for tool names the dispatcher does not serve.
var ErrUnknownTool = errors.New("unknown tool")

// Snapshotter provides the record set tools operate on.
type Snapshotter interface {
	Snapshot() state.Snapshot
}

// Options configure a Dispatcher.
type Options struct {
	// Limit caps returned records when the caller passes none.
	Limit    int
	Location *time.Location
	Logger   *zap.Logger
}

// Dispatcher executes tool calls against the current record set.
type Dispatcher struct {
	src    Snapshotter
	limit  int
	loc    *time.Location
	logger *zap.Logger

	parsers fastjson.ParserPool
	arenas  fastjson.ArenaPool
}

// NewDispatcher creates a dispatcher reading from src.
func NewDispatcher(src Snapshotter, opts Options) *Dispatcher {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	opts.Limit = min(opts.Limit, MaxLimit)
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Dispatcher{src: src, limit: opts.Limit, loc: opts.Location, logger: opts.Logger}
}

// Call runs the named tool with JSON object arguments and returns a JSON
// result. On failure the result is {"error": "..."} and the error is
// returned as well.
func (d *Dispatcher) Call(ctx context.Context, name string, args []byte) ([]byte, error) {
	started := time.Now()
	out, err := d.call(ctx, name, args)
	if err != nil {
		d.logger.Warn("tool call failed", zap.String("tool", name), zap.Error(err))
		return d.errorPayload(err), err
	}
	d.logger.Debug("tool call",
		zap.String("tool", name),
		zap.Int("bytes", len(out)),
		zap.Duration("elapsed", time.Since(started)))
	return out, nil
}

func (d *Dispatcher) call(ctx context.Context, name string, args []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		args = []byte("{}")
	}

	p := d.parsers.Get()
	defer d.parsers.Put(p)
	v, err := p.ParseBytes(args)
	if err != nil {
		return nil, fmt.Errorf("parse %s arguments: %w", name, err)
	}
	if v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("%s arguments must be a JSON object", name)
	}

	a := d.arenas.Get()
	defer d.arenas.Put(a)

	var result *fastjson.Value
	switch name {
	case ToolFilterLogs:
		result, err = d.filterLogs(a, v)
	case ToolSearchLogs:
		result, err = d.searchLogs(a, v)
	case ToolGetRecord:
		result, err = d.getRecord(a, v)
	case ToolLogStats:
		result, err = d.logStats(a, v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if err != nil {
		return nil, err
	}
	return result.MarshalTo(nil), nil
}

func (d *Dispatcher) errorPayload(err error) []byte {
	a := d.arenas.Get()
	defer d.arenas.Put(a)
	o := a.NewObject()
	o.Set("error", a.NewString(err.Error()))
	return o.MarshalTo(nil)
}

func (d *Dispatcher) filterLogs(a *fastjson.Arena, v *fastjson.Value) (*fastjson.Value, error) {
	c, err := criteriaArg(v)
	if err != nil {
		return nil, err
	}
	limit, err := intArg(v, "limit", d.limit, MaxLimit)
	if err != nil {
		return nil, err
	}
	matched := c.Apply(d.src.Snapshot().Records)
	return d.recordList(a, matched, limit), nil
}

func (d *Dispatcher) searchLogs(a *fastjson.Arena, v *fastjson.Value) (*fastjson.Value, error) {
	q, err := stringArg(v, "query")
	if err != nil {
		return nil, err
	}
	limit, err := intArg(v, "limit", d.limit, MaxLimit)
	if err != nil {
		return nil, err
	}
	expr := query.Compile(q)
	var matched []logparse.Record
	for _, rec := range d.src.Snapshot().Records {
		if expr.Match(rec.Message) {
			matched = append(matched, rec)
		}
	}
	out := d.recordList(a, matched, limit)
	kw := a.NewArray()
	for i, term := range query.ExtractKeywords(q) {
		kw.SetArrayItem(i, a.NewString(term))
	}
	out.Set("keywords", kw)
	return out, nil
}

func (d *Dispatcher) getRecord(a *fastjson.Arena, v *fastjson.Value) (*fastjson.Value, error) {
	idv := v.Get("id")
	if idv == nil {
		return nil, errors.New("get_record requires an id")
	}
	id, err := idv.Int64()
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	rec, ok := filter.FindByID(d.src.Snapshot().Records, id)
	if !ok {
		return nil, fmt.Errorf("record %d not found", id)
	}
	o := a.NewObject()
	o.Set("record", d.recordValue(a, rec))
	return o, nil
}

func (d *Dispatcher) logStats(a *fastjson.Arena, v *fastjson.Value) (*fastjson.Value, error) {
	c, err := criteriaArg(v)
	if err != nil {
		return nil, err
	}
	buckets, err := intArg(v, "buckets", DefaultBuckets, MaxBuckets)
	if err != nil {
		return nil, err
	}
	top, err := intArg(v, "top", DefaultTop, MaxTop)
	if err != nil {
		return nil, err
	}

	records := c.Apply(d.src.Snapshot().Records)
	sum := filter.Summarize(records, buckets)
	facets := filter.Facets(records)

	o := a.NewObject()
	o.Set("total", a.NewNumberInt(sum.Total))
	if sum.Total > 0 {
		o.Set("first", a.NewString(d.formatTime(sum.First)))
		o.Set("last", a.NewString(d.formatTime(sum.Last)))
	}
	levels := a.NewObject()
	for _, lc := range sum.Levels {
		if lc.Count > 0 {
			levels.Set(lc.Value, a.NewNumberInt(lc.Count))
		}
	}
	o.Set("levels", levels)

	hist := a.NewArray()
	for i, b := range sum.Histogram {
		item := a.NewObject()
		item.Set("start", a.NewString(d.formatTime(b.Start)))
		item.Set("end", a.NewString(d.formatTime(b.End)))
		item.Set("count", a.NewNumberInt(b.Count))
		hist.SetArrayItem(i, item)
	}
	o.Set("histogram", hist)

	o.Set("top_daemons", countList(a, facets.Daemons, top))
	o.Set("top_hosts", countList(a, facets.Hosts, top))
	o.Set("top_modules", countList(a, facets.Modules, top))
	o.Set("sources", countList(a, facets.Sources, len(facets.Sources)))
	return o, nil
}

func (d *Dispatcher) recordList(a *fastjson.Arena, records []logparse.Record, limit int) *fastjson.Value {
	o := a.NewObject()
	o.Set("total", a.NewNumberInt(len(records)))
	n := min(len(records), limit)
	arr := a.NewArray()
	for i := 0; i < n; i++ {
		arr.SetArrayItem(i, d.recordValue(a, records[i]))
	}
	o.Set("returned", a.NewNumberInt(n))
	if n < len(records) {
		o.Set("truncated", a.NewTrue())
	}
	o.Set("records", arr)
	return o
}

func (d *Dispatcher) recordValue(a *fastjson.Arena, rec logparse.Record) *fastjson.Value {
	o := a.NewObject()
	o.Set("id", a.NewNumberString(strconv.FormatInt(rec.ID, 10)))
	o.Set("timestamp", a.NewString(d.formatTime(rec.Timestamp)))
	o.Set("hostname", a.NewString(rec.Hostname))
	o.Set("daemon", a.NewString(rec.Daemon))
	o.Set("pid", a.NewNumberInt(rec.PID))
	o.Set("level", a.NewString(string(rec.Level)))
	o.Set("module", a.NewString(rec.Module))
	o.Set("function", a.NewString(rec.Function))
	o.Set("message", a.NewString(rec.Message))
	o.Set("source", a.NewString(rec.Source))
	return o
}

func (d *Dispatcher) formatTime(t time.Time) string {
	return t.In(d.loc).Format(time.RFC3339Nano)
}

func countList(a *fastjson.Arena, counts []filter.Count, limit int) *fastjson.Value {
	arr := a.NewArray()
	for i, c := range counts[:min(len(counts), limit)] {
		item := a.NewObject()
		item.Set("value", a.NewString(c.Value))
		item.Set("count", a.NewNumberInt(c.Count))
		arr.SetArrayItem(i, item)
	}
	return arr
}
