package filter

import (
	"cmp"
	"slices"
	"time"

	"github.com/five82/logsift/internal/logparse"
)

// Count is one distinct value and how often it occurs.
type Count struct {
	Value string
	Count int
}

// FacetSet lists the distinct values of each record attribute, most frequent
// first.
type FacetSet struct {
	Levels    []Count
	Daemons   []Count
	Hosts     []Count
	Modules   []Count
	Functions []Count
	Sources   []Count
}

// Facets counts the distinct attribute values across records.
func Facets(records []logparse.Record) FacetSet {
	levels := map[string]int{}
	daemons := map[string]int{}
	hosts := map[string]int{}
	modules := map[string]int{}
	functions := map[string]int{}
	sources := map[string]int{}
	for _, r := range records {
		levels[string(r.Level)]++
		daemons[r.Daemon]++
		hosts[r.Hostname]++
		modules[r.Module]++
		functions[r.Function]++
		sources[r.Source]++
	}
	return FacetSet{
		Levels:    sortCounts(levels),
		Daemons:   sortCounts(daemons),
		Hosts:     sortCounts(hosts),
		Modules:   sortCounts(modules),
		Functions: sortCounts(functions),
		Sources:   sortCounts(sources),
	}
}

func sortCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for v, n := range m {
		out = append(out, Count{Value: v, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}

// Bucket is one slot of a time histogram. Start is inclusive, End exclusive
// except for the final bucket.
type Bucket struct {
	Start time.Time
	End   time.Time
	Count int
}

// Summary describes a record set.
type Summary struct {
	Total int
	// Levels holds a count for every level, in logparse.Levels order.
	Levels    []Count
	First     time.Time
	Last      time.Time
	Histogram []Bucket
}

// Summarize computes level counts, the covered time range and a histogram
// with the given number of buckets.
func Summarize(records []logparse.Record, buckets int) Summary {
	s := Summary{Total: len(records)}
	counts := make(map[logparse.Level]int, len(logparse.Levels))
	for _, r := range records {
		counts[r.Level]++
	}
	for _, lvl := range logparse.Levels {
		s.Levels = append(s.Levels, Count{Value: string(lvl), Count: counts[lvl]})
	}
	s.First, s.Last = timeRange(records)
	s.Histogram = Histogram(records, buckets)
	return s
}

// MaxBuckets bounds the histogram size.
const MaxBuckets = 1000

// Histogram spreads records over buckets of equal width between the earliest
// and latest timestamp. Bucket counts above MaxBuckets are clamped. It returns
// nil for no records or no buckets.
func Histogram(records []logparse.Record, buckets int) []Bucket {
	if len(records) == 0 || buckets <= 0 {
		return nil
	}
	buckets = min(buckets, MaxBuckets)
	first, last := timeRange(records)
	span := last.Sub(first)
	if span <= 0 {
		return []Bucket{{Start: first, End: last, Count: len(records)}}
	}
	width := span / time.Duration(buckets)
	if span%time.Duration(buckets) != 0 {
		width++
	}
	out := make([]Bucket, buckets)
	for i := range out {
		out[i].Start = first.Add(time.Duration(i) * width)
		out[i].End = first.Add(time.Duration(i+1) * width)
	}
	for _, r := range records {
		i := int(r.Timestamp.Sub(first) / width)
		if i >= buckets {
			i = buckets - 1
		}
		out[i].Count++
	}
	return out
}

func timeRange(records []logparse.Record) (time.Time, time.Time) {
	if len(records) == 0 {
		return time.Time{}, time.Time{}
	}
	first, last := records[0].Timestamp, records[0].Timestamp
	for _, r := range records[1:] {
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	return first, last
}
