package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/five82/logsift/internal/logparse"
	"github.com/five82/logsift/internal/query"
)

// Criteria selects records. Empty lists and zero times do not constrain.
// List matches are case-insensitive; every keyword query must match the
// message.
type Criteria struct {
	Levels    []string
	Daemons   []string
	Hosts     []string
	Modules   []string
	Functions []string
	Sources   []string
	Keywords  []string
	Since     time.Time
	Until     time.Time
}

// IsZero reports whether the criteria accept every record.
func (c Criteria) IsZero() bool {
	return len(c.Levels) == 0 && len(c.Daemons) == 0 && len(c.Hosts) == 0 &&
		len(c.Modules) == 0 && len(c.Functions) == 0 && len(c.Sources) == 0 &&
		len(activeKeywords(c.Keywords)) == 0 && c.Since.IsZero() && c.Until.IsZero()
}

// Matcher is Criteria compiled for repeated use.
type Matcher struct {
	levels    set
	daemons   set
	hosts     set
	modules   set
	functions set
	sources   set
	keywords  []query.Expr
	since     time.Time
	until     time.Time
}

// Compile prepares the criteria for matching.
func (c Criteria) Compile() Matcher {
	m := Matcher{
		levels:    newSet(c.Levels),
		daemons:   newSet(c.Daemons),
		hosts:     newSet(c.Hosts),
		modules:   newSet(c.Modules),
		functions: newSet(c.Functions),
		sources:   newSet(c.Sources),
		since:     c.Since,
		until:     c.Until,
	}
	for _, kw := range activeKeywords(c.Keywords) {
		m.keywords = append(m.keywords, query.Compile(kw))
	}
	return m
}

// Match reports whether rec satisfies every constraint.
func (m Matcher) Match(rec logparse.Record) bool {
	if !m.levels.has(string(rec.Level)) ||
		!m.daemons.has(rec.Daemon) ||
		!m.hosts.has(rec.Hostname) ||
		!m.modules.has(rec.Module) ||
		!m.functions.has(rec.Function) ||
		!m.sources.has(rec.Source) {
		return false
	}
	if !m.since.IsZero() && rec.Timestamp.Before(m.since) {
		return false
	}
	if !m.until.IsZero() && rec.Timestamp.After(m.until) {
		return false
	}
	for _, kw := range m.keywords {
		if !kw.Match(rec.Message) {
			return false
		}
	}
	return true
}

// Apply returns the records that satisfy c, preserving order.
func (c Criteria) Apply(records []logparse.Record) []logparse.Record {
	m := c.Compile()
	out := make([]logparse.Record, 0, len(records))
	for _, rec := range records {
		if m.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Highlights returns the keyword terms of every active query.
func (c Criteria) Highlights() []string {
	var terms []string
	for _, kw := range activeKeywords(c.Keywords) {
		for _, term := range query.ExtractKeywords(kw) {
			if !slices.Contains(terms, term) {
				terms = append(terms, term)
			}
		}
	}
	return terms
}

// FindByID returns the record with the given id.
func FindByID(records []logparse.Record, id int64) (logparse.Record, bool) {
	for _, rec := range records {
		if rec.ID == id {
			return rec, true
		}
	}
	return logparse.Record{}, false
}

// IndexOf returns the position of the record with the given id, or -1.
func IndexOf(records []logparse.Record, id int64) int {
	return slices.IndexFunc(records, func(r logparse.Record) bool { return r.ID == id })
}

func activeKeywords(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		if strings.TrimSpace(kw) != "" {
			out = append(out, kw)
		}
	}
	return out
}

// set is a case-insensitive membership test. A nil set matches anything.
type set map[string]struct{}

func newSet(values []string) set {
	var s set
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if s == nil {
			s = make(set, len(values))
		}
		s[strings.ToLower(v)] = struct{}{}
	}
	return s
}

func (s set) has(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[strings.ToLower(v)]
	return ok
}
