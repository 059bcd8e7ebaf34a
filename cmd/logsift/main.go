package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/five82/logsift/internal/app"
	"github.com/five82/logsift/internal/export"
	"github.com/five82/logsift/internal/filter"
	"github.com/five82/logsift/internal/logparse"
)

// listFlag collects a flag that may be repeated or comma separated.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// queryFlag collects repeated keyword queries. Commas are part of a query.
type queryFlag []string

func (q *queryFlag) String() string { return strings.Join(*q, " && ") }

func (q *queryFlag) Set(value string) error {
	*q = append(*q, value)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		levels, daemons, hosts, modules, functions, sources listFlag
		queries                                             queryFlag
	)
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/logsift/config.toml)")
	prefsPath := flag.String("prefs", "", "preferences file path (optional)")
	flag.Var(&queries, "query", "keyword query, e.g. 'disk && !usb' (repeatable)")
	flag.Var(&levels, "level", "only these levels (comma separated, repeatable)")
	flag.Var(&daemons, "daemon", "only these daemons (comma separated, repeatable)")
	flag.Var(&hosts, "host", "only these hosts (comma separated, repeatable)")
	flag.Var(&modules, "module", "only these modules (comma separated, repeatable)")
	flag.Var(&functions, "function", "only these functions (comma separated, repeatable)")
	flag.Var(&sources, "source", "only records from these files (comma separated, repeatable)")
	since := flag.String("since", "", "only records at or after this time")
	until := flag.String("until", "", "only records at or before this time")
	format := flag.String("format", "", "export format: csv or txt (defaults to the -o extension)")
	output := flag.String("o", "", "write the export to this file instead of stdout")
	stats := flag.Bool("stats", false, "print a summary instead of records")
	buckets := flag.Int("buckets", 0, fmt.Sprintf("timeline buckets for -stats, at most %d (optional, defaults to 12)", filter.MaxBuckets))
	tool := flag.String("tool", "", "run one assistant tool and print its JSON result")
	toolArgs := flag.String("args", "{}", "JSON arguments for -tool")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: logsift [flags] FILE...\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	criteria := filter.Criteria{
		Levels:    levels,
		Daemons:   daemons,
		Hosts:     hosts,
		Modules:   modules,
		Functions: functions,
		Sources:   sources,
		Keywords:  queries,
	}
	var err error
	if criteria.Since, err = parseTimeFlag("since", *since); err != nil {
		fmt.Fprintf(os.Stderr, "logsift: %v\n", err)
		return 2
	}
	if criteria.Until, err = parseTimeFlag("until", *until); err != nil {
		fmt.Fprintf(os.Stderr, "logsift: %v\n", err)
		return 2
	}
	if *buckets < 0 || *buckets > filter.MaxBuckets {
		fmt.Fprintf(os.Stderr, "logsift: -buckets must be between 0 and %d\n", filter.MaxBuckets)
		return 2
	}

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Paths:      flag.Args(),
	}

	headless := !criteria.IsZero() || *format != "" || *output != "" || *stats || *tool != ""
	if headless {
		h := &app.Headless{
			Criteria: criteria,
			Output:   *output,
			Stats:    *stats,
			Buckets:  *buckets,
			Tool:     *tool,
			ToolArgs: *toolArgs,
		}
		if *format != "" {
			if h.Format, err = export.ParseFormat(*format); err != nil {
				fmt.Fprintf(os.Stderr, "logsift: %v\n", err)
				return 2
			}
		}
		opts.Headless = h
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "logsift: %v\n", err)
		if errors.Is(err, app.ErrNoFiles) {
			flag.Usage()
			return 2
		}
		return 1
	}
	return 0
}

func parseTimeFlag(name, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	ts, ok := logparse.Normalize(value)
	if !ok {
		return time.Time{}, fmt.Errorf("-%s: unrecognised time %q", name, value)
	}
	return ts, nil
}
