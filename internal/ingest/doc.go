// Package ingest reads log files from disk and turns them into records.
//
// Read sniffs the leading magic bytes of a file and transparently handles
// gzip, zstd and zip input. Each zip entry becomes its own source, shown as
// "archive.zip/entry.log". Text is decoded as UTF-8 unless a byte order mark
// selects UTF-16.
//
// Load reads many files in parallel but parses them one after another in the
// order given, drawing ids from a caller-owned Counter. Every input line
// consumes an id, so ids strictly increase across files and archive entries
// even when lines are dropped. Records come back sorted by timestamp with
// ties broken by id.
//
// Watcher reports files that changed on disk so the caller can reload them.
package ingest
