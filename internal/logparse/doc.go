// Package logparse turns one raw log line into a typed Record.
//
// # Overview
//
// Parse runs a line through a fixed cascade of line formats and returns the
// first structured match. Every format starts with a timestamp and a hostname;
// they differ in how the daemon, level, module and function are laid out:
//
//  1. Syslog file (only for file names containing ".syslog"):
//     "<ts> <host> <message>". The daemon comes from the file name and the
//     level is scanned from the message text.
//  2. Module format: "<ts> <host> <daemon>[pid]: LEVEL: file.c:42 in func: msg"
//  3. Dash format: "<ts> <host> <daemon>[pid]: LEVEL module - msg"
//  4. Bracket format: "<ts> <host> <daemon>[pid]: [LEVEL] [module] : msg"
//     with an optional trailing "(func)" or "[in path:line (func)]".
//  5. Simple format: "<ts> <host> <daemon>[pid]: msg"
//
// If the syslog-file format does not match, the remaining formats are still
// tried. A format whose timestamp does not normalize counts as a non-match.
//
// # Timestamps
//
// NormalizeAt converts the captured timestamp to UTC. Year-less syslog stamps
// get the current year, digit-only stamps are epoch milliseconds, and stamps
// without a zone are read as UTC before a last-resort parse in the local zone.
//
// # Defaults
//
// Level falls back to LevelUnknown, Module and Function to "unknown", PID to 0.
// Blank lines never produce a record.
//
// Parse is pure; ids are supplied by the caller.
package logparse
