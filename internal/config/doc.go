// Package config loads logsift's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/logsift/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	timezone = "Europe/Berlin"     # display zone, default UTC
//	log_file = "~/.local/state/logsift/logsift.log"
//	log_level = "info"             # debug, info, warn, error
//	max_line_bytes = 1048576       # longest accepted log line
//	workers = 4                    # files read in parallel
//	watch = true                   # reload files changed on disk
//	search_limit = 200             # default result cap for assistant tools
//
// All fields are optional. Tilde expansion is performed for log_file.
//
// # Invalid Values
//
// An unknown timezone or log level is not an error: the default is used and
// a message is appended to Config.Warnings so the caller can log it. Zone
// data is embedded, so zone names resolve on hosts without a zoneinfo
// database.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
package config
