// Package config loads the dstk CLI settings.
//
// # Layers
//
// Load merges four layers with koanf, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML file
//  3. DSTK_* environment variables (DSTK_API_BASE -> api_base)
//  4. Overrides passed by the caller, normally command-line flags
//
// The file is taken from the explicit path, then $DSTK_CONFIG, then
// ~/.config/dstk/config.toml. Only the default location may be absent;
// a path the user named must exist. Tilde expansion is performed.
//
// # TOML Format
//
//	api_base = "http://localhost:8080"
//	check_version = true
//	show_headers = false
//	concurrency = 4
//	log_level = "warn"
//	log_format = "console"
//	theme = "auto"
//
// Every key is optional. An empty api_base leaves the choice to the client,
// which falls back to DSTK_API_BASE and then the public server.
//
// # Validation
//
// The merged result is checked with validator/v10. Field names in messages
// use the TOML keys, and all failures are reported together:
//
//	invalid config: concurrency must be at least 1; log_format must be one of: console json (got "xml")
package config
