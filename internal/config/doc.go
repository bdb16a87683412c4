// Package config loads ladle's TOML configuration.
//
// # Resolution Order
//
//  1. Built-in defaults
//  2. The config file (explicit path, or ~/.config/ladle/config.toml)
//  3. The LADLE_API_URL environment variable
//  4. The --api flag, applied by the caller through WithAPIURL
//
// A missing config file is not an error.
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:8000"
//	request_timeout = "10s"
//	refresh_interval = "0s"
//	log_path = "~/.local/state/ladle/ladle.log"
//	trace = false
//	trace_path = "~/.local/state/ladle/trace.json"
//
// Every key is optional. Setting log_path to "" disables the diagnostics log.
// A zero refresh_interval turns off the TUI's background refresh.
// Paths starting with "~" are expanded to the home directory.
package config
