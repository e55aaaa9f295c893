// Package app is the composition root of the emby CLI.
//
// Execute builds the cobra command tree, runs it, and maps any returned error
// to "Error: <message>" on stderr with exit status 1. Cobra's own error and
// usage printing are silenced so that every failure looks the same.
//
// # Commands
//
//   - playing: now-playing sessions as text, JSON, raw JSON, or a live view
//   - scan: queue library refreshes by collection type
//   - libraries, users, devices, activity, tasks: server listings
//   - latest, search, next-up, upcoming: library queries
//   - system, restart: server information and control
//   - find-server: UDP discovery on the local network
//
// Every command except find-server loads the connection settings through
// internal/config and talks to the server through internal/emby. List
// commands render with ui.Table and print a fixed message when empty.
//
// # Persistent Flags
//
//	--config     config file (default $EMBY_CONFIG or ~/.config/emby-api.json)
//	--env-file   dotenv file loaded before configuration
//	--prefs      preferences file (default ~/.config/emby/prefs.toml)
//	--log-level  trace, debug, info, warn, error (default warn, or $EMBY_LOG_LEVEL)
//	--debug      shorthand for --log-level debug
//	--log-file   write logs to a rotated file
package app
