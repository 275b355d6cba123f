// Package config loads spiderweb's TOML configuration.
//
// Load reads ~/.config/spiderweb/config.toml unless a path is given. A
// missing file yields Default(); fields absent from the file keep their
// defaults.
//
// Example:
//
//	poll_interval_ms = 250
//	refresh_per_second = 3
//	max_drain_lines = 5000
//	notify = true
//	log_file = "~/.local/state/spiderweb/spiderweb.log"
//	log_level = "debug"
//	theme = "Dracula"
//
//	[scanner]
//	interpreter = "python3"
//	paths = ["/opt/spiderfoot/sfcli.py"]
//	args = ["-s", "all"]
//	settle_ms = 2000
//
//	[[terminal]]
//	name = "kitty"
//	args = ["{args}"]
package config
