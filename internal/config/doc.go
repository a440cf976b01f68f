// Package config loads the engine configuration.
//
// Settings come from, lowest priority first, built-in defaults, a YAML,
// TOML or JSON config file, and KEYRESOLVE_ environment variables
// (KEYRESOLVE_SCHEME, KEYRESOLVE_LOG_LEVEL, KEYRESOLVE_CONTEXTS=a,b, ...):
//
//	platform = "darwin"
//	locale = "en_US"
//	scheme = "emacs"
//	contexts = ["editor.text", "editor", "global"]
//	builtin = true
//	sequence_timeout = "1500ms"
//
//	[[sources]]
//	path = "~/.config/keyresolve/bindings.toml"
//
//	[[sources]]
//	path = "~/.config/keyresolve/plugins"
//	rank = 1
//
//	[log]
//	level = "debug"
//	format = "json"
//
// Sources are binding files (.toml, .yaml, .yml, .json), Lua scripts
// (.lua) or directories of either. Lower ranks take precedence; the
// built-in bindings sit one rank below the lowest-precedence source.
//
// Sub-packages:
//
//   - notify: change notification used by the resolution machine
//   - watcher: live reload of binding files
package config
