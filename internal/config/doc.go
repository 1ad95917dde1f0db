// Package config loads runestr's command line configuration.
//
// Settings come from three places, later ones winning:
//
//  1. Built-in defaults (Default)
//  2. A configuration file, TOML or YAML by extension (Loader)
//  3. RUNESTR_* environment variables (EnvLoader)
//
// Command line flags are applied on top by the caller.
//
// Example file:
//
//	[logging]
//	level = "debug"
//	format = "json"
//
//	[inspect]
//	max_codepoints = 4096
//	encoding = "windows-1252"
//
//	[output]
//	format = "json"
//	color = "never"
//
//	[script]
//	instruction_limit = 1000000
//
//	[watch]
//	debounce = "250ms"
package config
