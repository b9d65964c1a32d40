// Package config loads, normalizes, and validates asciisym's TOML
// configuration. Load resolves the config path (explicit flag, then
// ~/.config/asciisym/config.toml, then a project-local asciisym.toml),
// merges file values over Default(), expands ~ paths, and rejects
// out-of-range or unknown enum values before anything else runs.
package config
