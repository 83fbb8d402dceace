// Package config loads, normalizes, and validates dailies configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and dispatcher need: preset and template directories, the temp
// workspace root, engine binaries with per-engine fallback settings, slate
// typography, tracking, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical engine names, and clear validation errors. No
// component reads ambient configuration directly; the loaded Config is passed
// to the dispatcher at construction time.
package config
