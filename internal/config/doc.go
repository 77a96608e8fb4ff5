// Package config loads, normalizes, and validates photoscript configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PHOTOSCRIPT_EXPORT_DIR. The Config type centralizes the knobs the CLI needs
// to reach Photos.app: the osascript binary, call timeouts, retry behaviour,
// chunking for library walks, export defaults, and the export ledger.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
