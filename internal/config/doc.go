// Package config loads, normalizes, and validates mosys configuration data.
//
// It supplies defaults, reads an optional TOML file, applies MOSYS_*
// environment overrides, and expands user paths (including tilde shortcuts).
// Command-line flags are layered on top by the front end.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log levels and output styles, and clear
// validation errors.
package config
