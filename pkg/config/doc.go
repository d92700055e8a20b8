// Package config loads the keep-alive configuration from a YAML file and
// KEEPALIVE_* environment variables, applies defaults and validates it.
// The loaded Config is never mutated afterwards.
package config
