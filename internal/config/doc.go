// Package config loads and validates fitlot's TOML configuration.
package config
