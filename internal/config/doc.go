// Package config loads, validates, and normalizes talkline configuration
// from TOML files, with sane defaults when no file is present.
package config
