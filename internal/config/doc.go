// Package config loads, normalizes, and validates the clipgen TOML
// configuration. Environment reads are confined to normalization so that
// provider selection logic never touches global state directly.
package config
