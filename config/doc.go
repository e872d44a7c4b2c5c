// Package config loads cardtx settings from YAML or TOML files.
package config
