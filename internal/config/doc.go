// Package config holds the YAML-backed settings for mlh-scrape.
//
// Command-line flags take precedence over the file; the file takes precedence
// over DefaultConfig.
package config
