// Package config provides configuration structures and utilities for docscan.
// It defines the site URLs, HTTP settings, output preferences and directory
// layout used by a run, and loads optional overrides from a YAML file.
package config
