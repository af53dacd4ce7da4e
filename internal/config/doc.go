// Package config provides configuration structures and utilities for
// linkpeek: fetch behavior, batch concurrency, the HTTP service address and
// report output preferences.
//
// Values come from three layers, later ones winning: the defaults from
// NewConfig, an optional YAML file (see FindConfigFile), and CLI flags.
package config
