// Package config provides configuration structures and utilities for
// mirrorscan. It defines the discovery options (crawl caps, timing,
// identification), per-site overrides loaded from the configuration file,
// and summary output preferences.
package config
