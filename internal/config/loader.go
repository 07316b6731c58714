package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file name probed when no --config path is given.
// The leading dot keeps it out of the way in a project checkout where the
// discovery output directories also live.
const DefaultConfigFile = ".mirrorscan"

// ErrConfigNotFound is returned when the site override file does not exist.
// Whether that is fatal depends on the caller: an explicit --config path
// that is missing is an error, an absent default file just means every
// property is discovered with the global settings.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile reads per-site discovery overrides from a YAML file. The
// Sites map is always non-nil on success, so lookups by domain suffix never
// need a nil check.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteConfig)
	}

	return &cf, nil
}

// FindConfigFile resolves the site override file for a run. An explicit
// path wins (and is not searched further if missing, so the caller can
// report it); otherwise .mirrorscan is probed in the working directory,
// then in the home directory. Returns "" when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
