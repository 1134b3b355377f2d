package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPaths returns the search order for config files.
func DefaultConfigPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "usrse", "config.yaml"))
	}
	paths = append(paths, "/etc/usrse/config.yaml")
	return paths
}

// Resolve loads the config from the given explicit path, or searches
// the default locations. When nothing is found an empty config is
// returned and path is "". An explicit path that does not exist is an
// error.
func Resolve(explicit string) (*Config, string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, "", fmt.Errorf("config file not found: %s", explicit)
		}
		cfg, err := Load(explicit)
		if err != nil {
			return nil, "", err
		}
		return cfg, explicit, nil
	}

	for _, p := range DefaultConfigPaths() {
		if _, err := os.Stat(p); err == nil {
			cfg, err := Load(p)
			if err != nil {
				return nil, "", err
			}
			return cfg, p, nil
		}
	}

	return &Config{}, "", nil
}
