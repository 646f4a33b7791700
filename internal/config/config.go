// Package config loads husk's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration
type Config struct {
	CacheRoot string         `yaml:"cache_root"`
	DBPath    string         `yaml:"db_path"`
	Runtime   RuntimeConfig  `yaml:"runtime"`
	Resolver  ResolverConfig `yaml:"resolver"`
}

// RuntimeConfig identifies the child runtime used to launch
// applications. Version is the runtime's declared version string,
// compared against a manifest's Min-Runtime-Version.
type RuntimeConfig struct {
	Path    string `yaml:"path"`
	Version string `yaml:"version"`
}

// ResolverConfig selects how declared dependencies map to local
// artifacts. An empty LocalDir means no resolver: archives declaring
// dependencies fail to launch.
type ResolverConfig struct {
	LocalDir string `yaml:"local_dir"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	cacheRoot := ".husk"
	if home, err := os.UserHomeDir(); err == nil {
		cacheRoot = filepath.Join(home, ".husk")
	}
	return &Config{
		CacheRoot: cacheRoot,
		DBPath:    "",
		Runtime: RuntimeConfig{
			Path: "java",
		},
	}
}

// Load reads a config file from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() (string, error) {
	searchPaths := []string{
		"husk.yaml",
		"/etc/husk/husk.yaml",
	}

	// Add user config path
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths,
			filepath.Join(home, ".config", "husk", "husk.yaml"),
		)
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", searchPaths)
}

// DefaultDBPath returns the launch-history database location for the
// configured cache root, used when db_path is unset.
func (c *Config) DefaultDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.CacheRoot, "husk.db")
}
