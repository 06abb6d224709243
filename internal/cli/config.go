package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML run configuration.
//
// Flags set explicitly on the command line override config file
// values; the file only fills in what the invocation left out.
type Config struct {
	// GitBinary is the git executable to invoke. Default: "git" from PATH.
	GitBinary string `yaml:"git_binary"`

	// CacheCapacity is the per-sequence output cache size in commit ids.
	CacheCapacity int `yaml:"cache_capacity"`

	// IndexDB is the path of the SQLite sequence index, empty to disable.
	IndexDB string `yaml:"index_db"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	if cfg.CacheCapacity < 0 {
		return nil, fmt.Errorf("config %q: cache_capacity must not be negative", path)
	}

	return &cfg, nil
}
