package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load returns defaults overlaid with the YAML file at path. An empty path
// means no file: defaults alone. Flag overrides are applied by the caller on
// top of the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}
