package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file, expands environment variables, and
// unmarshals into a Config struct. Unknown keys are rejected.
// Variables referenced without a default and not set are listed in
// Config.UnsetVars so callers can warn about them.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse expands environment variables in data and decodes it.
func Parse(data []byte) (*Config, error) {
	expanded, unset := expandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytesReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !isEmptyDocument(err) {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	cfg.UnsetVars = unset

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
