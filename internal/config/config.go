// Package config loads the optional ~/.agentusage/config.yaml file that
// supplies defaults for flags the user didn't pass explicitly. A missing
// file is not an error; only its presence with unparseable content is,
// backed by gopkg.in/yaml.v3 since this is a small human-edited settings
// file rather than a machine-written one.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user-level defaults for flags the CLI lets a caller
// override per invocation.
type Config struct {
	DefaultTimeoutSeconds int    `yaml:"default_timeout_seconds,omitempty"`
	ApprovalPolicy        string `yaml:"approval_policy,omitempty"`
}

// Load reads path and returns its parsed contents, or an empty Config
// (not an error) if the file doesn't exist.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns ~/.agentusage/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".agentusage", "config.yaml"), nil
}
