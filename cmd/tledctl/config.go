package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urmzd/tled/pkg/db"
	"gopkg.in/yaml.v3"
)

const (
	defaultServer = "http://localhost:8080"
	envServer     = "TLED_SERVER"
	envToken      = "TLED_TOKEN"
)

// cliConfig is the on-disk client configuration.
type cliConfig struct {
	Server  string `yaml:"server" json:"server"`
	Token   string `yaml:"token,omitempty" json:"token,omitempty"`
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

func defaultConfigPath() (string, error) {
	dir, err := db.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cli.yaml"), nil
}

// loadConfig reads path, falling back to defaults when it does not exist,
// then applies the environment.
func loadConfig(path string) (*cliConfig, error) {
	cfg, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(os.Getenv(envServer)); v != "" {
		cfg.Server = strings.TrimSuffix(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv(envToken)); v != "" {
		cfg.Token = v
	}

	return cfg, nil
}

// readConfigFile reads path without applying the environment.
func readConfigFile(path string) (*cliConfig, error) {
	cfg := &cliConfig{Server: defaultServer}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if cfg.Server == "" {
		cfg.Server = defaultServer
	}
	cfg.Server = strings.TrimSuffix(cfg.Server, "/")

	return cfg, nil
}

func saveConfig(path string, cfg *cliConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	// The file may hold a bearer token.
	return os.WriteFile(path, data, 0o600)
}
