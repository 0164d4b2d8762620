package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrNoActiveProfile = errors.New("no active profile found")

// Config represents the complete runtime configuration loaded from the database.
type Config struct {
	Profile   *Profile
	APIServer *APIServer
	Settings  map[string]string
}

// APIAddress returns the API server listen address.
func (c *Config) APIAddress() string {
	if c.APIServer == nil {
		return "0.0.0.0:8080"
	}
	return c.APIServer.Address()
}

// APIPort returns the API server port.
func (c *Config) APIPort() int {
	if c.APIServer == nil {
		return 8080
	}
	return c.APIServer.Port
}

// String returns a setting, or def when unset or empty.
func (c *Config) String(key, def string) string {
	if v, ok := c.Settings[key]; ok && v != "" {
		return v
	}
	return def
}

// Int returns a setting parsed as an integer, or def.
func (c *Config) Int(key string, def int) int {
	v, err := strconv.Atoi(c.String(key, ""))
	if err != nil {
		return def
	}
	return v
}

// Bool returns a setting parsed as a boolean, or def.
func (c *Config) Bool(key string, def bool) bool {
	v, err := strconv.ParseBool(c.String(key, ""))
	if err != nil {
		return def
	}
	return v
}

// Duration returns a setting parsed with time.ParseDuration, or def.
func (c *Config) Duration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(c.String(key, ""))
	if err != nil {
		return def
	}
	return v
}

// Set overrides a setting in memory. It is used for command-line flags.
func (c *Config) Set(key, value string) {
	if c.Settings == nil {
		c.Settings = make(map[string]string)
	}
	c.Settings[key] = value
}

// ActiveConfig loads the complete configuration for the active profile.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	profile, err := db.Profiles().GetActive(ctx)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNoActiveProfile
		}
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}

	config := &Config{
		Profile: profile,
	}

	apiServer, err := db.APIServers().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrAPIServerNotFound) {
		return nil, fmt.Errorf("failed to get API server config: %w", err)
	}
	config.APIServer = apiServer

	settings, err := db.Settings().All(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	config.Settings = settings

	return config, nil
}

// StoreAssignments persists "key=value" settings for the profile of cfg and
// applies them to cfg. Nothing is written if any assignment is invalid.
func (db *DB) StoreAssignments(ctx context.Context, cfg *Config, assignments []string) error {
	if len(assignments) == 0 {
		return nil
	}
	if cfg.Profile == nil {
		return ErrNoActiveProfile
	}

	parsed := make([][2]string, 0, len(assignments))
	for _, a := range assignments {
		key, value, err := ParseAssignment(a)
		if err != nil {
			return err
		}
		parsed = append(parsed, [2]string{key, value})
	}

	store := db.Settings()
	for _, kv := range parsed {
		if err := store.Set(ctx, cfg.Profile.ID, kv[0], kv[1]); err != nil {
			return fmt.Errorf("store %s: %w", kv[0], err)
		}
		cfg.Set(kv[0], kv[1])
	}
	return nil
}
