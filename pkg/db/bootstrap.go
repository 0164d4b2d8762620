package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// DefaultProfile is created on first run.
const DefaultProfile = "default"

// DefaultSettings are written for every new profile.
var DefaultSettings = map[string]string{
	KeyLinkKind:     "sim",
	KeySerialBaud:   strconv.Itoa(115200),
	KeyMQTTURL:      "",
	KeyMQTTClientID: "tled",
	KeyMQTTPrefix:   "tled",
	KeyMQTTLevels:   "true",
	KeyInfluxBucket: "tled",
	KeyMDNSEnabled:  "true",
	KeyEventsKeep:   "720h",
}

// Bootstrap creates and activates the default profile on an empty database.
func (db *DB) Bootstrap(ctx context.Context) error {
	needs, err := db.NeedsBootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to check profiles: %w", err)
	}
	if !needs {
		return nil
	}

	_, err = db.UseProfile(ctx, DefaultProfile)
	return err
}

// NeedsBootstrap returns true if the database has no profile yet.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// seedProfile inserts p with the default API listener and settings.
func seedProfile(ctx context.Context, tx *sql.Tx, p *Profile) error {
	result, err := tx.ExecContext(ctx, `INSERT INTO profiles (name, is_active) VALUES (?, 0)`, p.Name)
	if err != nil {
		return fmt.Errorf("failed to create profile %q: %w", p.Name, err)
	}
	if p.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get profile ID: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO api_servers (profile_id, host, port) VALUES (?, '0.0.0.0', 8080)`, p.ID); err != nil {
		return fmt.Errorf("failed to create default API server: %w", err)
	}

	for k, v := range DefaultSettings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (profile_id, key, value) VALUES (?, ?, ?)`, p.ID, k, v); err != nil {
			return fmt.Errorf("failed to write default setting %s: %w", k, err)
		}
	}
	return nil
}
