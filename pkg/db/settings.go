package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrUnknownSetting  = errors.New("unknown setting")
)

// Setting keys.
const (
	KeyLinkKind     = "link.kind" // sim, serial, mqtt or none
	KeySerialPort   = "serial.port"
	KeySerialBaud   = "serial.baud"
	KeyMQTTURL      = "mqtt.url"
	KeyMQTTClientID = "mqtt.client_id"
	KeyMQTTUsername = "mqtt.username"
	KeyMQTTPassword = "mqtt.password"
	KeyMQTTPrefix   = "mqtt.prefix"
	KeyMQTTLevels   = "mqtt.levels" // subscribe to the analyser feed
	KeyInfluxURL    = "influx.url"
	KeyInfluxToken  = "influx.token"
	KeyInfluxOrg    = "influx.org"
	KeyInfluxBucket = "influx.bucket"
	KeyMDNSEnabled  = "mdns.enabled"
	KeyMDNSInstance = "mdns.instance"
	KeyAuthSecret   = "api.auth_secret"
	KeyEventsKeep   = "events.retention" // Go duration; 0 keeps everything
)

// KnownKeys lists every setting key in sorted order.
func KnownKeys() []string {
	keys := []string{
		KeyLinkKind, KeySerialPort, KeySerialBaud,
		KeyMQTTURL, KeyMQTTClientID, KeyMQTTUsername, KeyMQTTPassword, KeyMQTTPrefix, KeyMQTTLevels,
		KeyInfluxURL, KeyInfluxToken, KeyInfluxOrg, KeyInfluxBucket,
		KeyMDNSEnabled, KeyMDNSInstance, KeyAuthSecret, KeyEventsKeep,
	}
	sort.Strings(keys)
	return keys
}

// ParseAssignment splits "key=value" and checks the key against KnownKeys.
func ParseAssignment(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("%w: expected key=value, got %q", ErrUnknownSetting, s)
	}
	if !slices.Contains(KnownKeys(), key) {
		return "", "", fmt.Errorf("%w: %q (known: %s)", ErrUnknownSetting, key, strings.Join(KnownKeys(), ", "))
	}
	return key, strings.TrimSpace(value), nil
}

// SettingStore is a per-profile key/value store.
type SettingStore interface {
	Get(ctx context.Context, profileID int64, key string) (string, error)
	Set(ctx context.Context, profileID int64, key, value string) error
	Delete(ctx context.Context, profileID int64, key string) error
	All(ctx context.Context, profileID int64) (map[string]string, error)
}

// Settings returns a SettingStore for this database.
func (db *DB) Settings() SettingStore {
	return &settingStore{db: db}
}

type settingStore struct {
	db *DB
}

func (s *settingStore) Get(ctx context.Context, profileID int64, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM settings WHERE profile_id = ? AND key = ?
	`, profileID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSettingNotFound
	}
	return value, err
}

func (s *settingStore) Set(ctx context.Context, profileID int64, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (profile_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(profile_id, key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')
	`, profileID, key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

func (s *settingStore) Delete(ctx context.Context, profileID int64, key string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE profile_id = ? AND key = ?`, profileID, key)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrSettingNotFound
	}
	return nil
}

func (s *settingStore) All(ctx context.Context, profileID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings WHERE profile_id = ?`, profileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
