package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DeviceEvent is one recorded command outcome. Args and Snapshot hold JSON.
type DeviceEvent struct {
	ID       string          `json:"id"`
	Command  string          `json:"command"`
	OK       bool            `json:"ok"`
	Message  string          `json:"message,omitempty"`
	Args     json.RawMessage `json:"args,omitempty"`
	Snapshot json.RawMessage `json:"snapshot,omitempty"`
	At       time.Time       `json:"at"`
}

// EventStore is the command audit log.
type EventStore interface {
	Record(ctx context.Context, e *DeviceEvent) error
	// List returns up to limit events, newest first, optionally only those
	// of one command.
	List(ctx context.Context, command string, limit int) ([]*DeviceEvent, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// Events returns an EventStore for this database.
func (db *DB) Events() EventStore {
	return &eventStore{db: db}
}

type eventStore struct {
	db *DB
}

const defaultEventLimit = 100

// eventTimeLayout is fixed width so timestamps sort as text.
const eventTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func rawOrNull(b json.RawMessage) string {
	if len(b) == 0 {
		return "null"
	}
	return string(b)
}

func (s *eventStore) Record(ctx context.Context, e *DeviceEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO device_events (id, command, ok, message, args, snapshot, at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Command, e.OK, e.Message, rawOrNull(e.Args), rawOrNull(e.Snapshot), e.At.UTC().Format(eventTimeLayout))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

func (s *eventStore) List(ctx context.Context, command string, limit int) ([]*DeviceEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, command, ok, message, args, snapshot, at
		FROM device_events
		WHERE ? = '' OR command = ?
		ORDER BY at DESC
		LIMIT ?
	`, command, command, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []*DeviceEvent
	for rows.Next() {
		e := &DeviceEvent{}
		var args, snapshot, at string
		if err := rows.Scan(&e.ID, &e.Command, &e.OK, &e.Message, &args, &snapshot, &at); err != nil {
			return nil, err
		}
		if args != "null" {
			e.Args = json.RawMessage(args)
		}
		if snapshot != "null" {
			e.Snapshot = json.RawMessage(snapshot)
		}
		e.At, _ = time.Parse(eventTimeLayout, at)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *eventStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM device_events WHERE at < ?`, before.UTC().Format(eventTimeLayout))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
