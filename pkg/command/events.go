package command

import (
	"time"

	"github.com/google/uuid"
	"github.com/urmzd/tled/pkg/device"
)

// Event describes the outcome of one mutating command.
type Event struct {
	ID       uuid.UUID        `json:"id"`
	Command  string           `json:"command"`
	Args     any              `json:"args,omitempty"`
	OK       bool             `json:"ok"`
	Message  string           `json:"message,omitempty"`
	Snapshot *device.Snapshot `json:"snapshot,omitempty"`
	At       time.Time        `json:"at"`
}

// Listener receives events after the manager lock has been released.
// Listeners must not block for long; they run on the caller's goroutine.
type Listener func(Event)
