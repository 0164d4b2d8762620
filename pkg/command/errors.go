package command

import (
	"errors"

	"github.com/urmzd/tled/pkg/device"
)

// User-facing messages.
const (
	msgNotInitialized = "Device not initialized."
	msgInit           = "Initialization failed."
	msgPower          = "Failed to power on/off."
	msgWhite          = "Failed to change device's color temperature."
	msgUnsupported    = "Device does not support this operation."
	msgAudio          = "Failed to create an audio monitor."
	msgDefaultAudio   = "Audio monitor not created and failed to use default."
)

// Error is returned by every Surface command. Message is safe to show to a
// user; Err keeps the underlying cause for errors.Is/As.
type Error struct {
	Command string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError classifies err and picks the message shown to users. fallback is
// used for failures that carry no better description.
func newError(cmd string, err error, fallback string) *Error {
	msg := fallback
	if msg == "" {
		msg = err.Error()
	}

	var attrErr *device.AttributeSetError
	switch {
	case errors.Is(err, device.ErrNotInitialized):
		msg = msgNotInitialized
	case errors.As(err, &attrErr):
		msg = attrErr.Error()
	case errors.Is(err, device.ErrUnsupported):
		msg = msgUnsupported
	}

	return &Error{Command: cmd, Message: msg, Err: err}
}
