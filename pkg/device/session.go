package device

import "context"

// Connector establishes sessions with the fixture. Implementations own the
// underlying link; a session is only the protocol-level handle on top of it.
type Connector interface {
	// Connect establishes a new session
	Connect(ctx context.Context) (Session, error)
}

// Session is an established connection to one fixture.
// Brightness and effect speed are on the native 0-255 scale.
//
// Implementations must be safe for concurrent use: the audio monitor writes
// to the session from its own goroutine.
type Session interface {
	// SetColor sets the RGB color
	SetColor(ctx context.Context, r, g, b uint8) error

	// SetBrightness sets the brightness
	SetBrightness(ctx context.Context, native uint8) error

	// SetEffect switches to a built-in effect
	SetEffect(ctx context.Context, id uint8) error

	// SetEffectSpeed sets the speed of the running effect
	SetEffectSpeed(ctx context.Context, native uint8) error

	// PowerOn turns the fixture on
	PowerOn(ctx context.Context) error

	// PowerOff turns the fixture off
	PowerOff(ctx context.Context) error

	// State returns a copy of the last known fixture state
	State() State
}

// WhiteSetter is implemented by sessions that support white mode.
type WhiteSetter interface {
	SetColorTemperature(ctx context.Context, kelvin uint32) error
}
