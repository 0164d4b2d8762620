// Package audio drives the fixture from live audio levels.
//
// The package consumes levels produced elsewhere (see LevelSource); it does
// not capture or analyse audio itself. A Monitor owns one background loop
// that is started without blocking and stopped reliably.
package audio

import (
	"context"
	"errors"
)

var (
	// ErrNoSource indicates a monitor was created without a level source
	ErrNoSource = errors.New("no audio level source")

	// ErrUnknownValue indicates an unknown range or mode name
	ErrUnknownValue = errors.New("unknown value")
)

// Target is the part of a device session the monitor writes to.
// Brightness is on the native 0-255 scale.
type Target interface {
	SetColor(ctx context.Context, r, g, b uint8) error
	SetBrightness(ctx context.Context, native uint8) error
	SetEffect(ctx context.Context, id uint8) error
}

// Monitor is a stoppable audio-reactive engine with a mutable configuration.
type Monitor interface {
	// Config returns a copy of the current configuration
	Config() Config

	// SetConfig replaces the configuration
	SetConfig(cfg Config)

	// Start begins continuous monitoring against target and returns
	// immediately. Starting a running monitor restarts it.
	Start(target Target)

	// Stop terminates the background loop and returns once it has exited
	Stop()
}

// Factory creates a monitor with the default configuration.
type Factory func() (Monitor, error)

// Levels is one reading of the audio spectrum. Band values are 0.0-1.0.
type Levels struct {
	Bass   float64 `json:"bass"`
	Mid    float64 `json:"mid"`
	High   float64 `json:"high"`
	Energy float64 `json:"energy"`
	Beat   bool    `json:"beat"`
	BPM    float64 `json:"bpm"`
}

// Band returns the level of the selected range.
func (l Levels) Band(r Range) float64 {
	switch r {
	case RangeBass:
		return l.Bass
	case RangeMid:
		return l.Mid
	case RangeHigh:
		return l.High
	default:
		return l.Energy
	}
}

// LevelSource supplies the most recent audio levels.
type LevelSource interface {
	Levels(ctx context.Context) (Levels, error)
}

// SilentSource always reports silence. It is used when no analyser feed is
// configured so the monitor can still be created and driven.
type SilentSource struct{}

func (SilentSource) Levels(context.Context) (Levels, error) {
	return Levels{}, nil
}

// StaticSource reports a fixed reading.
type StaticSource Levels

func (s StaticSource) Levels(context.Context) (Levels, error) {
	return Levels(s), nil
}
