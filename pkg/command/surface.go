// Package command serializes access to the device manager and turns its
// results into projections and user-facing errors. It is the only entry
// point used by the REST, websocket and MCP surfaces.
package command

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/tled/pkg/audio"
	"github.com/urmzd/tled/pkg/device"
	"github.com/urmzd/tled/pkg/device/schema"
)

// Surface owns the manager behind a single lock. Each command holds the lock
// for the whole manager operation, so two commands never interleave.
type Surface struct {
	mu      sync.Mutex
	manager *device.Manager

	lmu       sync.RWMutex
	listeners []Listener
}

// New creates a Surface around manager. The Surface takes ownership; the
// manager must not be used directly afterwards.
func New(manager *device.Manager, listeners ...Listener) *Surface {
	return &Surface{
		manager:   manager,
		listeners: listeners,
	}
}

// Subscribe registers l for events of subsequent commands.
func (s *Surface) Subscribe(l Listener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners = append(s.listeners, l)
}

// ColorArgs are the arguments of ChangeOnly. Nil fields are left unchanged.
type ColorArgs struct {
	R *uint8 `json:"r,omitempty"`
	G *uint8 `json:"g,omitempty"`
	B *uint8 `json:"b,omitempty"`
	A *uint8 `json:"a,omitempty"`
}

// EffectArgs are the arguments of SetEffect.
type EffectArgs struct {
	Effect *uint8 `json:"effect,omitempty"`
	Speed  *uint8 `json:"speed,omitempty"`
}

// AudioArgs are the arguments of UseAudio.
type AudioArgs struct {
	Mode        *audio.Mode `json:"mode,omitempty"`
	Sensitivity *uint8      `json:"sensitivity,omitempty"`
}

// Init establishes a device session, or replaces it when force is set.
func (s *Surface) Init(ctx context.Context, force bool) (*device.Snapshot, error) {
	return s.mutate(schema.CmdInit, map[string]bool{"force": force}, msgInit, func() error {
		return s.manager.Initialize(ctx, force)
	})
}

// Get returns the current projection, or nil when no device is initialized.
func (s *Surface) Get() *device.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.manager.Snapshot()
	if err != nil {
		return nil
	}
	return &snap
}

// Toggle powers the device on or off.
func (s *Surface) Toggle(ctx context.Context, power bool) (*device.Snapshot, error) {
	return s.mutate(schema.CmdToggle, map[string]bool{"power": power}, msgPower, func() error {
		return s.manager.SetPower(ctx, power)
	})
}

// ChangeOnly changes the supplied color channels and brightness.
func (s *Surface) ChangeOnly(ctx context.Context, args ColorArgs) (*device.Snapshot, error) {
	return s.mutate(schema.CmdChangeOnly, args, "", func() error {
		return s.manager.ChangeColorAndBrightness(ctx, args.R, args.G, args.B, args.A)
	})
}

// ChangeAll sets every color channel and the brightness.
func (s *Surface) ChangeAll(ctx context.Context, r, g, b, a uint8) (*device.Snapshot, error) {
	args := ColorArgs{R: &r, G: &g, B: &b, A: &a}
	return s.mutate(schema.CmdChangeAll, args, "", func() error {
		return s.manager.ChangeColorAndBrightness(ctx, args.R, args.G, args.B, args.A)
	})
}

// SetWhite switches the device to white at the given color temperature.
func (s *Surface) SetWhite(ctx context.Context, kelvin uint32) (*device.Snapshot, error) {
	return s.mutate(schema.CmdSetWhite, map[string]uint32{"kelvin": kelvin}, msgWhite, func() error {
		return s.manager.SetWhite(ctx, kelvin)
	})
}

// SetEffect changes the effect and/or effect speed.
func (s *Surface) SetEffect(ctx context.Context, args EffectArgs) (*device.Snapshot, error) {
	return s.mutate(schema.CmdSetEffect, args, "", func() error {
		return s.manager.ChangeEffect(ctx, args.Effect, args.Speed)
	})
}

// UseAudio configures and starts audio visualization.
func (s *Surface) UseAudio(ctx context.Context, args AudioArgs) (*device.Snapshot, error) {
	return s.mutate(schema.CmdUseAudio, args, msgAudio, func() error {
		return s.manager.EnableAudioVisualization(ctx, args.Mode, args.Sensitivity)
	})
}

// StopAudio stops audio visualization. The projection is nil when no device
// is initialized.
func (s *Surface) StopAudio() *device.Snapshot {
	s.mu.Lock()
	s.manager.StopAudioVisualization()
	ev := s.event(schema.CmdStopAudio, nil, nil, "")
	s.mu.Unlock()

	s.emit(ev)
	return ev.Snapshot
}

// DefaultAudioConfiguration returns the attached monitor's configuration or
// the defaults of a fresh monitor.
func (s *Surface) DefaultAudioConfiguration() (*device.AudioSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.manager.DefaultAudioConfiguration()
	if err != nil {
		return nil, newError(schema.CmdDefaultAudio, err, msgDefaultAudio)
	}
	return &cfg, nil
}

// mutate runs op under the lock, projects the result and notifies listeners
// once the lock is released.
func (s *Surface) mutate(cmd string, args any, fallback string, op func() error) (*device.Snapshot, error) {
	s.mu.Lock()
	err := op()
	ev := s.event(cmd, args, err, fallback)
	s.mu.Unlock()

	s.emit(ev)

	if ev.err != nil {
		log.Warn().Err(err).Str("command", cmd).Msg("Command failed")
		return nil, ev.err
	}
	if ev.Snapshot == nil {
		return nil, newError(cmd, device.ErrNotInitialized, fallback)
	}
	return ev.Snapshot, nil
}

type pending struct {
	Event
	err *Error
}

// event builds the outcome of cmd. Must be called with s.mu held.
func (s *Surface) event(cmd string, args any, err error, fallback string) pending {
	ev := pending{Event: Event{
		ID:      uuid.New(),
		Command: cmd,
		Args:    args,
		OK:      err == nil,
		At:      time.Now(),
	}}

	if err != nil {
		ce := newError(cmd, err, fallback)
		ev.Message = ce.Message
		ev.err = ce
	}

	// Failed commands may still have applied part of the change.
	if snap, serr := s.manager.Snapshot(); serr == nil {
		ev.Snapshot = &snap
	}

	return ev
}

func (s *Surface) emit(ev pending) {
	s.lmu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.lmu.RUnlock()

	for _, l := range listeners {
		l(ev.Event)
	}
}
