package device

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/tled/pkg/audio"
	"github.com/urmzd/tled/pkg/scale"
)

// Manager owns the single fixture session and the optional audio monitor.
//
// A Manager is not safe for concurrent use. Callers serialize access with
// one lock covering the whole manager (see the command package). The audio
// monitor's background loop runs outside that lock once started.
type Manager struct {
	connector  Connector
	newMonitor audio.Factory

	session Session
	monitor audio.Monitor
}

// NewManager creates an empty manager: no session, no monitor.
func NewManager(connector Connector, newMonitor audio.Factory) *Manager {
	return &Manager{
		connector:  connector,
		newMonitor: newMonitor,
	}
}

// Initialized reports whether a session is present.
func (m *Manager) Initialized() bool {
	return m.session != nil
}

// AudioAttached reports whether an audio monitor is present.
func (m *Manager) AudioAttached() bool {
	return m.monitor != nil
}

// Initialize establishes a session when none exists or when force is set.
// On failure the previous session, if any, is kept.
func (m *Manager) Initialize(ctx context.Context, force bool) error {
	if m.session != nil && !force {
		return nil
	}

	s, err := m.connector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	if s == nil {
		return fmt.Errorf("%w: connector returned no session", ErrConnection)
	}

	replaced := m.session != nil
	m.session = s
	log.Info().Bool("replaced", replaced).Str("type", s.State().DeviceType).Msg("Device session established")

	// A running monitor must not keep writing to the replaced session.
	if replaced && m.monitor != nil && m.monitor.Config().Active {
		m.monitor.Start(s)
	}

	return nil
}

// SetPower turns the fixture on or off.
func (m *Manager) SetPower(ctx context.Context, on bool) error {
	if m.session == nil {
		return ErrNotInitialized
	}
	if on {
		return m.session.PowerOn(ctx)
	}
	return m.session.PowerOff(ctx)
}

// ChangeColorAndBrightness updates any of the color channels and the
// brightness (0-100). Unset color channels keep their current value. The
// color and brightness groups are attempted independently and their
// failures are reported together.
func (m *Manager) ChangeColorAndBrightness(ctx context.Context, r, g, b, a *uint8) error {
	if m.session == nil {
		return ErrNotInitialized
	}

	var at attempts

	if r != nil || g != nil || b != nil {
		cur := m.session.State().RGB
		err := m.session.SetColor(ctx, valueOr(r, cur[0]), valueOr(g, cur[1]), valueOr(b, cur[2]))
		at.record(failColor, err)
	}

	if a != nil {
		at.record(failBrightness, m.session.SetBrightness(ctx, scale.ToNative(*a)))
	}

	return at.err()
}

// ChangeEffect switches effect and/or sets the effect speed (0-100), with
// the same independent-attempt policy as ChangeColorAndBrightness.
func (m *Manager) ChangeEffect(ctx context.Context, effect, speed *uint8) error {
	if m.session == nil {
		return ErrNotInitialized
	}

	var at attempts

	if effect != nil {
		at.record(failEffect, m.session.SetEffect(ctx, *effect))
	}

	if speed != nil {
		at.record(failEffectSpeed, m.session.SetEffectSpeed(ctx, scale.ToNative(*speed)))
	}

	return at.err()
}

// SetWhite switches the fixture to white mode at the given temperature.
func (m *Manager) SetWhite(ctx context.Context, kelvin uint32) error {
	if m.session == nil {
		return ErrNotInitialized
	}
	ws, ok := m.session.(WhiteSetter)
	if !ok {
		return ErrUnsupported
	}
	return ws.SetColorTemperature(ctx, kelvin)
}

// EnableAudioVisualization creates the audio monitor if needed, applies the
// supplied settings (sensitivity on the 0-100 scale) and starts monitoring
// against the current session. Monitoring runs in the background; this
// call does not wait for it.
func (m *Manager) EnableAudioVisualization(ctx context.Context, mode *audio.Mode, sensitivity *uint8) error {
	if m.session == nil {
		return ErrNotInitialized
	}

	if m.monitor == nil {
		mon, err := m.newMonitor()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAudioInit, err)
		}
		m.monitor = mon
		log.Info().Msg("Audio monitor created")
	}

	cfg := m.monitor.Config()
	if mode != nil {
		cfg.Mode = *mode
	}
	if sensitivity != nil {
		cfg.Sensitivity = scale.ToNative(*sensitivity)
	}
	m.monitor.SetConfig(cfg)

	m.monitor.Start(m.session)
	log.Info().Str("mode", cfg.Mode.String()).Uint8("sensitivity", cfg.Sensitivity).Msg("Audio visualization started")

	return nil
}

// StopAudioVisualization stops and discards the audio monitor. It is a
// no-op when no monitor exists.
func (m *Manager) StopAudioVisualization() {
	if m.monitor == nil {
		return
	}
	m.monitor.Stop()
	m.monitor = nil
	log.Info().Msg("Audio visualization stopped")
}

func valueOr(p *uint8, def uint8) uint8 {
	if p == nil {
		return def
	}
	return *p
}
