package elk

import (
	"context"
	"sync"

	"github.com/urmzd/tled/pkg/device"
	"github.com/urmzd/tled/pkg/scale"
)

// Session is a device.Session over a Link. It is safe for concurrent use:
// the audio engine writes to it while commands are being served.
//
// The controller does not report its state, so the session tracks what it
// has successfully written. State changes only after a frame was accepted.
type Session struct {
	mu    sync.Mutex
	link  Link
	state device.State
}

var (
	_ device.Session     = (*Session)(nil)
	_ device.WhiteSetter = (*Session)(nil)
)

// NewSession creates a session assuming the controller's power-on defaults.
func NewSession(link Link) *Session {
	return &Session{
		link: link,
		state: device.State{
			RGB:        [3]uint8{255, 255, 255},
			Brightness: scale.NativeMax,
			DeviceType: DeviceType,
		},
	}
}

func (s *Session) send(ctx context.Context, f Frame, apply func(st *device.State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.link.Write(ctx, f); err != nil {
		return err
	}
	apply(&s.state)
	return nil
}

func (s *Session) SetColor(ctx context.Context, r, g, b uint8) error {
	return s.send(ctx, ColorFrame(r, g, b), func(st *device.State) {
		st.RGB = [3]uint8{r, g, b}
		st.Effect = nil
		st.ColorTempKelvin = nil
	})
}

// SetBrightness takes a native 0-255 level; the controller expects a
// percentage.
func (s *Session) SetBrightness(ctx context.Context, native uint8) error {
	return s.send(ctx, BrightnessFrame(scale.ToHuman(native)), func(st *device.State) {
		st.Brightness = native
	})
}

func (s *Session) SetEffect(ctx context.Context, id uint8) error {
	return s.send(ctx, EffectFrame(id), func(st *device.State) {
		st.Effect = &id
		st.ColorTempKelvin = nil
	})
}

func (s *Session) SetEffectSpeed(ctx context.Context, native uint8) error {
	return s.send(ctx, EffectSpeedFrame(scale.ToHuman(native)), func(st *device.State) {
		st.EffectSpeed = &native
	})
}

func (s *Session) PowerOn(ctx context.Context) error {
	return s.send(ctx, PowerFrame(true), func(st *device.State) {
		st.IsOn = true
	})
}

func (s *Session) PowerOff(ctx context.Context) error {
	return s.send(ctx, PowerFrame(false), func(st *device.State) {
		st.IsOn = false
	})
}

// SetColorTemperature switches to white mode. The recorded temperature is
// the clamped value actually sent.
func (s *Session) SetColorTemperature(ctx context.Context, kelvin uint32) error {
	k := min(max(kelvin, MinKelvin), MaxKelvin)
	return s.send(ctx, TemperatureFrame(k), func(st *device.State) {
		st.ColorTempKelvin = &k
		st.Effect = nil
	})
}

func (s *Session) State() device.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}
