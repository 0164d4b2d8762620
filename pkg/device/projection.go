package device

import (
	"fmt"

	"github.com/urmzd/tled/pkg/audio"
	"github.com/urmzd/tled/pkg/scale"
)

// Snapshot is a read-only projection of the manager's state, safe to
// serialize and hand to other goroutines. All levels are on the 0-100 scale.
type Snapshot struct {
	IsOn            bool           `json:"is_on"`
	RGBColor        [3]uint8       `json:"rgb_color"`
	Brightness      uint8          `json:"brightness"`
	Effect          *uint8         `json:"effect,omitempty"`
	EffectSpeed     *uint8         `json:"effect_speed,omitempty"`
	ColorTempKelvin *uint32        `json:"color_temp_kelvin,omitempty"`
	DeviceTypeName  string         `json:"device_type_name"`
	Audio           *AudioSnapshot `json:"audio,omitempty"`
}

// AudioSnapshot is a read-only projection of an audio monitor configuration.
type AudioSnapshot struct {
	Range                audio.Range `json:"range"`
	Mode                 audio.Mode  `json:"mode"`
	Sensitivity          uint8       `json:"sensitivity"`
	BassColorTrigger     bool        `json:"bass_color_trigger"`
	MidBrightnessTrigger bool        `json:"mid_brightness_trigger"`
	HighEffectTrigger    bool        `json:"high_effect_trigger"`
	UpdateIntervalMs     uint32      `json:"update_interval_ms"`
	Active               bool        `json:"active"`
}

// NewSnapshot builds a projection of m. It fails with ErrNotInitialized
// when no session exists.
func NewSnapshot(m *Manager) (Snapshot, error) {
	if m.session == nil {
		return Snapshot{}, ErrNotInitialized
	}

	st := m.session.State().Clone()
	snap := Snapshot{
		IsOn:            st.IsOn,
		RGBColor:        st.RGB,
		Brightness:      scale.ToHuman(st.Brightness),
		Effect:          st.Effect,
		EffectSpeed:     scale.ToHumanPtr(st.EffectSpeed),
		ColorTempKelvin: st.ColorTempKelvin,
		DeviceTypeName:  st.DeviceType,
	}

	if m.monitor != nil {
		a := NewAudioSnapshot(m.monitor.Config())
		snap.Audio = &a
	}

	return snap, nil
}

// NewAudioSnapshot projects an audio configuration.
func NewAudioSnapshot(cfg audio.Config) AudioSnapshot {
	return AudioSnapshot{
		Range:                cfg.Range,
		Mode:                 cfg.Mode,
		Sensitivity:          scale.ToHuman(cfg.Sensitivity),
		BassColorTrigger:     cfg.BassColorTrigger,
		MidBrightnessTrigger: cfg.MidBrightnessTrigger,
		HighEffectTrigger:    cfg.HighEffectTrigger,
		UpdateIntervalMs:     cfg.UpdateIntervalMs,
		Active:               cfg.Active,
	}
}

// Snapshot returns a projection of the current state.
func (m *Manager) Snapshot() (Snapshot, error) {
	return NewSnapshot(m)
}

// DefaultAudioConfiguration projects the attached monitor's configuration,
// or the defaults of a transient monitor that is not attached.
func (m *Manager) DefaultAudioConfiguration() (AudioSnapshot, error) {
	if m.monitor != nil {
		return NewAudioSnapshot(m.monitor.Config()), nil
	}

	mon, err := m.newMonitor()
	if err != nil {
		return AudioSnapshot{}, fmt.Errorf("%w: %w", ErrAudioInit, err)
	}
	return NewAudioSnapshot(mon.Config()), nil
}
