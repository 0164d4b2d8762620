package audio

import (
	"fmt"

	"github.com/urmzd/tled/pkg/scale"
)

// Range selects which part of the spectrum drives the visualization.
type Range int

const (
	RangeBass Range = iota // 20-250 Hz
	RangeMid               // 250-2000 Hz
	RangeHigh              // 2000-20000 Hz
	RangeFull
)

var rangeNames = []string{"Bass", "Mid", "High", "Full"}

func (r Range) String() string {
	if r < 0 || int(r) >= len(rangeNames) {
		return fmt.Sprintf("Range(%d)", int(r))
	}
	return rangeNames[r]
}

// MarshalText encodes the range by name.
func (r Range) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(rangeNames) {
		return nil, fmt.Errorf("%w: range %d", ErrUnknownValue, int(r))
	}
	return []byte(rangeNames[r]), nil
}

// UnmarshalText decodes a range name.
func (r *Range) UnmarshalText(text []byte) error {
	v, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseRange returns the range with the given name.
func ParseRange(s string) (Range, error) {
	for i, name := range rangeNames {
		if name == s {
			return Range(i), nil
		}
	}
	return 0, fmt.Errorf("%w: range %q", ErrUnknownValue, s)
}

// Mode selects how audio levels are turned into light.
type Mode int

const (
	ModeFrequencyColor         Mode = iota // bass=red, mid=green, high=blue
	ModeEnergyBrightness                   // sound energy drives brightness
	ModeBeatEffects                        // beats step through the palette
	ModeSpectralFlow                       // hue drifts with energy
	ModeEnhancedFrequencyColor             // warm for bass, cool for highs
	ModeBpmSync                            // hue rotates in time with the tempo
)

var modeNames = []string{
	"FrequencyColor",
	"EnergyBrightness",
	"BeatEffects",
	"SpectralFlow",
	"EnhancedFrequencyColor",
	"BpmSync",
}

// ModeNames lists every mode name in declaration order.
func ModeNames() []string {
	return append([]string(nil), modeNames...)
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(modeNames) {
		return nil, fmt.Errorf("%w: mode %d", ErrUnknownValue, int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText decodes a mode name.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMode returns the mode with the given name.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: mode %q", ErrUnknownValue, s)
}

// Config is the monitor configuration. Sensitivity is on the native 0-255
// scale; callers facing users convert with the scale package.
type Config struct {
	Range                Range
	Mode                 Mode
	Sensitivity          uint8
	BassColorTrigger     bool
	MidBrightnessTrigger bool
	HighEffectTrigger    bool
	UpdateIntervalMs     uint32
	Active               bool
}

// Minimum accepted update interval.
const minUpdateIntervalMs = 10

// DefaultConfig returns the configuration of a freshly created monitor.
func DefaultConfig() Config {
	return Config{
		Range:                RangeFull,
		Mode:                 ModeFrequencyColor,
		Sensitivity:          scale.ToNative(50),
		BassColorTrigger:     true,
		MidBrightnessTrigger: true,
		HighEffectTrigger:    false,
		UpdateIntervalMs:     50,
		Active:               false,
	}
}
