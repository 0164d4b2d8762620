package device

// State is the readable state of a fixture as tracked by its session.
type State struct {
	IsOn            bool
	RGB             [3]uint8
	Brightness      uint8  // native 0-255
	Effect          *uint8 // active effect, if any
	EffectSpeed     *uint8 // native 0-255, if an effect is active
	ColorTempKelvin *uint32
	DeviceType      string
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	c.Effect = clonePtr(s.Effect)
	c.EffectSpeed = clonePtr(s.EffectSpeed)
	c.ColorTempKelvin = clonePtr(s.ColorTempKelvin)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Attribute group labels used in aggregated failures
const (
	failColor       = "Failed to change device's color"
	failBrightness  = "Failed to change device's brightness"
	failEffect      = "Failed to modify device's effect"
	failEffectSpeed = "Failed to modify device's effect speed"
)
