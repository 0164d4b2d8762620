// Package scale converts values between the 0-100 scale exposed to users and
// the 0-255 scale the fixture uses internally.
//
// The conversions truncate, so they are not exact inverses: ToHuman(ToNative(h))
// may be one below h for intermediate values. Both edges (0 and 100) round
// trip exactly.
package scale

// Upper bounds of the two scales.
const (
	HumanMax  = 100
	NativeMax = 255
)

// ToNative maps a 0-100 value onto 0-255. Values above 100 are clamped.
func ToNative(human uint8) uint8 {
	if human > HumanMax {
		human = HumanMax
	}
	return uint8(uint16(human) * NativeMax / HumanMax)
}

// ToHuman maps a 0-255 value onto 0-100.
func ToHuman(native uint8) uint8 {
	return uint8(uint16(native) * HumanMax / NativeMax)
}

// ToNativePtr converts an optional human value, preserving absence.
func ToNativePtr(human *uint8) *uint8 {
	if human == nil {
		return nil
	}
	v := ToNative(*human)
	return &v
}

// ToHumanPtr converts an optional native value, preserving absence.
func ToHumanPtr(native *uint8) *uint8 {
	if native == nil {
		return nil
	}
	v := ToHuman(*native)
	return &v
}
