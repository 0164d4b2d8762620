// Package elk drives ELK-BLEDOM style LED strip controllers. Every command is
// a fixed 9-byte frame written to the controller's write characteristic:
//
//	7E 00 <cmd> <p1> <p2> <p3> <p4> 00 EF
//
// The package does not talk BLE itself; frames are handed to a Link, which
// may be a serial BLE bridge, an MQTT BLE proxy or an in-memory simulator.
package elk

import "fmt"

// DeviceType is reported in device state.
const DeviceType = "ELK-BLEDOM"

const (
	frameLen   = 9
	frameStart = 0x7E
	frameEnd   = 0xEF
)

// Command bytes.
const (
	cmdBrightness  byte = 0x01
	cmdEffectSpeed byte = 0x02
	cmdEffect      byte = 0x03
	cmdPower       byte = 0x04
	cmdColor       byte = 0x05
)

// Sub-commands of cmdColor.
const (
	colorModeTemperature byte = 0x02
	colorModeRGB         byte = 0x03
)

// White temperature range supported by the fixture, in Kelvin.
const (
	MinKelvin = 2700
	MaxKelvin = 6500
)

// Frame is one encoded command.
type Frame [frameLen]byte

func (f Frame) String() string {
	return fmt.Sprintf("% x", f[:])
}

func newFrame(cmd byte, p1, p2, p3, p4 byte) Frame {
	return Frame{frameStart, 0x00, cmd, p1, p2, p3, p4, 0x00, frameEnd}
}

// PowerFrame switches the fixture on or off.
func PowerFrame(on bool) Frame {
	if on {
		return newFrame(cmdPower, 0xF0, 0x00, 0x01, 0xFF)
	}
	return newFrame(cmdPower, 0x00, 0x00, 0x00, 0xFF)
}

// ColorFrame sets a static RGB color.
func ColorFrame(r, g, b uint8) Frame {
	return newFrame(cmdColor, colorModeRGB, r, g, b)
}

// BrightnessFrame sets the brightness as a percentage (0-100).
func BrightnessFrame(percent uint8) Frame {
	return newFrame(cmdBrightness, min(percent, 100), 0x00, 0x00, 0x00)
}

// EffectFrame starts a built-in effect.
func EffectFrame(id uint8) Frame {
	return newFrame(cmdEffect, id, 0x03, 0x00, 0x00)
}

// EffectSpeedFrame sets the effect speed as a percentage (0-100).
func EffectSpeedFrame(percent uint8) Frame {
	return newFrame(cmdEffectSpeed, min(percent, 100), 0x00, 0x00, 0x00)
}

// TemperatureFrame switches to white at the given temperature, clamped to
// [MinKelvin, MaxKelvin]. The fixture mixes a warm and a cold channel.
func TemperatureFrame(kelvin uint32) Frame {
	warm, cold := WhiteMix(kelvin)
	return newFrame(cmdColor, colorModeTemperature, warm, cold, 0x00)
}

// WhiteMix returns the warm and cold channel percentages for kelvin.
func WhiteMix(kelvin uint32) (warm, cold uint8) {
	k := min(max(kelvin, MinKelvin), MaxKelvin)
	cold = uint8((k - MinKelvin) * 100 / (MaxKelvin - MinKelvin))
	return 100 - cold, cold
}

// ParseFrame validates raw bytes as a frame.
func ParseFrame(b []byte) (Frame, error) {
	var f Frame
	if len(b) != frameLen {
		return f, fmt.Errorf("%w: length %d", ErrBadFrame, len(b))
	}
	if b[0] != frameStart || b[frameLen-1] != frameEnd {
		return f, fmt.Errorf("%w: bad delimiters", ErrBadFrame)
	}
	copy(f[:], b)
	return f, nil
}
