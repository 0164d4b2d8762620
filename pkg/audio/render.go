package audio

import (
	"math"
	"time"
)

// Thresholds for trigger edges, after sensitivity gain.
const (
	bassTriggerLevel = 0.6
	highTriggerLevel = 0.8
	bassHueStep      = 45.0
	beatHueStep      = 30.0
)

// output is what one tick asks the fixture to show. Nil fields are left alone.
type output struct {
	color      *[3]uint8
	brightness *uint8
	effect     *uint8
}

// renderer turns successive readings into outputs. It keeps the palette
// position and trigger edge state between ticks.
type renderer struct {
	effects []uint8

	hue        float64
	effectIdx  int
	bassHigh   bool
	highHigh   bool
	lastBeat   bool
	hasEffects bool
}

func newRenderer(effects []uint8) *renderer {
	return &renderer{effects: effects, hasEffects: len(effects) > 0}
}

// gain maps the native sensitivity onto a multiplier where the default
// sensitivity (127) is roughly 1.0.
func gain(sensitivity uint8) float64 {
	return float64(sensitivity) / 127.5
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func (r *renderer) step(cfg Config, lv Levels, dt time.Duration) output {
	g := gain(cfg.Sensitivity)
	bass := clamp01(lv.Bass * g)
	mid := clamp01(lv.Mid * g)
	high := clamp01(lv.High * g)
	level := clamp01(lv.Band(cfg.Range) * g)

	var out output

	if cfg.BassColorTrigger {
		above := bass >= bassTriggerLevel
		if above && !r.bassHigh {
			r.hue = math.Mod(r.hue+bassHueStep, 360)
		}
		r.bassHigh = above
	}

	switch cfg.Mode {
	case ModeFrequencyColor:
		out.color = &[3]uint8{toByte(bass), toByte(mid), toByte(high)}
	case ModeEnhancedFrequencyColor:
		out.color = &[3]uint8{
			toByte(bass + 0.5*mid),
			toByte(0.3*bass + 0.4*mid + 0.3*high),
			toByte(high + 0.5*mid),
		}
	case ModeEnergyBrightness:
		b := toByte(level)
		out.brightness = &b
	case ModeBeatEffects:
		if lv.Beat && !r.lastBeat {
			r.hue = math.Mod(r.hue+beatHueStep, 360)
		}
		c := hsbToRGB(r.hue, 1, math.Max(level, 0.2))
		out.color = &c
	case ModeSpectralFlow:
		r.hue = math.Mod(r.hue+360*level*dt.Seconds(), 360)
		c := hsbToRGB(r.hue, 1, math.Max(level, 0.2))
		out.color = &c
	case ModeBpmSync:
		bpm := lv.BPM
		if bpm <= 0 {
			bpm = 120
		}
		// One full turn of the wheel every eight beats.
		r.hue = math.Mod(r.hue+360*(bpm/60)*dt.Seconds()/8, 360)
		c := hsbToRGB(r.hue, 1, 1)
		out.color = &c
	}
	r.lastBeat = lv.Beat

	if cfg.MidBrightnessTrigger && out.brightness == nil {
		b := toByte(mid)
		out.brightness = &b
	}

	if cfg.HighEffectTrigger && r.hasEffects {
		above := high >= highTriggerLevel
		if above && !r.highHigh {
			id := r.effects[r.effectIdx%len(r.effects)]
			r.effectIdx++
			out.effect = &id
		}
		r.highHigh = above
	}

	return out
}

// hsbToRGB converts hue (degrees), saturation and brightness (0-1) to RGB.
func hsbToRGB(h, s, b float64) [3]uint8 {
	if s == 0 {
		v := toByte(b)
		return [3]uint8{v, v, v}
	}

	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	hh := h / 60.0
	i := int(hh)
	ff := hh - float64(i)
	p := b * (1.0 - s)
	q := b * (1.0 - s*ff)
	t := b * (1.0 - s*(1.0-ff))

	var rr, gg, bb float64
	switch i {
	case 0:
		rr, gg, bb = b, t, p
	case 1:
		rr, gg, bb = q, b, p
	case 2:
		rr, gg, bb = p, b, t
	case 3:
		rr, gg, bb = p, q, b
	case 4:
		rr, gg, bb = t, p, b
	default:
		rr, gg, bb = b, p, q
	}

	return [3]uint8{toByte(rr), toByte(gg), toByte(bb)}
}
