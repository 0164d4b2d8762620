package elk

import "sort"

// Effect is a built-in animation of the controller.
type Effect struct {
	ID   uint8  `json:"id"`
	Name string `json:"name"`
}

var effectNames = map[uint8]string{
	0x87: "jump_red_green_blue",
	0x88: "jump_red_green_blue_yellow_cyan_magenta_white",
	0x89: "crossfade_red",
	0x8A: "crossfade_green",
	0x8B: "crossfade_blue",
	0x8C: "crossfade_yellow",
	0x8D: "crossfade_cyan",
	0x8E: "crossfade_magenta",
	0x8F: "crossfade_white",
	0x90: "crossfade_red_green",
	0x91: "crossfade_red_blue",
	0x92: "crossfade_green_blue",
	0x93: "crossfade_red_green_blue_yellow_cyan_magenta_white",
	0x94: "blink_red",
	0x95: "blink_green",
	0x96: "blink_blue",
	0x97: "blink_yellow",
	0x98: "blink_cyan",
	0x99: "blink_magenta",
	0x9A: "blink_white",
	0x9B: "blink_red_green_blue_yellow_cyan_magenta_white",
	0x9C: "jump_fade_red_green_blue_yellow_cyan_magenta_white",
}

// Effects returns the effect catalogue ordered by id.
func Effects() []Effect {
	out := make([]Effect, 0, len(effectNames))
	for id, name := range effectNames {
		out = append(out, Effect{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EffectIDs returns the ids of all effects in ascending order.
func EffectIDs() []uint8 {
	effects := Effects()
	ids := make([]uint8, len(effects))
	for i, e := range effects {
		ids[i] = e.ID
	}
	return ids
}

// EffectName returns the name of an effect, if known.
func EffectName(id uint8) (string, bool) {
	name, ok := effectNames[id]
	return name, ok
}

// EffectByName looks an effect up by name.
func EffectByName(name string) (uint8, bool) {
	for id, n := range effectNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}
