package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urmzd/tled/pkg/device"
	"github.com/urmzd/tled/pkg/device/schema"
)

// Dispatcher runs commands by name with JSON arguments. It backs the
// websocket and MCP surfaces, which address commands by name.
type Dispatcher struct {
	surface   *Surface
	validator *schema.Validator
}

// NewDispatcher creates a dispatcher over surface.
func NewDispatcher(surface *Surface, validator *schema.Validator) *Dispatcher {
	return &Dispatcher{surface: surface, validator: validator}
}

// Surface returns the underlying surface.
func (d *Dispatcher) Surface() *Surface {
	return d.surface
}

// Dispatch validates args against the command's schema and runs it. The
// result is a *device.Snapshot (possibly nil) or a *device.AudioSnapshot.
// Validation failures wrap device.ErrValidation.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	if _, ok := schema.CommandSchema(name); !ok {
		return nil, fmt.Errorf("%w: unknown command %q", device.ErrValidation, name)
	}

	decode := func(out any) error {
		if err := d.validator.Decode(name, args, out); err != nil {
			return fmt.Errorf("%w: %w", device.ErrValidation, err)
		}
		return nil
	}

	switch name {
	case schema.CmdInit:
		var a struct {
			Force bool `json:"force"`
		}
		if err := decode(&a); err != nil {
			return nil, err
		}
		return d.surface.Init(ctx, a.Force)

	case schema.CmdGet:
		if err := decode(nil); err != nil {
			return nil, err
		}
		return d.surface.Get(), nil

	case schema.CmdToggle:
		var a struct {
			Power bool `json:"power"`
		}
		if err := decode(&a); err != nil {
			return nil, err
		}
		return d.surface.Toggle(ctx, a.Power)

	case schema.CmdChangeOnly:
		var a ColorArgs
		if err := decode(&a); err != nil {
			return nil, err
		}
		return d.surface.ChangeOnly(ctx, a)

	case schema.CmdChangeAll:
		var a ColorArgs
		if err := decode(&a); err != nil {
			return nil, err
		}
		return d.surface.ChangeAll(ctx, *a.R, *a.G, *a.B, *a.A)

	case schema.CmdSetWhite:
		var a struct {
			Kelvin uint32 `json:"kelvin"`
		}
		if err := decode(&a); err != nil {
			return nil, err
		}
		return d.surface.SetWhite(ctx, a.Kelvin)

	case schema.CmdSetEffect:
		var a EffectArgs
		if err := decode(&a); err != nil {
			return nil, err
		}
		return d.surface.SetEffect(ctx, a)

	case schema.CmdUseAudio:
		var a AudioArgs
		if err := decode(&a); err != nil {
			return nil, err
		}
		return d.surface.UseAudio(ctx, a)

	case schema.CmdStopAudio:
		if err := decode(nil); err != nil {
			return nil, err
		}
		return d.surface.StopAudio(), nil

	case schema.CmdDefaultAudio:
		if err := decode(nil); err != nil {
			return nil, err
		}
		return d.surface.DefaultAudioConfiguration()
	}

	return nil, fmt.Errorf("%w: unhandled command %q", device.ErrValidation, name)
}
