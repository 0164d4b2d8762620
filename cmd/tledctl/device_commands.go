package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/urmzd/tled/pkg/api/types"
	"github.com/urmzd/tled/pkg/elk"
)

func newDeviceCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newInitCommand(ctx),
		newStatusCommand(ctx),
		newPowerCommand(ctx, "on", true),
		newPowerCommand(ctx, "off", false),
		newColorCommand(ctx),
		newWhiteCommand(ctx),
		newEffectCommand(ctx),
	}
}

// deviceCall runs one device request and prints the resulting projection.
func deviceCall(ctx *commandContext, cmd *cobra.Command, method, path string, body any) error {
	return ctx.withClient(func(c *client) error {
		var resp types.DeviceResponse
		if err := c.do(cmd.Context(), method, path, body, &resp); err != nil {
			return err
		}
		if ctx.jsonOutput() {
			return writeJSON(cmd, resp)
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderSnapshot(resp.Device, shouldColorize(cmd.OutOrStdout())))
		return nil
	})
}

func newInitCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Connect to the fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deviceCall(ctx, cmd, http.MethodPost, "/device/init", types.InitRequest{Force: force})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing session")
	return cmd
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"get"},
		Short:   "Show the fixture state",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deviceCall(ctx, cmd, http.MethodGet, "/device", nil)
		},
	}
}

func newPowerCommand(ctx *commandContext, use string, on bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: "Turn the fixture " + use,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deviceCall(ctx, cmd, http.MethodPost, "/device/power", types.PowerRequest{Power: on})
		},
	}
}

func newColorCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var brightness int

	cmd := &cobra.Command{
		Use:   "color [#rrggbb | r g b]",
		Short: "Change color and brightness",
		Long: "Change the color channels and/or the brightness (0-100).\n" +
			"Without --all only the given values change.",
		Example: "  tledctl color '#ff8000' -a 60\n  tledctl color 255 0 0 --all -a 100\n  tledctl color -a 20",
		Args:    cobra.RangeArgs(0, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseColorArgs(args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("brightness") {
				if brightness < 0 || brightness > 100 {
					return fmt.Errorf("brightness must be between 0 and 100")
				}
				a := uint8(brightness)
				req.A = &a
			}

			if all {
				if req.R == nil || req.A == nil {
					return fmt.Errorf("--all needs a color and --brightness")
				}
				return deviceCall(ctx, cmd, http.MethodPut, "/device/color", req)
			}
			if req.R == nil && req.A == nil {
				return fmt.Errorf("nothing to change; pass a color or --brightness")
			}
			return deviceCall(ctx, cmd, http.MethodPatch, "/device/color", req)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Set every channel and the brightness")
	cmd.Flags().IntVarP(&brightness, "brightness", "a", 0, "Brightness 0-100")
	return cmd
}

// parseColorArgs accepts nothing, a #rrggbb hex color or three channels.
func parseColorArgs(args []string) (types.ColorRequest, error) {
	var req types.ColorRequest
	var rgb [3]uint8

	switch len(args) {
	case 0:
		return req, nil
	case 1:
		hex := strings.TrimPrefix(args[0], "#")
		if len(hex) != 6 {
			return req, fmt.Errorf("color %q is not #rrggbb", args[0])
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return req, fmt.Errorf("color %q is not #rrggbb", args[0])
		}
		rgb = [3]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v)}
	case 3:
		for i, arg := range args {
			v, err := strconv.ParseUint(arg, 10, 8)
			if err != nil {
				return req, fmt.Errorf("channel %q must be between 0 and 255", arg)
			}
			rgb[i] = uint8(v)
		}
	default:
		return req, fmt.Errorf("expected #rrggbb or three channels")
	}

	req.R, req.G, req.B = &rgb[0], &rgb[1], &rgb[2]
	return req, nil
}

func newWhiteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "white <kelvin>",
		Short: fmt.Sprintf("Switch to white (%d-%d K)", elk.MinKelvin, elk.MaxKelvin),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := strconv.ParseUint(strings.TrimSuffix(strings.ToUpper(args[0]), "K"), 10, 32)
			if err != nil {
				return fmt.Errorf("invalid temperature %q", args[0])
			}
			return deviceCall(ctx, cmd, http.MethodPost, "/device/white", types.WhiteRequest{Kelvin: uint32(k)})
		},
	}
}

func newEffectCommand(ctx *commandContext) *cobra.Command {
	var speed int

	cmd := &cobra.Command{
		Use:   "effect [name | id]",
		Short: "Switch effect and/or set the effect speed",
		Long:  "Switch to a built-in effect by name or id (see `tledctl effects`) and/or set its speed (0-100).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req types.EffectRequest
			if len(args) == 1 {
				id, err := parseEffect(args[0])
				if err != nil {
					return err
				}
				req.Effect = &id
			}
			if cmd.Flags().Changed("speed") {
				if speed < 0 || speed > 100 {
					return fmt.Errorf("speed must be between 0 and 100")
				}
				s := uint8(speed)
				req.Speed = &s
			}
			if req.Effect == nil && req.Speed == nil {
				return fmt.Errorf("nothing to change; pass an effect or --speed")
			}
			return deviceCall(ctx, cmd, http.MethodPost, "/device/effect", req)
		},
	}
	cmd.Flags().IntVar(&speed, "speed", 0, "Effect speed 0-100")
	return cmd
}

func parseEffect(arg string) (uint8, error) {
	if id, ok := elk.EffectByName(strings.ReplaceAll(strings.ToLower(arg), "-", "_")); ok {
		return id, nil
	}
	v, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown effect %q", arg)
	}
	return uint8(v), nil
}
