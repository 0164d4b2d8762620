package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/urmzd/tled/pkg/api/types"
	"github.com/urmzd/tled/pkg/audio"
)

func newAudioCommand(ctx *commandContext) *cobra.Command {
	audioCmd := &cobra.Command{
		Use:   "audio",
		Short: "Manage audio visualization",
	}

	var mode string
	var sensitivity int

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start audio visualization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req types.AudioRequest
			if mode != "" {
				name, err := parseMode(mode)
				if err != nil {
					return err
				}
				req.Mode = &name
			}
			if cmd.Flags().Changed("sensitivity") {
				if sensitivity < 0 || sensitivity > 100 {
					return fmt.Errorf("sensitivity must be between 0 and 100")
				}
				s := uint8(sensitivity)
				req.Sensitivity = &s
			}
			return deviceCall(ctx, cmd, http.MethodPost, "/device/audio", req)
		},
	}
	startCmd.Flags().StringVarP(&mode, "mode", "m", "", "Visualization mode: "+strings.Join(audio.ModeNames(), ", "))
	startCmd.Flags().IntVar(&sensitivity, "sensitivity", 0, "Sensitivity 0-100")

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop audio visualization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deviceCall(ctx, cmd, http.MethodDelete, "/device/audio", nil)
		},
	}

	defaultsCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the audio configuration, or the defaults when none is active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client) error {
				var resp types.AudioConfigResponse
				if err := c.do(cmd.Context(), http.MethodGet, "/device/audio/default", nil, &resp); err != nil {
					return err
				}
				if ctx.jsonOutput() || resp.Audio == nil {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderAudio(resp.Audio))
				return nil
			})
		},
	}

	audioCmd.AddCommand(startCmd, stopCmd, defaultsCmd)
	return audioCmd
}

// parseMode matches a mode name case-insensitively.
func parseMode(arg string) (string, error) {
	for _, name := range audio.ModeNames() {
		if strings.EqualFold(name, arg) {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (choose from %s)", arg, strings.Join(audio.ModeNames(), ", "))
}
