package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/urmzd/tled/pkg/advertise"
	"github.com/urmzd/tled/pkg/api/types"
)

func newEffectsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "effects",
		Short: "List built-in effects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(c *client) error {
				var resp types.EffectsResponse
				if err := c.do(cmd.Context(), http.MethodGet, "/effects", nil, &resp); err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}

				rows := make([][]string, 0, len(resp.Effects))
				for _, e := range resp.Effects {
					rows = append(rows, []string{fmt.Sprintf("0x%02x", e.ID), strconv.Itoa(int(e.ID)), e.Name})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Hex", "ID", "Name"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
				return nil
			})
		},
	}
}

func newEventsCommand(ctx *commandContext) *cobra.Command {
	var command string
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent commands and their outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if command != "" {
				q.Set("command", command)
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			path := "/events"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			return ctx.withClient(func(c *client) error {
				var resp types.EventsResponse
				if err := c.do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				if len(resp.Events) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No recorded commands")
					return nil
				}

				rows := make([][]string, 0, len(resp.Events))
				for _, e := range resp.Events {
					result := "ok"
					if !e.OK {
						result = e.Message
					}
					rows = append(rows, []string{e.At.Local().Format(time.DateTime), e.Command, string(e.Args), result})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Time", "Command", "Args", "Result"}, rows, nil))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&command, "command", "", "Only show this command (e.g. device_toggle)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of events")
	return cmd
}

func newDiscoverCommand(ctx *commandContext) *cobra.Command {
	var timeout time.Duration
	var save bool

	cmd := &cobra.Command{
		Use:         "discover",
		Short:       "Find tled daemons on the local network",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			instances, err := advertise.Lookup(cmd.Context(), timeout)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, instances)
			}
			if len(instances) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No daemons found")
				return nil
			}

			rows := make([][]string, 0, len(instances))
			for _, in := range instances {
				rows = append(rows, []string{in.Name, in.Host, in.URL()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Host", "URL"}, rows, nil))

			if !save {
				return nil
			}
			return updateConfig(ctx, func(cfg *cliConfig) {
				cfg.Server = instances[0].URL()
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "How long to listen for announcements")
	cmd.Flags().BoolVar(&save, "save", false, "Store the first daemon found as the server")
	return cmd
}
