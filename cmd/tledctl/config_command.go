package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the client configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, _ := ctx.configPath()

			shown := *cfg
			if shown.Token != "" {
				shown.Token = "(set)"
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, shown)
			}
			rows := [][]string{
				{"file", path},
				{"server", shown.Server},
				{"token", shown.Token},
				{"timeout", shown.Timeout},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, rows, nil))
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:       "set <server|token|timeout> <value>",
		Short:     "Store a configuration value",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"server", "token", "timeout"},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := strings.ToLower(args[0]), args[1]
			var apply func(*cliConfig)
			switch key {
			case "server":
				apply = func(c *cliConfig) { c.Server = strings.TrimSuffix(value, "/") }
			case "token":
				apply = func(c *cliConfig) { c.Token = value }
			case "timeout":
				apply = func(c *cliConfig) { c.Timeout = value }
			default:
				return fmt.Errorf("unknown key %q", args[0])
			}
			return updateConfig(ctx, apply)
		},
	}

	configCmd.AddCommand(showCmd, setCmd)
	return configCmd
}

// updateConfig rewrites the config file. Environment and flag overrides are
// not persisted.
func updateConfig(ctx *commandContext, apply func(*cliConfig)) error {
	path, err := ctx.configPath()
	if err != nil {
		return err
	}

	cfg, err := readConfigFile(path)
	if err != nil {
		return err
	}
	apply(cfg)
	return saveConfig(path, cfg)
}
