package main

import "github.com/spf13/cobra"

func newRootCommand() *cobra.Command {
	var configFlag string
	var serverFlag string
	var tokenFlag string
	var jsonFlag bool

	ctx := newCommandContext(&configFlag, &serverFlag, &tokenFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "tledctl",
		Short:         "Control an LED fixture through the tled daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Client configuration file (default ~/.config/tled/cli.yaml)")
	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "Daemon URL (overrides config and "+envServer+")")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "Bearer token (overrides config and "+envToken+")")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print raw JSON")

	for _, cmd := range newDeviceCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(newAudioCommand(ctx))
	rootCmd.AddCommand(newEffectsCommand(ctx))
	rootCmd.AddCommand(newEventsCommand(ctx))
	rootCmd.AddCommand(newDiscoverCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
