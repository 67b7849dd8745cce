package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var homeFlag string

	ctx := newCommandContext(&configFlag, &homeFlag)

	rootCmd := &cobra.Command{
		Use:           "qmtg",
		Short:         "Organize Magic: The Gathering card collections",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "Override the qmtg home directory")

	rootCmd.AddCommand(newInventoryCommand(ctx))
	rootCmd.AddCommand(newBinderCommand(ctx))
	rootCmd.AddCommand(newCardCommand(ctx))
	rootCmd.AddCommand(newSetCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
