package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"qmtg/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Home:            %s\n", cfg.Home)
			fmt.Fprintf(out, "Object store:    %s\n", cfg.StoreFile())
			fmt.Fprintf(out, "Request cache:   %s\n", cfg.CacheFile())
			fmt.Fprintf(out, "Image files:     %s\n", cfg.FileStoreDir())
			fmt.Fprintf(out, "Scryfall host:   %s\n", cfg.Scryfall.Host)
			fmt.Fprintf(out, "Rate limit:      %s\n", cfg.RateLimit())
			fmt.Fprintf(out, "Catalog TTL:     %s\n", cfg.CatalogTTL())
			fmt.Fprintf(out, "Log level:       %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "Log format:      %s\n", cfg.Logging.Format)
			return nil
		},
	}
}
