package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"qmtg/internal/card"
	"qmtg/internal/color"
	"qmtg/internal/lang"
	"qmtg/internal/mtgset"
	"qmtg/internal/scryfall"
)

func newCardCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Look up card data on Scryfall",
	}
	cmd.AddCommand(newCardSearchCommand(ctx))
	cmd.AddCommand(newCardShowCommand(ctx))
	cmd.AddCommand(newCardImageCommand(ctx))
	cmd.AddCommand(newCardCatalogCommand(ctx))
	return cmd
}

func newCardSearchCommand(ctx *commandContext) *cobra.Command {
	var fuzzy bool
	var setCode string

	cmd := &cobra.Command{
		Use:   "search NAME [NAME...]",
		Short: "Look up cards by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			results, err := env.SearchCards(cmd.Context(), fuzzy, setCode, args...)
			if err != nil {
				return err
			}
			rows := make([][]string, len(results))
			for i, c := range results {
				rows[i] = []string{
					c.Name(),
					strings.ToUpper(c.Set),
					c.Number,
					c.Rarity,
					c.Cost(),
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Set", "Number", "Rarity", "Cost"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "Accept approximate name matches")
	cmd.Flags().StringVarP(&setCode, "set", "s", "", "Limit the lookup to one set")
	return cmd
}

func newCardShowCommand(ctx *commandContext) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "show SET NUMBER",
		Short: "Show the full record of one printing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			c, err := env.ShowCard(cmd.Context(), args[0], args[1], language)
			if err != nil {
				return err
			}
			printCard(cmd, c)
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "lang", "l", "", "Printed language of the card")
	return cmd
}

func printCard(cmd *cobra.Command, c card.Card) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", c.Name())
	fmt.Fprintf(out, "  Set:      %s #%s (%s)\n", strings.ToUpper(c.Set), c.Number, c.Rarity)
	fmt.Fprintf(out, "  Language: %s\n", lang.Display(c.Language))
	if cost := c.Cost(); strings.Trim(cost, " /") != "" {
		fmt.Fprintf(out, "  Cost:     %s (cmc %d)\n", cost, color.CostCMC(cost))
	}
	if colors := c.Color(); len(colors) > 0 {
		names := make([]string, len(colors))
		for i, col := range colors {
			names[i] = col.Name
		}
		fmt.Fprintf(out, "  Colors:   %s\n", strings.Join(names, ", "))
	}
	for _, f := range c.Faces {
		fmt.Fprintf(out, "  --- %s\n", f.Name)
		fmt.Fprintf(out, "  %s\n", f.Type)
		if f.Text != "" {
			fmt.Fprintf(out, "  %s\n", f.Text)
		}
		if f.Power != "" || f.Toughness != "" {
			fmt.Fprintf(out, "  %s/%s\n", f.Power, f.Toughness)
		}
	}
}

func newCardImageCommand(ctx *commandContext) *cobra.Command {
	var language string
	var sizeName string
	var back bool

	cmd := &cobra.Command{
		Use:   "image SET NUMBER",
		Short: "Download a card image into the local cache",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			size, err := env.FetchCardImage(cmd.Context(), args[0], args[1], language, sizeName, back)
			if err != nil {
				return err
			}
			cfg, _ := ctx.ensureConfig()
			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d bytes; image cached under %s\n", size, cfg.FileStoreDir())
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "lang", "l", "", "Printed language of the card")
	cmd.Flags().StringVar(&sizeName, "size", "full", "Image size: small, normal, large, or full")
	cmd.Flags().BoolVar(&back, "back", false, "Fetch the back face")
	return cmd
}

func newCardCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "catalog TYPE",
		Short:     "Fetch one of Scryfall's static catalogs",
		Args:      cobra.ExactArgs(1),
		ValidArgs: catalogNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			entries, err := env.Catalog(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, entry := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), entry)
			}
			return nil
		},
	}
	return cmd
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set CODE",
		Short: "Show details of a card set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			s, err := env.ShowSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", s.Name, strings.ToUpper(s.Code))
			fmt.Fprintf(out, "  Type:     %s\n", s.Type)
			fmt.Fprintf(out, "  Released: %s\n", s.ReleaseDate.Format("2006-01-02"))
			fmt.Fprintf(out, "  Cards:    %d\n", s.CardCount)
			if s.Block != "" {
				fmt.Fprintf(out, "  Block:    %s\n", s.Block)
			}
			if desc := mtgset.Describe(s.Type); desc != "" {
				fmt.Fprintf(out, "  About:    %s\n", desc)
			}
			return nil
		},
	}
}

func catalogNames() []string {
	return append([]string(nil), scryfall.CatalogNames...)
}
