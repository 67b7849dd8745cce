package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"qmtg/internal/tappedout"
)

func newInventoryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv", "inven"},
		Short:   "Manage card inventories",
	}
	cmd.AddCommand(newInventoryCreateCommand(ctx))
	cmd.AddCommand(newInventoryListCommand(ctx))
	cmd.AddCommand(newInventoryShowCommand(ctx))
	cmd.AddCommand(newInventoryEditCommand(ctx))
	cmd.AddCommand(newInventoryDeleteCommand(ctx))
	cmd.AddCommand(newInventoryAddCommand(ctx))
	return cmd
}

func newInventoryCreateCommand(ctx *commandContext) *cobra.Command {
	var name string
	var id string

	cmd := &cobra.Command{
		Use:   "create OUTPUT_DIR",
		Short: "Create a new inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			inv, err := env.CreateInventory(name, id, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created inventory %q in %s\n", inv.ID, inv.Path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name for the inventory")
	cmd.Flags().StringVar(&id, "id", "", "Identifier for the inventory (defaults to the name)")
	return cmd
}

func newInventoryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all inventories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			rows, err := env.ListInventories()
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(No inventories have been created yet)")
				return nil
			}
			tableRows := make([][]string, len(rows))
			for i, r := range rows {
				tableRows[i] = []string{r.ID, r.Name, strconv.Itoa(r.Cards), r.Path}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Cards", "Path"},
				tableRows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newInventoryShowCommand(ctx *commandContext) *cobra.Command {
	var showCards bool
	var boardFormat bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show details of one inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			inv, err := env.ShowInventory(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Inventory ID: %s\n", inv.ID)
			fmt.Fprintf(out, "Name:         %s\n", inv.Name)
			fmt.Fprintf(out, "Location:     %s\n", inv.Path)
			if !showCards {
				fmt.Fprintf(out, "Cards:        %d\n", inv.Count())
				return nil
			}
			fmt.Fprintln(out, "Cards:")
			for _, c := range inv.SortedCards() {
				if boardFormat {
					fmt.Fprintln(out, tappedout.ToListLine(c))
				} else {
					fmt.Fprintf(out, "%dx %s (%s:%s) [%s]\n", c.Count, c.Name(), c.Set, c.Number, c.Condition)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showCards, "cards", false, "List every card in the inventory")
	cmd.Flags().BoolVar(&boardFormat, "board", false, "Print cards in tappedout board format")
	return cmd
}

func newInventoryEditCommand(ctx *commandContext) *cobra.Command {
	var newID string
	var newName string
	var newPath string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Rename or relocate an inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			inv, err := env.EditInventory(args[0], newID, newName, newPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated inventory %q\n", inv.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&newID, "id", "", "New identifier")
	cmd.Flags().StringVar(&newName, "name", "", "New display name")
	cmd.Flags().StringVar(&newPath, "path", "", "New directory location")
	return cmd
}

func newInventoryDeleteCommand(ctx *commandContext) *cobra.Command {
	var deleteBuilt bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Remove an inventory from qmtg's records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			return env.DeleteInventory(args[0], deleteBuilt)
		},
	}
	cmd.Flags().BoolVar(&deleteBuilt, "delete-dir", false, "Also delete the inventory directory on disk")
	return cmd
}

func newInventoryAddCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add ID LIST_FILE [LIST_FILE...]",
		Aliases: []string{"addcards"},
		Short:   "Add cards from tappedout board lists to an inventory",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			result, err := env.AddCards(cmd.Context(), args[0], args[1:]...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %d cards to inventory %q\n", result.Added, args[0])
			for _, le := range result.Skipped {
				fmt.Fprintf(out, "Skipped line %d: %v\n", le.Line, le.Err)
			}
			return nil
		},
	}
	return cmd
}
