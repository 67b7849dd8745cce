package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"qmtg/internal/tappedout"
)

func newBinderCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "binder",
		Short: "Build and manage HTML binder views",
	}
	cmd.AddCommand(newBinderCreateCommand(ctx))
	cmd.AddCommand(newBinderListCommand(ctx))
	cmd.AddCommand(newBinderShowCommand(ctx))
	cmd.AddCommand(newBinderEditCommand(ctx))
	cmd.AddCommand(newBinderDeleteCommand(ctx))
	return cmd
}

func newBinderCreateCommand(ctx *commandContext) *cobra.Command {
	var name string
	var id string

	cmd := &cobra.Command{
		Use:   "create SOURCE OUTPUT_DIR",
		Short: "Build a binder view from an inventory or a card list",
		Long: "Build a browsable HTML binder view at OUTPUT_DIR. SOURCE is either " +
			"the ID of an existing inventory or the path to a tappedout board list file.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			b, err := env.CreateBinder(cmd.Context(), args[0], args[1], name, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Binder view %q is ready at %s/index.html\n", b.ID, b.Path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name for the binder")
	cmd.Flags().StringVar(&id, "id", "", "Identifier for the binder (defaults to the name)")
	return cmd
}

func newBinderListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all binder views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			rows, err := env.ListBinders()
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(No binder views have been created yet)")
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

func newBinderShowCommand(ctx *commandContext) *cobra.Command {
	var showCards bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show details of one binder view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			b, err := env.ShowBinder(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Binder ID: %s\n", b.ID)
			fmt.Fprintf(out, "Name:      %s\n", b.Name)
			fmt.Fprintf(out, "Location:  %s\n", b.Path)
			if !showCards {
				fmt.Fprintf(out, "Cards:     %d\n", len(b.Cards))
				return nil
			}
			fmt.Fprintln(out, "Cards:")
			for _, c := range b.Cards {
				fmt.Fprintln(out, "* "+tappedout.ToListLine(c))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showCards, "cards", false, "List every card in the binder")
	return cmd
}

func newBinderEditCommand(ctx *commandContext) *cobra.Command {
	var newID string
	var newName string
	var newPath string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Rename or relocate a binder view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			b, err := env.EditBinder(args[0], newID, newName, newPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated binder %q\n", b.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&newID, "id", "", "New identifier")
	cmd.Flags().StringVar(&newName, "name", "", "New display name")
	cmd.Flags().StringVar(&newPath, "path", "", "New directory location")
	return cmd
}

func newBinderDeleteCommand(ctx *commandContext) *cobra.Command {
	var deleteBuilt bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a binder view from qmtg's records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := ctx.ensureEnv()
			if err != nil {
				return err
			}
			return env.DeleteBinder(args[0], deleteBuilt)
		},
	}
	cmd.Flags().BoolVar(&deleteBuilt, "delete-dir", false, "Also delete the generated view directory")
	return cmd
}
