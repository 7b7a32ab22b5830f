package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/alexanderramin/taskline/internal/service"
	"github.com/spf13/cobra"
)

func newLabelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage labels",
	}

	cmd.AddCommand(
		newLabelListCmd(app),
		newLabelAddCmd(app),
		newLabelUpdateCmd(app),
		newLabelRemoveCmd(app),
	)

	return cmd
}

func newLabelListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			labels, err := app.Queries.Labels(context.Background(), app.BackendID)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatLabelList(labels))
			fmt.Println()
			return nil
		},
	}
}

func newLabelAddCmd(app *App) *cobra.Command {
	var color string
	var favorite bool

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a label on the remote service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := service.CreateLabelInput{
				BackendID: app.BackendID,
				Name:      args[0],
			}
			if color != "" {
				in.Color = &color
			}
			if cmd.Flags().Changed("favorite") {
				in.IsFavorite = &favorite
			}

			l, err := app.Mutations.CreateLabel(context.Background(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Created label @%s\n", formatter.Bold(l.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Label color")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Mark as favorite")

	return cmd
}

func newLabelUpdateCmd(app *App) *cobra.Command {
	var name, color string
	var favorite bool

	cmd := &cobra.Command{
		Use:   "update LABEL",
		Short: "Update a label on the remote service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLabelID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var in service.UpdateLabelInput
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("color") {
				in.Color = &color
			}
			if cmd.Flags().Changed("favorite") {
				in.IsFavorite = &favorite
			}

			l, err := app.Mutations.UpdateLabel(ctx, id, in)
			if err != nil {
				return err
			}
			fmt.Printf("Updated label @%s\n", formatter.Bold(l.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New color")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Mark as favorite")

	return cmd
}

func newLabelRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm LABEL",
		Short: "Delete a label and detach it from tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveLabelID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Mutations.DeleteLabel(ctx, id); err != nil {
				return err
			}
			fmt.Println("Deleted label")
			return nil
		},
	}
}
