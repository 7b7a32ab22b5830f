package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/alexanderramin/taskline/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectAddCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Queries.Projects(context.Background(), app.BackendID)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatProjectList(projects))
			fmt.Println()
			return nil
		},
	}
}

func newProjectAddCmd(app *App) *cobra.Command {
	var color, parent string
	var favorite bool

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a project on the remote service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			in := service.CreateProjectInput{
				BackendID: app.BackendID,
				Name:      args[0],
			}
			if color != "" {
				in.Color = &color
			}
			if cmd.Flags().Changed("favorite") {
				in.IsFavorite = &favorite
			}
			if parent != "" {
				parentID, err := resolveProjectID(ctx, app, parent)
				if err != nil {
					return err
				}
				in.ParentID = &parentID
			}

			p, err := app.Mutations.CreateProject(ctx, in)
			if err != nil {
				return err
			}
			fmt.Printf("Created project %s\n", formatter.Bold(p.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Project color")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent project (name or ID)")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Mark as favorite")

	return cmd
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, color string
	var favorite bool

	cmd := &cobra.Command{
		Use:   "update PROJECT",
		Short: "Update a project on the remote service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var in service.UpdateProjectInput
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("color") {
				in.Color = &color
			}
			if cmd.Flags().Changed("favorite") {
				in.IsFavorite = &favorite
			}

			p, err := app.Mutations.UpdateProject(ctx, id, in)
			if err != nil {
				return err
			}
			fmt.Printf("Updated project %s\n", formatter.Bold(p.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New color")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Mark as favorite")

	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm PROJECT",
		Short: "Delete a project, its sections and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Mutations.DeleteProject(ctx, id); err != nil {
				return err
			}
			fmt.Println("Deleted project")
			return nil
		},
	}
}
