package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/alexanderramin/taskline/internal/service"
	"github.com/spf13/cobra"
)

func newSectionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Manage sections within a project",
	}

	cmd.AddCommand(
		newSectionListCmd(app),
		newSectionAddCmd(app),
		newSectionRemoveCmd(app),
	)

	return cmd
}

func newSectionListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			sections, err := app.Queries.Sections(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatSectionList(project, sections))
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project (name or ID)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newSectionAddCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a section on the remote service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			sec, err := app.Mutations.CreateSection(ctx, service.CreateSectionInput{
				ProjectID: projectID,
				Name:      args[0],
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created section %s\n", formatter.Bold(sec.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project (name or ID)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newSectionRemoveCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "rm SECTION",
		Short: "Delete a section and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			id, err := resolveSectionID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			if err := app.Mutations.DeleteSection(ctx, id); err != nil {
				return err
			}
			fmt.Println("Deleted section")
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project (name or ID)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
