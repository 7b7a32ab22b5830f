package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/alexanderramin/taskline/internal/repository"
	"github.com/alexanderramin/taskline/internal/service"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskAddCmd(app),
		newTaskUpdateCmd(app),
		newTaskDoneCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

// storedPriority converts the user-facing scale (1 most urgent) into the
// stored one (4 highest).
func storedPriority(p int) (int, error) {
	if p < 1 || p > 4 {
		return 0, fmt.Errorf("priority must be 1-4, got %d", p)
	}
	return 5 - p, nil
}

func newTaskListCmd(app *App) *cobra.Command {
	var project, section, label string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			filter := repository.TaskFilter{PendingOnly: !all}

			if project != "" {
				projectID, err := resolveProjectID(ctx, app, project)
				if err != nil {
					return err
				}
				filter.ProjectID = projectID
				if section != "" {
					sectionID, err := resolveSectionID(ctx, app, projectID, section)
					if err != nil {
						return err
					}
					filter.SectionID = sectionID
				}
			} else if section != "" {
				return fmt.Errorf("--section requires --project")
			}
			filter.LabelName = label

			tasks, err := app.Queries.Tasks(ctx, app.BackendID, filter)
			if err != nil {
				return err
			}
			names, err := projectNameIndex(ctx, app)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatTaskList("Tasks", tasks, names))
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Filter by project (name or ID)")
	cmd.Flags().StringVar(&section, "section", "", "Filter by section (name or ID, requires --project)")
	cmd.Flags().StringVar(&label, "label", "", "Filter by label name")
	cmd.Flags().BoolVar(&all, "all", false, "Include completed tasks")

	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show TASK",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Queries.Tasks(ctx, app.BackendID, repository.TaskFilter{})
			if err != nil {
				return err
			}
			names, err := projectNameIndex(ctx, app)
			if err != nil {
				return err
			}
			for _, t := range tasks {
				if t.ID == id {
					fmt.Print(formatter.FormatTask(t, names[t.ProjectID]))
					fmt.Println()
					return nil
				}
			}
			return fmt.Errorf("task not found: %q", args[0])
		},
	}
}

func newTaskAddCmd(app *App) *cobra.Command {
	var project, section, parent, description, due string
	var priority int
	var labels []string

	cmd := &cobra.Command{
		Use:   "add CONTENT",
		Short: "Create a task on the remote service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			in := service.CreateTaskInput{
				ProjectID: projectID,
				Content:   args[0],
				Labels:    labels,
			}
			if description != "" {
				in.Description = &description
			}
			if section != "" {
				sectionID, err := resolveSectionID(ctx, app, projectID, section)
				if err != nil {
					return err
				}
				in.SectionID = &sectionID
			}
			if parent != "" {
				parentID, err := resolveTaskID(ctx, app, parent)
				if err != nil {
					return err
				}
				in.ParentID = &parentID
			}
			if cmd.Flags().Changed("priority") {
				p, err := storedPriority(priority)
				if err != nil {
					return err
				}
				in.Priority = &p
			}
			in.DueDate, in.DueDatetime, err = parseDuePhrase(due, time.Now())
			if err != nil {
				return err
			}

			t, err := app.Mutations.CreateTask(ctx, in)
			if err != nil {
				return err
			}
			fmt.Printf("Created task %s\n", formatter.Bold(t.Content))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project (name or ID)")
	cmd.Flags().StringVar(&section, "section", "", "Section (name or ID)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task ID")
	cmd.Flags().StringVar(&description, "desc", "", "Description")
	cmd.Flags().IntVar(&priority, "priority", 4, "Priority 1-4 (1 is most urgent)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or a phrase like \"tomorrow 5pm\")")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "Label names (repeatable)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var content, description, due string
	var priority int
	var labels []string

	cmd := &cobra.Command{
		Use:   "update TASK",
		Short: "Update a task on the remote service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var in service.UpdateTaskInput
			if cmd.Flags().Changed("content") {
				in.Content = &content
			}
			if cmd.Flags().Changed("desc") {
				in.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				p, err := storedPriority(priority)
				if err != nil {
					return err
				}
				in.Priority = &p
			}
			if cmd.Flags().Changed("due") {
				in.DueDate, in.DueDatetime, err = parseDuePhrase(due, time.Now())
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("label") {
				in.Labels = labels
			}

			t, err := app.Mutations.UpdateTask(ctx, id, in)
			if err != nil {
				return err
			}
			fmt.Printf("Updated task %s\n", formatter.Bold(t.Content))
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringVar(&description, "desc", "", "New description")
	cmd.Flags().IntVar(&priority, "priority", 4, "Priority 1-4 (1 is most urgent)")
	cmd.Flags().StringVar(&due, "due", "", "New due date or phrase")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "Replacement label set (repeatable)")

	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done TASK",
		Short: "Complete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Mutations.CompleteTask(ctx, id); err != nil {
				return err
			}
			fmt.Println("Completed task")
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm TASK",
		Short: "Delete a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Mutations.DeleteTask(ctx, id); err != nil {
				return err
			}
			fmt.Println("Deleted task")
			return nil
		},
	}
}
