package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search cached tasks by content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			query := strings.Join(args, " ")

			tasks, err := app.Queries.Search(ctx, app.BackendID, query)
			if err != nil {
				return err
			}
			names, err := projectNameIndex(ctx, app)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatTaskList(fmt.Sprintf("Search: %s", query), tasks, names))
			fmt.Println()
			return nil
		},
	}
}

func newTodayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "List tasks due today (overdue first)",
		RunE: runView(app, "Today", func(ctx context.Context) ([]*domain.Task, error) {
			return app.Queries.Today(ctx, app.BackendID)
		}),
	}
}

func newTomorrowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tomorrow",
		Short: "List tasks due tomorrow",
		RunE: runView(app, "Tomorrow", func(ctx context.Context) ([]*domain.Task, error) {
			return app.Queries.Tomorrow(ctx, app.BackendID)
		}),
	}
}

func newUpcomingCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upcoming",
		Short: "List tasks due in the next three months",
		RunE: runView(app, "Upcoming", func(ctx context.Context) ([]*domain.Task, error) {
			return app.Queries.Upcoming(ctx, app.BackendID)
		}),
	}
}

func runView(app *App, title string, fetch func(ctx context.Context) ([]*domain.Task, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		tasks, err := fetch(ctx)
		if err != nil {
			return err
		}
		names, err := projectNameIndex(ctx, app)
		if err != nil {
			return err
		}
		fmt.Print(formatter.FormatTaskList(title, tasks, names))
		fmt.Println()
		return nil
	}
}
