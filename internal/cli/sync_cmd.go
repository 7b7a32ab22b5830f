package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/taskline/internal/cli/formatter"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a full sync cycle against the remote service",
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome := app.Sync.Sync(context.Background(), app.BackendID)

			switch outcome.State {
			case domain.SyncSucceeded:
				fmt.Printf("%s  %d projects, %d sections, %d tasks, %d labels\n",
					formatter.SyncStateIndicator(outcome.State),
					outcome.Projects, outcome.Sections, outcome.Tasks, outcome.Labels)
				return nil
			case domain.SyncInFlight:
				fmt.Println(formatter.Dim(outcome.Message))
				return nil
			default:
				return fmt.Errorf("sync failed: %s", outcome.Message)
			}
		},
	}

	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show sync state and per-backend status",
		RunE: func(cmd *cobra.Command, args []string) error {
			backends, err := app.Queries.Backends(context.Background())
			if err != nil {
				return err
			}
			state, msg := app.Sync.Status()

			fmt.Print(formatter.FormatSyncStatus(formatter.SyncStatusData{
				Backends: backends,
				State:    state,
				Message:  msg,
				Stale:    app.Sync.IsStale(),
			}))
			fmt.Println()
			return nil
		},
	}

	return cmd
}
