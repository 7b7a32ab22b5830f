package cli

import (
	"github.com/alexanderramin/taskline/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Sync      service.SyncService
	Mutations service.MutationService
	Queries   service.QueryService

	// BackendID selects the backend commands operate against.
	BackendID string

	// IsInteractive reports whether stdin is attached to a terminal.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "taskline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskline",
		Short: "Terminal client for remote task services, backed by a local cache",
	}

	root.AddCommand(
		newSyncCmd(app),
		newStatusCmd(app),
		newProjectCmd(app),
		newSectionCmd(app),
		newTaskCmd(app),
		newLabelCmd(app),
		newSearchCmd(app),
		newTodayCmd(app),
		newTomorrowCmd(app),
		newUpcomingCmd(app),
	)

	return root
}
