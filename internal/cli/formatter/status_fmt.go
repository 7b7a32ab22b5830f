package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
)

// SyncStatusData holds everything needed to render the sync status view.
type SyncStatusData struct {
	Backends []*domain.Backend
	State    domain.SyncState
	Message  string
	Stale    bool
}

// FormatSyncStatus renders the per-backend sync status card.
func FormatSyncStatus(data SyncStatusData) string {
	var b strings.Builder

	b.WriteString(SyncStateIndicator(data.State))
	if data.Stale && data.State != domain.SyncInFlight {
		b.WriteString("  " + StyleYellow.Render("stale"))
	}
	b.WriteString("\n")
	if data.Message != "" {
		b.WriteString(StyleRed.Render(data.Message))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	headers := []string{"BACKEND", "TYPE", "LAST SYNC", "ERROR"}
	rows := make([][]string, 0, len(data.Backends))
	for _, be := range data.Backends {
		last := Dim("never")
		if be.LastSyncAt != nil {
			last = StyleFg.Render(RelativeDateFrom(*be.LastSyncAt, time.Now()))
		}
		errStr := Dim("--")
		if be.LastSyncError != nil && *be.LastSyncError != "" {
			errStr = StyleRed.Render(*be.LastSyncError)
		}
		rows = append(rows, []string{
			Bold(be.Name),
			Dim(string(be.Type)),
			last,
			errStr,
		})
	}
	b.WriteString(RenderTable(headers, rows))

	return RenderBox("Sync Status", b.String())
}
