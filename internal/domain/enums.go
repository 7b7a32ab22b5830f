package domain

type BackendType string

const (
	BackendTodoist BackendType = "todoist"
)

// ValidBackendTypes is the canonical set of accepted backend type strings.
var ValidBackendTypes = map[string]bool{
	"todoist": true,
}

// Priority is the normalized task priority: 1 (lowest) through 4 (highest).
// Adapters translate backend-specific scales into this one.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
	PriorityUrgent Priority = 4
)

// Clamp forces p into the valid 1-4 range.
func (p Priority) Clamp() Priority {
	if p < PriorityLow {
		return PriorityLow
	}
	if p > PriorityUrgent {
		return PriorityUrgent
	}
	return p
}

// SyncState is the orchestrator's cycle state.
type SyncState string

const (
	SyncIdle      SyncState = "idle"
	SyncInFlight  SyncState = "syncing"
	SyncSucceeded SyncState = "success"
	SyncFailed    SyncState = "failed"
)
