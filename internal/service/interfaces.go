package service

import (
	"context"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/repository"
)

// SyncOutcome reports the result of one sync cycle.
type SyncOutcome struct {
	State    domain.SyncState
	Message  string
	Labels   int
	Projects int
	Sections int
	Tasks    int
}

// SyncService orchestrates full-refresh cycles against one registered
// backend at a time. At most one cycle is ever in flight.
type SyncService interface {
	// Sync runs a full cycle for the backend. If a cycle is already in
	// flight the request is dropped and the returned outcome reports
	// the syncing state without any remote call being made.
	Sync(ctx context.Context, backendID string) SyncOutcome

	// SyncInBackground starts a cycle without blocking the caller.
	SyncInBackground(backendID string)

	IsSyncing() bool
	Status() (domain.SyncState, string)
	LastSyncAt() time.Time

	// IsStale reports whether the cache is older than the staleness
	// threshold; callers serving a view from cache use it to decide
	// whether to kick off a background refresh.
	IsStale() bool

	// StartAutoSync runs periodic cycles until the context is canceled.
	// A non-positive interval disables the timer.
	StartAutoSync(ctx context.Context, backendID string, interval time.Duration)
}

// Mutation inputs. Nil pointer fields mean "leave unchanged" on updates and
// "use the backend default" on creates.

type CreateProjectInput struct {
	BackendID  string
	Name       string
	Color      *string
	IsFavorite *bool
	ParentID   *string // local project ID
}

type UpdateProjectInput struct {
	Name       *string
	Color      *string
	IsFavorite *bool
}

type CreateSectionInput struct {
	ProjectID string // local project ID
	Name      string
}

type CreateTaskInput struct {
	ProjectID   string  // local project ID
	SectionID   *string // local section ID
	ParentID    *string // local task ID
	Content     string
	Description *string
	Priority    *int
	DueDate     *string
	DueDatetime *string
	Labels      []string
}

type UpdateTaskInput struct {
	Content     *string
	Description *string
	Priority    *int
	DueDate     *string
	DueDatetime *string
	Labels      []string
}

type CreateLabelInput struct {
	BackendID  string
	Name       string
	Color      *string
	IsFavorite *bool
}

type UpdateLabelInput struct {
	Name       *string
	Color      *string
	IsFavorite *bool
}

// MutationService routes every write remote-first: the remote call happens
// before any local change, and a remote failure leaves the cache untouched.
type MutationService interface {
	CreateProject(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, in UpdateProjectInput) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error

	CreateSection(ctx context.Context, in CreateSectionInput) (*domain.Section, error)
	DeleteSection(ctx context.Context, id string) error

	CreateTask(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, in UpdateTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	CompleteTask(ctx context.Context, id string) error

	CreateLabel(ctx context.Context, in CreateLabelInput) (*domain.Label, error)
	UpdateLabel(ctx context.Context, id string, in UpdateLabelInput) (*domain.Label, error)
	DeleteLabel(ctx context.Context, id string) error
}

// QueryService is the read surface. Every method answers from the local
// cache only; it never reaches the remote service.
type QueryService interface {
	Backends(ctx context.Context) ([]*domain.Backend, error)
	Projects(ctx context.Context, backendID string) ([]*domain.Project, error)
	Sections(ctx context.Context, projectID string) ([]*domain.Section, error)
	Labels(ctx context.Context, backendID string) ([]*domain.Label, error)
	Tasks(ctx context.Context, backendID string, filter repository.TaskFilter) ([]*domain.Task, error)

	// Today lists pending tasks due today or overdue, overdue first.
	Today(ctx context.Context, backendID string) ([]*domain.Task, error)
	// Tomorrow lists pending tasks due tomorrow.
	Tomorrow(ctx context.Context, backendID string) ([]*domain.Task, error)
	// Upcoming lists pending tasks due within the next three months.
	Upcoming(ctx context.Context, backendID string) ([]*domain.Task, error)

	Search(ctx context.Context, backendID, query string) ([]*domain.Task, error)
}
