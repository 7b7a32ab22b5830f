// Package backend defines the adapter contract between the sync core and
// remote task-management services. Implementations translate backend-specific
// wire shapes (field names, date encodings, priority scales) into the common
// Remote* entities; they perform no caching and hold no application state
// beyond their transport credentials.
package backend

import "context"

// RemoteProject is the backend-agnostic project shape.
type RemoteProject struct {
	RemoteID       string
	Name           string
	Color          string
	IsFavorite     bool
	IsInbox        bool
	OrderIndex     int
	ParentRemoteID *string
}

// RemoteSection is the backend-agnostic section shape.
type RemoteSection struct {
	RemoteID        string
	Name            string
	ProjectRemoteID string
	OrderIndex      int
}

// RemoteTask is the backend-agnostic task shape. Labels holds label names.
type RemoteTask struct {
	RemoteID        string
	Content         string
	Description     string
	ProjectRemoteID string
	SectionRemoteID *string
	ParentRemoteID  *string
	Priority        int // normalized: 1 lowest .. 4 highest
	OrderIndex      int
	DueDate         *string // YYYY-MM-DD
	DueDatetime     *string // RFC 3339
	IsRecurring     bool
	IsCompleted     bool
	Labels          []string
}

// RemoteLabel is the backend-agnostic label shape.
type RemoteLabel struct {
	RemoteID   string
	Name       string
	Color      string
	OrderIndex int
	IsFavorite bool
}

// CreateProjectArgs holds caller input for a new project.
type CreateProjectArgs struct {
	Name           string
	Color          *string
	IsFavorite     *bool
	ParentRemoteID *string
}

// UpdateProjectArgs holds partial updates; nil fields are left unchanged.
type UpdateProjectArgs struct {
	Name       *string
	Color      *string
	IsFavorite *bool
}

// CreateSectionArgs holds caller input for a new section.
type CreateSectionArgs struct {
	Name            string
	ProjectRemoteID string
	OrderIndex      *int
}

// CreateTaskArgs holds caller input for a new task.
type CreateTaskArgs struct {
	Content         string
	Description     *string
	ProjectRemoteID string
	SectionRemoteID *string
	ParentRemoteID  *string
	Priority        *int
	DueDate         *string
	DueDatetime     *string
	Labels          []string
}

// UpdateTaskArgs holds partial updates; nil fields are left unchanged.
type UpdateTaskArgs struct {
	Content     *string
	Description *string
	Priority    *int
	DueDate     *string
	DueDatetime *string
	Labels      []string // nil means unchanged
}

// CreateLabelArgs holds caller input for a new label.
type CreateLabelArgs struct {
	Name       string
	Color      *string
	IsFavorite *bool
}

// UpdateLabelArgs holds partial updates; nil fields are left unchanged.
type UpdateLabelArgs struct {
	Name       *string
	Color      *string
	IsFavorite *bool
}

// Backend is the capability interface every remote service adapter
// implements. The orchestrator and mutation router dispatch through it and
// never branch on backend type.
type Backend interface {
	// Type returns the backend type identifier, e.g. "todoist".
	Type() string

	FetchProjects(ctx context.Context) ([]RemoteProject, error)
	FetchSections(ctx context.Context) ([]RemoteSection, error)
	FetchTasks(ctx context.Context) ([]RemoteTask, error)
	FetchLabels(ctx context.Context) ([]RemoteLabel, error)

	CreateProject(ctx context.Context, args CreateProjectArgs) (*RemoteProject, error)
	UpdateProject(ctx context.Context, remoteID string, args UpdateProjectArgs) (*RemoteProject, error)
	DeleteProject(ctx context.Context, remoteID string) error

	CreateSection(ctx context.Context, args CreateSectionArgs) (*RemoteSection, error)
	DeleteSection(ctx context.Context, remoteID string) error

	CreateTask(ctx context.Context, args CreateTaskArgs) (*RemoteTask, error)
	UpdateTask(ctx context.Context, remoteID string, args UpdateTaskArgs) (*RemoteTask, error)
	DeleteTask(ctx context.Context, remoteID string) error
	CompleteTask(ctx context.Context, remoteID string) error

	CreateLabel(ctx context.Context, args CreateLabelArgs) (*RemoteLabel, error)
	UpdateLabel(ctx context.Context, remoteID string, args UpdateLabelArgs) (*RemoteLabel, error)
	DeleteLabel(ctx context.Context, remoteID string) error
}
