package domain

import "time"

// Backend is a registered remote service instance. Credentials are not
// stored locally; TokenEnv names the environment variable holding the
// API token.
type Backend struct {
	ID            string
	Type          BackendType
	Name          string
	TokenEnv      string
	Enabled       bool
	LastSyncAt    *time.Time
	LastSyncError *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Project is a locally cached project. ID is a locally opaque identifier;
// RemoteID is the backend's identifier and is unique per backend.
type Project struct {
	ID         string
	BackendID  string
	RemoteID   string
	Name       string
	Color      string
	IsFavorite bool
	IsInbox    bool
	OrderIndex int
	ParentID   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Section groups tasks within a project.
type Section struct {
	ID         string
	BackendID  string
	RemoteID   string
	Name       string
	ProjectID  string
	OrderIndex int
}

// Task is a locally cached task. SectionID, when set, must reference a
// section belonging to ProjectID. Labels holds label names, resolved to
// label rows through the task_labels association table.
type Task struct {
	ID          string
	BackendID   string
	RemoteID    string
	Content     string
	Description string
	ProjectID   string
	SectionID   *string
	ParentID    *string
	Priority    Priority
	OrderIndex  int
	DueDate     *string // YYYY-MM-DD
	DueDatetime *string // RFC 3339
	IsRecurring bool
	IsCompleted bool
	Labels      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Label is a locally cached label.
type Label struct {
	ID         string
	BackendID  string
	RemoteID   string
	Name       string
	Color      string
	OrderIndex int
	IsFavorite bool
}
