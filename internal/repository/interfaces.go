package repository

import (
	"context"

	"github.com/alexanderramin/taskline/internal/domain"
)

// TaskFilter narrows task listings. Zero value means no filtering.
type TaskFilter struct {
	ProjectID   string
	SectionID   string
	LabelName   string
	PendingOnly bool
}

type BackendRepo interface {
	Upsert(ctx context.Context, b *domain.Backend) error
	GetByID(ctx context.Context, id string) (*domain.Backend, error)
	List(ctx context.Context) ([]*domain.Backend, error)
	UpdateSyncStatus(ctx context.Context, id string, syncedAt *string, syncErr *string) error
}

type ProjectRepo interface {
	List(ctx context.Context, backendID string) ([]*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByRemoteID(ctx context.Context, backendID, remoteID string) (*domain.Project, error)
	ReplaceAll(ctx context.Context, backendID string, projects []*domain.Project) error
	Upsert(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type SectionRepo interface {
	List(ctx context.Context, backendID string) ([]*domain.Section, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Section, error)
	GetByID(ctx context.Context, id string) (*domain.Section, error)
	GetByRemoteID(ctx context.Context, backendID, remoteID string) (*domain.Section, error)
	ReplaceAll(ctx context.Context, backendID string, sections []*domain.Section) error
	Upsert(ctx context.Context, s *domain.Section) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	List(ctx context.Context, backendID string, filter TaskFilter) ([]*domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	GetByRemoteID(ctx context.Context, backendID, remoteID string) (*domain.Task, error)
	ReplaceAll(ctx context.Context, backendID string, tasks []*domain.Task) error
	Upsert(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, backendID, query string) ([]*domain.Task, error)
	ListDueBy(ctx context.Context, backendID, date string) ([]*domain.Task, error)
	ListDueOn(ctx context.Context, backendID, date string) ([]*domain.Task, error)
	ListDueBetween(ctx context.Context, backendID, from, to string) ([]*domain.Task, error)
}

type LabelRepo interface {
	List(ctx context.Context, backendID string) ([]*domain.Label, error)
	GetByID(ctx context.Context, id string) (*domain.Label, error)
	GetByRemoteID(ctx context.Context, backendID, remoteID string) (*domain.Label, error)
	GetByName(ctx context.Context, backendID, name string) (*domain.Label, error)
	ReplaceAll(ctx context.Context, backendID string, labels []*domain.Label) error
	Upsert(ctx context.Context, l *domain.Label) error
	Delete(ctx context.Context, id string) error
}
