package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/repository"
)

// upcomingHorizon bounds the Upcoming view.
const upcomingHorizon = 3 * 30 * 24 * time.Hour

type queryService struct {
	database *sql.DB
	now      func() time.Time
}

// NewQueryService creates the cache-only read surface.
func NewQueryService(database *sql.DB) QueryService {
	return &queryService{database: database, now: time.Now}
}

func (q *queryService) Backends(ctx context.Context) ([]*domain.Backend, error) {
	return repository.NewSQLiteBackendRepo(q.database).List(ctx)
}

func (q *queryService) Projects(ctx context.Context, backendID string) ([]*domain.Project, error) {
	return repository.NewSQLiteProjectRepo(q.database).List(ctx, backendID)
}

func (q *queryService) Sections(ctx context.Context, projectID string) ([]*domain.Section, error) {
	return repository.NewSQLiteSectionRepo(q.database).ListByProject(ctx, projectID)
}

func (q *queryService) Labels(ctx context.Context, backendID string) ([]*domain.Label, error) {
	return repository.NewSQLiteLabelRepo(q.database).List(ctx, backendID)
}

func (q *queryService) Tasks(ctx context.Context, backendID string, filter repository.TaskFilter) ([]*domain.Task, error) {
	return repository.NewSQLiteTaskRepo(q.database).List(ctx, backendID, filter)
}

func (q *queryService) Today(ctx context.Context, backendID string) ([]*domain.Task, error) {
	today := q.now().Format("2006-01-02")
	return repository.NewSQLiteTaskRepo(q.database).ListDueBy(ctx, backendID, today)
}

func (q *queryService) Tomorrow(ctx context.Context, backendID string) ([]*domain.Task, error) {
	tomorrow := q.now().AddDate(0, 0, 1).Format("2006-01-02")
	return repository.NewSQLiteTaskRepo(q.database).ListDueOn(ctx, backendID, tomorrow)
}

func (q *queryService) Upcoming(ctx context.Context, backendID string) ([]*domain.Task, error) {
	now := q.now()
	from := now.Format("2006-01-02")
	to := now.Add(upcomingHorizon).Format("2006-01-02")
	return repository.NewSQLiteTaskRepo(q.database).ListDueBetween(ctx, backendID, from, to)
}

func (q *queryService) Search(ctx context.Context, backendID, query string) ([]*domain.Task, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.Task{}, nil
	}
	return repository.NewSQLiteTaskRepo(q.database).Search(ctx, backendID, query)
}
