package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/taskline/internal/repository"
	"github.com/alexanderramin/taskline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryService_DateViews(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	be := testutil.NewTestBackend("Personal")
	project := testutil.NewTestProject(be.ID, "Errands")
	require.NoError(t, repository.NewSQLiteProjectRepo(db).Upsert(ctx, project))

	tasks := repository.NewSQLiteTaskRepo(db)
	require.NoError(t, tasks.Upsert(ctx, testutil.NewTestTask(be.ID, project.ID, "overdue",
		testutil.WithDueDate("2026-08-25"))))
	require.NoError(t, tasks.Upsert(ctx, testutil.NewTestTask(be.ID, project.ID, "today",
		testutil.WithDueDate("2026-08-30"))))
	require.NoError(t, tasks.Upsert(ctx, testutil.NewTestTask(be.ID, project.ID, "tomorrow",
		testutil.WithDueDate("2026-08-31"))))
	require.NoError(t, tasks.Upsert(ctx, testutil.NewTestTask(be.ID, project.ID, "far future",
		testutil.WithDueDate("2027-06-01"))))
	require.NoError(t, tasks.Upsert(ctx, testutil.NewTestTask(be.ID, project.ID, "undated")))

	svc := &queryService{
		database: db,
		now: func() time.Time {
			return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		},
	}

	today, err := svc.Today(ctx, be.ID)
	require.NoError(t, err)
	require.Len(t, today, 2)
	assert.Equal(t, "overdue", today[0].Content)
	assert.Equal(t, "today", today[1].Content)

	tomorrow, err := svc.Tomorrow(ctx, be.ID)
	require.NoError(t, err)
	require.Len(t, tomorrow, 1)
	assert.Equal(t, "tomorrow", tomorrow[0].Content)

	upcoming, err := svc.Upcoming(ctx, be.ID)
	require.NoError(t, err)
	require.Len(t, upcoming, 2, "horizon excludes the far future task")
	assert.Equal(t, "today", upcoming[0].Content)
	assert.Equal(t, "tomorrow", upcoming[1].Content)
}

func TestQueryService_SearchBlankQuery(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewQueryService(db)

	results, err := svc.Search(context.Background(), "b1", "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQueryService_TasksAndLookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	be := testutil.NewTestBackend("Personal")
	require.NoError(t, repository.NewSQLiteBackendRepo(db).Upsert(ctx, be))
	project := testutil.NewTestProject(be.ID, "Errands")
	require.NoError(t, repository.NewSQLiteProjectRepo(db).Upsert(ctx, project))
	section := testutil.NewTestSection(be.ID, project.ID, "Shopping")
	require.NoError(t, repository.NewSQLiteSectionRepo(db).Upsert(ctx, section))
	require.NoError(t, repository.NewSQLiteLabelRepo(db).Upsert(ctx, testutil.NewTestLabel(be.ID, "urgent")))
	require.NoError(t, repository.NewSQLiteTaskRepo(db).Upsert(ctx,
		testutil.NewTestTask(be.ID, project.ID, "Buy milk", testutil.WithSection(section.ID))))

	svc := NewQueryService(db)

	backends, err := svc.Backends(ctx)
	require.NoError(t, err)
	assert.Len(t, backends, 1)

	projects, err := svc.Projects(ctx, be.ID)
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	sections, err := svc.Sections(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, sections, 1)

	labels, err := svc.Labels(ctx, be.ID)
	require.NoError(t, err)
	assert.Len(t, labels, 1)

	tasks, err := svc.Tasks(ctx, be.ID, repository.TaskFilter{ProjectID: project.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Content)
}
