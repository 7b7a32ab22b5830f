package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/taskline/internal/backend"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/repository"
	"github.com/alexanderramin/taskline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMutationFixture(t *testing.T) (*sql.DB, *testutil.FakeBackend, *domain.Backend, MutationService) {
	t.Helper()
	db := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(db)

	be := testutil.NewTestBackend("Personal")
	require.NoError(t, repository.NewSQLiteBackendRepo(db).Upsert(context.Background(), be))

	fake := testutil.NewFakeBackend()
	registry := backend.NewRegistry()
	registry.Register(be.ID, fake)

	return db, fake, be, NewMutationService(registry, db, uow)
}

func TestCreateTask_RemoteFirstThenMirror(t *testing.T) {
	db, fake, be, svc := newMutationFixture(t)
	ctx := context.Background()

	project := testutil.NewTestProject(be.ID, "Errands")
	require.NoError(t, repository.NewSQLiteProjectRepo(db).Upsert(ctx, project))
	require.NoError(t, repository.NewSQLiteLabelRepo(db).Upsert(ctx, testutil.NewTestLabel(be.ID, "urgent")))

	prio := 3
	task, err := svc.CreateTask(ctx, CreateTaskInput{
		ProjectID: project.ID,
		Content:   "Buy groceries",
		Priority:  &prio,
		Labels:    []string{"urgent"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("CreateTask"))
	assert.NotEmpty(t, task.RemoteID)
	assert.Equal(t, project.ID, task.ProjectID)

	stored, err := repository.NewSQLiteTaskRepo(db).GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy groceries", stored.Content)
	assert.Equal(t, domain.PriorityHigh, stored.Priority)
	assert.Equal(t, []string{"urgent"}, stored.Labels)
}

func TestCreateTask_RemoteFailureLeavesStoreUntouched(t *testing.T) {
	db, fake, be, svc := newMutationFixture(t)
	ctx := context.Background()

	project := testutil.NewTestProject(be.ID, "Errands")
	require.NoError(t, repository.NewSQLiteProjectRepo(db).Upsert(ctx, project))
	fake.Errs["CreateTask"] = backend.ErrNetwork

	_, err := svc.CreateTask(ctx, CreateTaskInput{ProjectID: project.ID, Content: "doomed"})
	assert.ErrorIs(t, err, backend.ErrNetwork)

	tasks, listErr := repository.NewSQLiteTaskRepo(db).List(ctx, be.ID, repository.TaskFilter{})
	require.NoError(t, listErr)
	assert.Empty(t, tasks)
}

func TestCreateTask_SectionMustBelongToProject(t *testing.T) {
	db, fake, be, svc := newMutationFixture(t)
	ctx := context.Background()

	projects := repository.NewSQLiteProjectRepo(db)
	home := testutil.NewTestProject(be.ID, "Home")
	work := testutil.NewTestProject(be.ID, "Work")
	require.NoError(t, projects.Upsert(ctx, home))
	require.NoError(t, projects.Upsert(ctx, work))
	kitchen := testutil.NewTestSection(be.ID, home.ID, "Kitchen")
	require.NoError(t, repository.NewSQLiteSectionRepo(db).Upsert(ctx, kitchen))

	_, err := svc.CreateTask(ctx, CreateTaskInput{
		ProjectID: work.ID,
		SectionID: &kitchen.ID,
		Content:   "misplaced",
	})
	assert.ErrorIs(t, err, backend.ErrValidation)
	assert.Zero(t, fake.Calls("CreateTask"), "rejected before any remote call")
}

func TestUpdateTask_MergesRemoteResult(t *testing.T) {
	db, fake, be, svc := newMutationFixture(t)
	ctx := context.Background()

	project := testutil.NewTestProject(be.ID, "Errands")
	require.NoError(t, repository.NewSQLiteProjectRepo(db).Upsert(ctx, project))
	task := testutil.NewTestTask(be.ID, project.ID, "Old content", testutil.WithTaskRemoteID("rt1"))
	require.NoError(t, repository.NewSQLiteTaskRepo(db).Upsert(ctx, task))
	fake.Tasks = []backend.RemoteTask{{RemoteID: "rt1", Content: "Old content", ProjectRemoteID: project.RemoteID, Priority: 1}}

	content := "New content"
	updated, err := svc.UpdateTask(ctx, task.ID, UpdateTaskInput{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "New content", updated.Content)
	assert.Equal(t, task.ID, updated.ID)

	stored, err := repository.NewSQLiteTaskRepo(db).GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "New content", stored.Content)
}

func TestCompleteTask_OneWay(t *testing.T) {
	db, fake, be, svc := newMutationFixture(t)
	ctx := context.Background()

	project := testutil.NewTestProject(be.ID, "Errands")
	require.NoError(t, repository.NewSQLiteProjectRepo(db).Upsert(ctx, project))
	task := testutil.NewTestTask(be.ID, project.ID, "finish me", testutil.WithTaskRemoteID("rt1"))
	require.NoError(t, repository.NewSQLiteTaskRepo(db).Upsert(ctx, task))
	fake.Tasks = []backend.RemoteTask{{RemoteID: "rt1", Content: "finish me", ProjectRemoteID: project.RemoteID, Priority: 1}}

	require.NoError(t, svc.CompleteTask(ctx, task.ID))
	assert.Equal(t, 1, fake.Calls("CompleteTask"))

	stored, err := repository.NewSQLiteTaskRepo(db).GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)

	// Completing again is rejected locally, with no remote call.
	err = svc.CompleteTask(ctx, task.ID)
	assert.ErrorIs(t, err, backend.ErrValidation)
	assert.Equal(t, 1, fake.Calls("CompleteTask"))
}

func TestCompleteTask_RemoteFailureLeavesTaskPending(t *testing.T) {
	db, fake, be, svc := newMutationFixture(t)
	ctx := context.Background()

	project := testutil.NewTestProject(be.ID, "Errands")
	require.NoError(t, repository.NewSQLiteProjectRepo(db).Upsert(ctx, project))
	task := testutil.NewTestTask(be.ID, project.ID, "finish me", testutil.WithTaskRemoteID("rt1"))
	require.NoError(t, repository.NewSQLiteTaskRepo(db).Upsert(ctx, task))
	fake.Errs["CompleteTask"] = backend.ErrNetwork

	err := svc.CompleteTask(ctx, task.ID)
	assert.ErrorIs(t, err, backend.ErrNetwork)

	stored, getErr := repository.NewSQLiteTaskRepo(db).GetByID(ctx, task.ID)
	require.NoError(t, getErr)
	assert.False(t, stored.IsCompleted)
}

func TestDeleteProject_CascadesLocallyAfterRemoteSuccess(t *testing.T) {
	db, fake, be, svc := newMutationFixture(t)
	ctx := context.Background()

	project := testutil.NewTestProject(be.ID, "Errands", testutil.WithProjectRemoteID("rp1"))
	require.NoError(t, repository.NewSQLiteProjectRepo(db).Upsert(ctx, project))
	require.NoError(t, repository.NewSQLiteTaskRepo(db).Upsert(ctx,
		testutil.NewTestTask(be.ID, project.ID, "inside")))
	fake.Projects = []backend.RemoteProject{{RemoteID: "rp1", Name: "Errands"}}

	require.NoError(t, svc.DeleteProject(ctx, project.ID))
	assert.Equal(t, 1, fake.Calls("DeleteProject"))

	_, err := repository.NewSQLiteProjectRepo(db).GetByID(ctx, project.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	tasks, listErr := repository.NewSQLiteTaskRepo(db).List(ctx, be.ID, repository.TaskFilter{})
	require.NoError(t, listErr)
	assert.Empty(t, tasks)
}

func TestMutation_MissingTarget(t *testing.T) {
	_, fake, _, svc := newMutationFixture(t)
	ctx := context.Background()

	_, err := svc.UpdateTask(ctx, "no-such-task", UpdateTaskInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.DeleteProject(ctx, "no-such-project")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Zero(t, fake.TotalCalls())
}

func TestCreateProject_ResolvesParentRemoteID(t *testing.T) {
	db, fake, be, svc := newMutationFixture(t)
	ctx := context.Background()

	parent := testutil.NewTestProject(be.ID, "Parent", testutil.WithProjectRemoteID("rp-parent"))
	require.NoError(t, repository.NewSQLiteProjectRepo(db).Upsert(ctx, parent))

	created, err := svc.CreateProject(ctx, CreateProjectInput{
		BackendID: be.ID,
		Name:      "Child",
		ParentID:  &parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ParentID)
	assert.Equal(t, parent.ID, *created.ParentID)

	// The adapter saw the parent's remote ID, not the local one.
	require.Len(t, fake.Projects, 1)
	require.NotNil(t, fake.Projects[0].ParentRemoteID)
	assert.Equal(t, "rp-parent", *fake.Projects[0].ParentRemoteID)
}
