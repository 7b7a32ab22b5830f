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

func strptr(s string) *string { return &s }

func newSyncFixture(t *testing.T) (*sql.DB, *testutil.FakeBackend, *domain.Backend, SyncService) {
	t.Helper()
	db := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(db)

	be := testutil.NewTestBackend("Personal")
	require.NoError(t, repository.NewSQLiteBackendRepo(db).Upsert(context.Background(), be))

	fake := testutil.NewFakeBackend()
	registry := backend.NewRegistry()
	registry.Register(be.ID, fake)

	return db, fake, be, NewSyncService(registry, db, uow, 0)
}

func seedRemote(fake *testutil.FakeBackend) {
	fake.Labels = []backend.RemoteLabel{
		{RemoteID: "l1", Name: "urgent", Color: "red"},
		{RemoteID: "l2", Name: "home", Color: "green"},
	}
	fake.Projects = []backend.RemoteProject{
		{RemoteID: "p1", Name: "Inbox", IsInbox: true},
		{RemoteID: "p2", Name: "Chores", ParentRemoteID: strptr("p1")},
	}
	fake.Sections = []backend.RemoteSection{
		{RemoteID: "s1", Name: "Kitchen", ProjectRemoteID: "p2"},
		{RemoteID: "s-orphan", Name: "Orphan", ProjectRemoteID: "p-missing"},
	}
	fake.Tasks = []backend.RemoteTask{
		{RemoteID: "t1", Content: "Fix sink", ProjectRemoteID: "p2",
			SectionRemoteID: strptr("s1"), Priority: 4, Labels: []string{"urgent", "unknown-label"}},
		{RemoteID: "t2", Content: "Read mail", ProjectRemoteID: "p1",
			SectionRemoteID: strptr("s1"), Priority: 1},
		{RemoteID: "t3", Content: "Subtask", ProjectRemoteID: "p2",
			ParentRemoteID: strptr("t1"), Priority: 2},
		{RemoteID: "t-orphan", Content: "Orphan", ProjectRemoteID: "p-missing"},
	}
}

func TestSync_FullCycle(t *testing.T) {
	db, fake, be, svc := newSyncFixture(t)
	seedRemote(fake)
	ctx := context.Background()

	outcome := svc.Sync(ctx, be.ID)
	require.Equal(t, domain.SyncSucceeded, outcome.State, outcome.Message)
	assert.Equal(t, 2, outcome.Labels)
	assert.Equal(t, 2, outcome.Projects)
	assert.Equal(t, 1, outcome.Sections, "section with unknown project is dropped")
	assert.Equal(t, 3, outcome.Tasks, "task with unknown project is dropped")

	projects, err := repository.NewSQLiteProjectRepo(db).List(ctx, be.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	// Parent reference resolved to the local ID.
	chores, err := repository.NewSQLiteProjectRepo(db).GetByRemoteID(ctx, be.ID, "p2")
	require.NoError(t, err)
	inbox, err := repository.NewSQLiteProjectRepo(db).GetByRemoteID(ctx, be.ID, "p1")
	require.NoError(t, err)
	require.NotNil(t, chores.ParentID)
	assert.Equal(t, inbox.ID, *chores.ParentID)
	assert.True(t, inbox.IsInbox)

	taskRepo := repository.NewSQLiteTaskRepo(db)
	fixSink, err := taskRepo.GetByRemoteID(ctx, be.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, chores.ID, fixSink.ProjectID)
	require.NotNil(t, fixSink.SectionID)
	assert.Equal(t, domain.PriorityUrgent, fixSink.Priority)
	assert.Equal(t, []string{"urgent"}, fixSink.Labels, "unknown label names are skipped")

	// Section in another project is cleared, not kept.
	readMail, err := taskRepo.GetByRemoteID(ctx, be.ID, "t2")
	require.NoError(t, err)
	assert.Nil(t, readMail.SectionID)

	// Parent task reference resolved within the fetched set.
	sub, err := taskRepo.GetByRemoteID(ctx, be.ID, "t3")
	require.NoError(t, err)
	require.NotNil(t, sub.ParentID)
	assert.Equal(t, fixSink.ID, *sub.ParentID)

	// Backend row reflects the success.
	beRow, err := repository.NewSQLiteBackendRepo(db).GetByID(ctx, be.ID)
	require.NoError(t, err)
	assert.NotNil(t, beRow.LastSyncAt)
	assert.Nil(t, beRow.LastSyncError)

	state, msg := svc.Status()
	assert.Equal(t, domain.SyncSucceeded, state)
	assert.Empty(t, msg)
	assert.False(t, svc.IsStale())
	assert.False(t, svc.IsSyncing())
}

func TestSync_SecondCyclePreservesLocalIDs(t *testing.T) {
	db, fake, be, svc := newSyncFixture(t)
	seedRemote(fake)
	ctx := context.Background()

	require.Equal(t, domain.SyncSucceeded, svc.Sync(ctx, be.ID).State)

	taskRepo := repository.NewSQLiteTaskRepo(db)
	before, err := taskRepo.GetByRemoteID(ctx, be.ID, "t1")
	require.NoError(t, err)

	// Remote set changes: one task gone, one renamed.
	fake.Tasks = []backend.RemoteTask{
		{RemoteID: "t1", Content: "Fix sink properly", ProjectRemoteID: "p2", Priority: 4},
	}
	require.Equal(t, domain.SyncSucceeded, svc.Sync(ctx, be.ID).State)

	after, err := taskRepo.GetByRemoteID(ctx, be.ID, "t1")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "Fix sink properly", after.Content)

	_, err = taskRepo.GetByRemoteID(ctx, be.ID, "t2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSync_LaterFetchFailureKeepsEarlierCommits(t *testing.T) {
	db, fake, be, svc := newSyncFixture(t)
	seedRemote(fake)
	fake.Errs["FetchTasks"] = backend.ErrNetwork
	ctx := context.Background()

	outcome := svc.Sync(ctx, be.ID)
	assert.Equal(t, domain.SyncFailed, outcome.State)
	assert.Contains(t, outcome.Message, "fetching tasks")

	// Labels, projects and sections committed before the failure stay.
	labelRows, err := repository.NewSQLiteLabelRepo(db).List(ctx, be.ID)
	require.NoError(t, err)
	assert.Len(t, labelRows, 2)
	projectRows, err := repository.NewSQLiteProjectRepo(db).List(ctx, be.ID)
	require.NoError(t, err)
	assert.Len(t, projectRows, 2)

	taskRows, err := repository.NewSQLiteTaskRepo(db).List(ctx, be.ID, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, taskRows)

	// Failure is recorded on the backend row; no success timestamp.
	beRow, err := repository.NewSQLiteBackendRepo(db).GetByID(ctx, be.ID)
	require.NoError(t, err)
	assert.Nil(t, beRow.LastSyncAt)
	require.NotNil(t, beRow.LastSyncError)
	assert.Contains(t, *beRow.LastSyncError, "fetching tasks")

	state, msg := svc.Status()
	assert.Equal(t, domain.SyncFailed, state)
	assert.NotEmpty(t, msg)
	assert.True(t, svc.IsStale(), "a never-succeeded cache is stale")
}

func TestSync_UnknownBackend(t *testing.T) {
	_, fake, _, svc := newSyncFixture(t)

	outcome := svc.Sync(context.Background(), "no-such-backend")
	assert.Equal(t, domain.SyncFailed, outcome.State)
	assert.Zero(t, fake.TotalCalls())
}

func TestSync_ConcurrentTriggerIsDropped(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	be := testutil.NewTestBackend("Personal")
	require.NoError(t, repository.NewSQLiteBackendRepo(db).Upsert(ctx, be))

	fake := testutil.NewFakeBackend()
	seedRemote(fake)
	release := make(chan struct{})
	started := make(chan struct{})
	blocking := &blockingBackend{FakeBackend: fake, started: started, release: release}

	registry := backend.NewRegistry()
	registry.Register(be.ID, blocking)
	svc := NewSyncService(registry, db, testutil.NewTestUoW(db), 0)

	done := make(chan SyncOutcome, 1)
	go func() { done <- svc.Sync(ctx, be.ID) }()
	<-started

	// Second trigger while the first cycle holds the flag: dropped with no
	// remote traffic of its own.
	before := fake.TotalCalls()
	outcome := svc.Sync(ctx, be.ID)
	assert.Equal(t, domain.SyncInFlight, outcome.State)
	assert.Equal(t, before, fake.TotalCalls())
	assert.True(t, svc.IsSyncing())

	close(release)
	first := <-done
	assert.Equal(t, domain.SyncSucceeded, first.State, first.Message)
	assert.False(t, svc.IsSyncing())
}

// blockingBackend holds the first FetchLabels call until released.
type blockingBackend struct {
	*testutil.FakeBackend
	started chan struct{}
	release chan struct{}
	once    bool
}

func (b *blockingBackend) FetchLabels(ctx context.Context) ([]backend.RemoteLabel, error) {
	if !b.once {
		b.once = true
		close(b.started)
		<-b.release
	}
	return b.FakeBackend.FetchLabels(ctx)
}
