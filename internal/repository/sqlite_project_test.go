package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_UpsertAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	be := testutil.NewTestBackend("Todoist")
	proj := testutil.NewTestProject(be.ID, "Errands", testutil.WithProjectRemoteID("r1"))
	require.NoError(t, repo.Upsert(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Errands", fetched.Name)
	assert.Equal(t, "r1", fetched.RemoteID)

	byRemote, err := repo.GetByRemoteID(ctx, be.ID, "r1")
	require.NoError(t, err)
	assert.Equal(t, proj.ID, byRemote.ID)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectRepo_List_OrderedByOrderIndex(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	be := testutil.NewTestBackend("Todoist")
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestProject(be.ID, "Third", testutil.WithProjectOrder(3))))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestProject(be.ID, "First", testutil.WithProjectOrder(1))))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestProject(be.ID, "Second", testutil.WithProjectOrder(2))))

	list, err := repo.List(ctx, be.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "First", list[0].Name)
	assert.Equal(t, "Second", list[1].Name)
	assert.Equal(t, "Third", list[2].Name)
}

func TestProjectRepo_ReplaceAll_PreservesLocalIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	be := testutil.NewTestBackend("Todoist")
	survivor := testutil.NewTestProject(be.ID, "Errands", testutil.WithProjectRemoteID("r-keep"))
	stale := testutil.NewTestProject(be.ID, "Old", testutil.WithProjectRemoteID("r-drop"))
	require.NoError(t, repo.Upsert(ctx, survivor))
	require.NoError(t, repo.Upsert(ctx, stale))

	snapshot := []*domain.Project{
		{BackendID: be.ID, RemoteID: "r-keep", Name: "Errands renamed"},
		{BackendID: be.ID, RemoteID: "r-new", Name: "Fresh"},
	}
	require.NoError(t, repo.ReplaceAll(ctx, be.ID, snapshot))

	kept, err := repo.GetByRemoteID(ctx, be.ID, "r-keep")
	require.NoError(t, err)
	assert.Equal(t, survivor.ID, kept.ID)
	assert.Equal(t, "Errands renamed", kept.Name)

	_, err = repo.GetByRemoteID(ctx, be.ID, "r-drop")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := repo.List(ctx, be.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestProjectRepo_ReplaceAll_ScopedToBackend(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	be := testutil.NewTestBackend("Todoist")
	other := testutil.NewTestBackend("Other")
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestProject(other.ID, "Untouched")))

	require.NoError(t, repo.ReplaceAll(ctx, be.ID, nil))

	list, err := repo.List(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Untouched", list[0].Name)
}
