package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendRepo_UpsertAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteBackendRepo(db)
	ctx := context.Background()

	be := testutil.NewTestBackend("Personal")
	require.NoError(t, repo.Upsert(ctx, be))

	fetched, err := repo.GetByID(ctx, be.ID)
	require.NoError(t, err)
	assert.Equal(t, "Personal", fetched.Name)
	assert.Equal(t, domain.BackendTodoist, fetched.Type)
	assert.True(t, fetched.Enabled)
	assert.Nil(t, fetched.LastSyncAt)
	assert.Nil(t, fetched.LastSyncError)
}

func TestBackendRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteBackendRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBackendRepo_UpdateSyncStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteBackendRepo(db)
	ctx := context.Background()

	be := testutil.NewTestBackend("Personal")
	require.NoError(t, repo.Upsert(ctx, be))

	// Success records the timestamp and clears any error.
	syncedAt := time.Now().UTC().Format(time.RFC3339)
	require.NoError(t, repo.UpdateSyncStatus(ctx, be.ID, &syncedAt, nil))

	fetched, err := repo.GetByID(ctx, be.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.LastSyncAt)
	assert.Nil(t, fetched.LastSyncError)

	// Failure keeps the last success timestamp and records the message.
	msg := "fetching tasks: network unreachable"
	require.NoError(t, repo.UpdateSyncStatus(ctx, be.ID, nil, &msg))

	fetched, err = repo.GetByID(ctx, be.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.LastSyncAt)
	require.NotNil(t, fetched.LastSyncError)
	assert.Equal(t, msg, *fetched.LastSyncError)
}

func TestLabelRepo_GetByName(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteLabelRepo(db)
	ctx := context.Background()

	be := testutil.NewTestBackend("Personal")
	label := testutil.NewTestLabel(be.ID, "errand")
	require.NoError(t, repo.Upsert(ctx, label))

	fetched, err := repo.GetByName(ctx, be.ID, "errand")
	require.NoError(t, err)
	assert.Equal(t, label.ID, fetched.ID)

	_, err = repo.GetByName(ctx, be.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
