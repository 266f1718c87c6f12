package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityRepo_CreateAndGetBySyncID(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	a := testutil.NewTestActivity("Reading", testutil.WithGoal(2.5, domain.GoalWeekly), testutil.WithColor("#ff0000"))
	require.NoError(t, repo.Create(ctx, a))
	assert.NotZero(t, a.LocalID, "local sequence id should be assigned")

	fetched, err := repo.GetBySyncID(ctx, a.SyncID)
	require.NoError(t, err)
	assert.True(t, a.SameValue(fetched))
	assert.Equal(t, a.LocalID, fetched.LocalID)
	assert.Nil(t, fetched.DeletedAt)
}

func TestActivityRepo_GetBySyncID_NotFound(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))

	_, err := repo.GetBySyncID(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestActivityRepo_List_ExcludesTombstonesByDefault(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	live := testutil.NewTestActivity("Live")
	dead := testutil.NewTestActivity("Dead", testutil.WithActivityDeletedAt(500))
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, dead))

	visible, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, live.SyncID, visible[0].SyncID)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, live.SyncID, all[0].SyncID, "ordered by local sequence id")
	require.NotNil(t, all[1].DeletedAt)
	assert.Equal(t, int64(500), *all[1].DeletedAt)
}

func TestActivityRepo_Update_WritesTimestampsVerbatim(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	a := testutil.NewTestActivity("Run", testutil.WithActivityUpdatedAt(100))
	require.NoError(t, repo.Create(ctx, a))

	a.Name = "Long run"
	a.UpdatedAt = 50
	a.DeletedAt = domain.Int64Ptr(40)
	require.NoError(t, repo.Update(ctx, a))

	fetched, err := repo.GetBySyncID(ctx, a.SyncID)
	require.NoError(t, err)
	assert.Equal(t, "Long run", fetched.Name)
	assert.Equal(t, int64(50), fetched.UpdatedAt)
	require.NotNil(t, fetched.DeletedAt)
	assert.Equal(t, int64(40), *fetched.DeletedAt)
}

func TestActivityRepo_Update_NotFound(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))

	err := repo.Update(context.Background(), testutil.NewTestActivity("Ghost", testutil.WithActivitySyncID("ghost")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "ghost")
}

func TestActivityRepo_Create_DuplicateSyncIDFails(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestActivity("One", testutil.WithActivitySyncID("dup"))))
	err := repo.Create(ctx, testutil.NewTestActivity("Two", testutil.WithActivitySyncID("dup")))
	assert.Error(t, err)
}

func TestActivityRepo_DeleteAll(t *testing.T) {
	repo := NewSQLiteActivityRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestActivity("One")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestActivity("Two", testutil.WithActivityDeletedAt(1))))
	require.NoError(t, repo.DeleteAll(ctx))

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, all)
}
