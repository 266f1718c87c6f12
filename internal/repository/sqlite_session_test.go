package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refsFor(t *testing.T, repo *SQLiteSessionRepo, sessionSyncID string) []string {
	t.Helper()
	rows, err := repo.db.QueryContext(context.Background(),
		`SELECT activity_sync_id FROM session_activity_refs WHERE session_sync_id = ? ORDER BY position`, sessionSyncID)
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	return ids
}

func TestSessionRepo_CreateAndGetBySyncID(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	sess := testutil.NewTestSession("Run", testutil.WithSpan(1000, 2000), testutil.WithActivities("a1", "a2"))
	require.NoError(t, repo.Create(ctx, sess))
	assert.NotZero(t, sess.LocalID)

	fetched, err := repo.GetBySyncID(ctx, sess.SyncID)
	require.NoError(t, err)
	assert.True(t, sess.SameValue(fetched))
	assert.Equal(t, []string{"a1", "a2"}, fetched.ActivityIDs)
}

func TestSessionRepo_NilActivityIDsStoredAsEmptyList(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	sess := testutil.NewTestSession("Nap")
	sess.ActivityIDs = nil
	require.NoError(t, repo.Create(ctx, sess))

	fetched, err := repo.GetBySyncID(ctx, sess.SyncID)
	require.NoError(t, err)
	assert.NotNil(t, fetched.ActivityIDs)
	assert.Empty(t, fetched.ActivityIDs)
}

func TestSessionRepo_GetBySyncID_NotFound(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))

	_, err := repo.GetBySyncID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepo_List_IncludeDeleted(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestSession("Live")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestSession("Dead", testutil.WithSessionDeletedAt(9))))

	visible, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSessionRepo_CreateIndexesReferences(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	sess := testutil.NewTestSession("Run", testutil.WithActivities("a1", "a2"))
	require.NoError(t, repo.Create(ctx, sess))

	assert.Equal(t, []string{"a1", "a2"}, refsFor(t, repo, sess.SyncID))
}

func TestSessionRepo_UpdateRewritesReferences(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	sess := testutil.NewTestSession("Run", testutil.WithActivities("a1", "a2"))
	require.NoError(t, repo.Create(ctx, sess))

	sess.ActivityIDs = []string{"a3"}
	require.NoError(t, repo.Update(ctx, sess))

	assert.Equal(t, []string{"a3"}, refsFor(t, repo, sess.SyncID))

	stale, err := repo.ListReferencing(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, stale, "old references should be dropped from the index")
}

func TestSessionRepo_ListReferencing(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	s1 := testutil.NewTestSession("One", testutil.WithActivities("a1", "a2"))
	s2 := testutil.NewTestSession("Two", testutil.WithActivities("a2"))
	s3 := testutil.NewTestSession("Three", testutil.WithActivities("a3"))
	s4 := testutil.NewTestSession("Gone", testutil.WithActivities("a2"), testutil.WithSessionDeletedAt(5))
	for _, s := range []*domain.Session{s1, s2, s3, s4} {
		require.NoError(t, repo.Create(ctx, s))
	}

	refs, err := repo.ListReferencing(ctx, "a2")
	require.NoError(t, err)
	require.Len(t, refs, 3, "tombstoned sessions are still indexed")
	assert.Equal(t, s1.SyncID, refs[0].SyncID)
	assert.Equal(t, s2.SyncID, refs[1].SyncID)
	assert.Equal(t, s4.SyncID, refs[2].SyncID)
}

func TestSessionRepo_ListReferencing_DuplicateIDsYieldOneSession(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	sess := testutil.NewTestSession("Twice", testutil.WithActivities("a1", "a1"))
	require.NoError(t, repo.Create(ctx, sess))

	refs, err := repo.ListReferencing(ctx, "a1")
	require.NoError(t, err)
	assert.Len(t, refs, 1)
}

func TestSessionRepo_Update_NotFound(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))

	err := repo.Update(context.Background(), testutil.NewTestSession("Ghost", testutil.WithSessionSyncID("s-ghost")))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepo_DeleteAllClearsIndex(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	sess := testutil.NewTestSession("Run", testutil.WithActivities("a1"))
	require.NoError(t, repo.Create(ctx, sess))
	require.NoError(t, repo.DeleteAll(ctx))

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, refsFor(t, repo, sess.SyncID))
}
