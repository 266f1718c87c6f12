package service

import (
	"testing"
	"time"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/alexanderramin/tally/internal/testutil"
)

type testStore struct {
	activities repository.ActivityRepo
	sessions   repository.SessionRepo
	uow        db.UnitOfWork
}

func setupRepos(t *testing.T) testStore {
	t.Helper()
	database := testutil.NewTestDB(t)
	return testStore{
		activities: repository.NewSQLiteActivityRepo(database),
		sessions:   repository.NewSQLiteSessionRepo(database),
		uow:        testutil.NewTestUoW(database),
	}
}

// frozenClock always reports the same instant, so every mutation in a test
// lands in one millisecond.
func frozenClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}
