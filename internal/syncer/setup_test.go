package syncer

import (
	"cmp"
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/logger"
	"github.com/alexanderramin/tally/internal/remote"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/alexanderramin/tally/internal/service"
	"github.com/alexanderramin/tally/internal/tabular"
	"github.com/alexanderramin/tally/internal/testutil"
)

const container = "Tally"

type fixture struct {
	activities  repository.ActivityRepo
	sessions    repository.SessionRepo
	actReplica  service.ActivityReplica
	sessReplica service.SessionReplica
	actService  service.ActivityService
	gw          *remote.Memory
	orch        *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	activities := repository.NewSQLiteActivityRepo(database)
	sessions := repository.NewSQLiteSessionRepo(database)

	f := &fixture{
		activities:  activities,
		sessions:    sessions,
		actReplica:  service.NewActivityReplica(activities, sessions, uow),
		sessReplica: service.NewSessionReplica(sessions, uow),
		actService:  service.NewActivityService(activities, sessions, uow),
		gw:          remote.NewMemory(),
	}
	f.orch = NewOrchestrator(f.gw, f.actReplica, f.sessReplica, logger.Nop())
	return f
}

// remoteContainer creates the container with both tables seeded from the
// given records.
func (f *fixture) remoteContainer(t *testing.T, acts []*domain.Activity, sess []*domain.Session) string {
	t.Helper()
	id, err := f.gw.CreateContainer(context.Background(), container, []string{ActivitiesTable, SessionsTable})
	require.NoError(t, err)

	actRows := [][]string{tabular.ActivityColumns}
	for _, a := range acts {
		actRows = append(actRows, tabular.EncodeActivity(a))
	}
	f.gw.SetTable(id, ActivitiesTable, actRows)

	sessRows := [][]string{tabular.SessionColumns}
	for _, s := range sess {
		sessRows = append(sessRows, tabular.EncodeSession(s))
	}
	f.gw.SetTable(id, SessionsTable, sessRows)
	return id
}

func (f *fixture) remoteActivities(t *testing.T, id string) []*domain.Activity {
	t.Helper()
	rows := f.gw.Table(id, ActivitiesTable)
	require.NotEmpty(t, rows)
	require.Equal(t, tabular.ActivityColumns, rows[0])
	out := make([]*domain.Activity, 0, len(rows)-1)
	for _, row := range rows[1:] {
		a, err := tabular.DecodeActivity(row)
		require.NoError(t, err)
		out = append(out, a)
	}
	return out
}

func (f *fixture) remoteSessions(t *testing.T, id string) []*domain.Session {
	t.Helper()
	rows := f.gw.Table(id, SessionsTable)
	require.NotEmpty(t, rows)
	require.Equal(t, tabular.SessionColumns, rows[0])
	out := make([]*domain.Session, 0, len(rows)-1)
	for _, row := range rows[1:] {
		s, err := tabular.DecodeSession(row)
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func (f *fixture) localActivities(t *testing.T) []*domain.Activity {
	t.Helper()
	all, err := f.activities.List(context.Background(), true)
	require.NoError(t, err)
	slices.SortFunc(all, func(a, b *domain.Activity) int { return cmp.Compare(a.SyncID, b.SyncID) })
	return all
}

func (f *fixture) localSessions(t *testing.T) []*domain.Session {
	t.Helper()
	all, err := f.sessions.List(context.Background(), true)
	require.NoError(t, err)
	slices.SortFunc(all, func(a, b *domain.Session) int { return cmp.Compare(a.SyncID, b.SyncID) })
	return all
}

// requireConverged asserts local and remote hold the same records by value.
func (f *fixture) requireConverged(t *testing.T, id string) {
	t.Helper()
	local := f.localActivities(t)
	remoteActs := f.remoteActivities(t, id)
	require.Len(t, remoteActs, len(local))
	for i := range local {
		require.True(t, local[i].SameValue(remoteActs[i]), "activity %s: local %+v remote %+v", local[i].SyncID, local[i], remoteActs[i])
	}

	localSess := f.localSessions(t)
	remoteSess := f.remoteSessions(t, id)
	require.Len(t, remoteSess, len(localSess))
	for i := range localSess {
		require.True(t, localSess[i].SameValue(remoteSess[i]), "session %s: local %+v remote %+v", localSess[i].SyncID, localSess[i], remoteSess[i])
	}
}
