// Package syncer replicates the local store to a remote tabular container
// with a full-table last-writer-wins merge per entity type.
package syncer

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/logger"
	"github.com/alexanderramin/tally/internal/remote"
	"github.com/alexanderramin/tally/internal/service"
	"github.com/alexanderramin/tally/internal/tabular"
)

const (
	ActivitiesTable = "Activities"
	SessionsTable   = "Sessions"
)

// Report summarizes one sync run.
type Report struct {
	Container   string
	ContainerID string
	// Created is set when the container did not exist before the run.
	Created    bool
	Activities MergeResult
	Sessions   MergeResult
	Duration   time.Duration
}

type Orchestrator struct {
	gw         remote.Gateway
	activities table[*domain.Activity]
	sessions   table[*domain.Session]
	log        *logger.Logger
}

func NewOrchestrator(gw remote.Gateway, activities service.ActivityReplica, sessions service.SessionReplica, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "sync")
	return &Orchestrator{
		gw:         gw,
		activities: activityTable(activities),
		sessions:   sessionTable(sessions, log),
		log:        log,
	}
}

// Run ensures the container and both tables exist, then merges activities
// followed by sessions. The first error aborts the run; an activities
// failure means sessions are not attempted.
func (o *Orchestrator) Run(ctx context.Context, container string) (*Report, error) {
	startedAt := time.Now()
	report := &Report{Container: container}

	id, created, err := o.ensureContainer(ctx, container)
	if err != nil {
		return report, err
	}
	report.ContainerID = id
	report.Created = created

	report.Activities, err = mergeTable(ctx, o.gw, id, o.activities, o.log)
	if err != nil {
		return report, fmt.Errorf("sync activities: %w", err)
	}
	report.Sessions, err = mergeTable(ctx, o.gw, id, o.sessions, o.log)
	if err != nil {
		return report, fmt.Errorf("sync sessions: %w", err)
	}

	report.Duration = time.Since(startedAt)
	o.log.Info("sync complete",
		"container", container,
		"activities", report.Activities.Total(),
		"sessions", report.Sessions.Total(),
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

func (o *Orchestrator) ensureContainer(ctx context.Context, name string) (string, bool, error) {
	id, found, err := o.gw.FindContainer(ctx, name)
	if err != nil {
		return "", false, fmt.Errorf("finding container %q: %w", name, err)
	}
	if !found {
		id, err = o.gw.CreateContainer(ctx, name, []string{ActivitiesTable, SessionsTable})
		if err != nil {
			return "", false, fmt.Errorf("creating container %q: %w", name, err)
		}
		if err := o.seed(ctx, id, o.activities.name, o.activities.rng(), o.activities.header()); err != nil {
			return "", false, err
		}
		if err := o.seed(ctx, id, o.sessions.name, o.sessions.rng(), o.sessions.header()); err != nil {
			return "", false, err
		}
		return id, true, nil
	}

	tables, err := o.gw.ListTables(ctx, id)
	if err != nil {
		return "", false, fmt.Errorf("listing tables of %q: %w", name, err)
	}
	if !slices.Contains(tables, o.activities.name) {
		if err := o.addTable(ctx, id, o.activities.name, o.activities.rng(), o.activities.header()); err != nil {
			return "", false, err
		}
	}
	if !slices.Contains(tables, o.sessions.name) {
		if err := o.addTable(ctx, id, o.sessions.name, o.sessions.rng(), o.sessions.header()); err != nil {
			return "", false, err
		}
	}
	return id, false, nil
}

func (o *Orchestrator) addTable(ctx context.Context, id, name, rng string, header [][]string) error {
	if err := o.gw.CreateTable(ctx, id, name); err != nil {
		return fmt.Errorf("creating table %s: %w", name, err)
	}
	o.log.Info("created missing table", "table", name)
	return o.seed(ctx, id, name, rng, header)
}

func (o *Orchestrator) seed(ctx context.Context, id, name, rng string, header [][]string) error {
	if err := o.gw.WriteRange(ctx, id, rng, header); err != nil {
		return fmt.Errorf("seeding table %s: %w", name, err)
	}
	return nil
}

func activityTable(r service.ActivityReplica) table[*domain.Activity] {
	return table[*domain.Activity]{
		name:      ActivitiesTable,
		columns:   tabular.ActivityColumns,
		syncID:    func(a *domain.Activity) string { return a.SyncID },
		updatedAt: func(a *domain.Activity) int64 { return a.UpdatedAt },
		encode:    tabular.EncodeActivity,
		decode:    tabular.DecodeActivity,
		list:      r.List,
		apply:     r.ApplyRemote,
	}
}

func sessionTable(r service.SessionReplica, log *logger.Logger) table[*domain.Session] {
	return table[*domain.Session]{
		name:      SessionsTable,
		columns:   tabular.SessionColumns,
		syncID:    func(s *domain.Session) string { return s.SyncID },
		updatedAt: func(s *domain.Session) int64 { return s.UpdatedAt },
		encode:    tabular.EncodeSession,
		decode:    tabular.DecodeSession,
		list:      r.List,
		apply:     r.ApplyRemote,
		inspect: func(row tabular.Row, s *domain.Session) {
			if tabular.RecoveredIDs(row) {
				log.Debug("unparsable activity_ids, using empty list", "sync_id", s.SyncID, "cell", row[4])
			}
		},
	}
}
