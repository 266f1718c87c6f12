package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/google/uuid"
)

type activityService struct {
	activities repository.ActivityRepo
	sessions   repository.SessionRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
	now        func() time.Time
}

func newActivityService(
	activities repository.ActivityRepo,
	sessions repository.SessionRepo,
	uow db.UnitOfWork,
	observers []UseCaseObserver,
) *activityService {
	return &activityService{
		activities: activities,
		sessions:   sessions,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
		now:        time.Now,
	}
}

func NewActivityService(
	activities repository.ActivityRepo,
	sessions repository.SessionRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ActivityService {
	return newActivityService(activities, sessions, uow, observers)
}

// NewActivityReplica returns the verbatim write path used by sync.
func NewActivityReplica(
	activities repository.ActivityRepo,
	sessions repository.SessionRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ActivityReplica {
	return newActivityService(activities, sessions, uow, observers)
}

func (s *activityService) Create(ctx context.Context, in NewActivity) (*domain.Activity, error) {
	now := domain.Millis(s.now())
	a := &domain.Activity{
		SyncID:    uuid.New().String(),
		Name:      in.Name,
		Goal:      in.Goal,
		GoalScale: in.GoalScale,
		Color:     domain.CoalesceStr(in.Color, domain.DefaultColor),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *activityService) Get(ctx context.Context, syncID string) (*domain.Activity, error) {
	return s.activities.GetBySyncID(ctx, syncID)
}

func (s *activityService) List(ctx context.Context, includeDeleted bool) ([]*domain.Activity, error) {
	return s.activities.List(ctx, includeDeleted)
}

func (s *activityService) Update(ctx context.Context, syncID string, patch domain.ActivityPatch) (*domain.Activity, error) {
	var updated *domain.Activity
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)

		a, err := txActivities.GetBySyncID(ctx, syncID)
		if err != nil {
			return err
		}
		a.ApplyPatch(patch)
		if err := a.Validate(); err != nil {
			return err
		}
		a.Touch(domain.Millis(s.now()))
		if err := txActivities.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete tombstones the activity, then strips its sync_id from every
// referencing session, one transaction per session. The tombstone is
// committed before the cascade starts and stays in place if the cascade
// fails partway; the returned error wraps domain.ErrCascade.
func (s *activityService) Delete(ctx context.Context, syncID string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"sync_id": syncID}
	defer observe(ctx, s.observer, "delete-activity", startedAt, fields, &err)

	alreadyDeleted := false
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)

		a, err := txActivities.GetBySyncID(ctx, syncID)
		if err != nil {
			return err
		}
		if a.IsDeleted() {
			alreadyDeleted = true
			return nil
		}
		a.MarkDeleted(domain.Millis(s.now()))
		return txActivities.Update(ctx, a)
	})
	if err != nil || alreadyDeleted {
		return err
	}

	referencing, err := s.sessions.ListReferencing(ctx, syncID)
	if err != nil {
		return fmt.Errorf("deleting activity %s: finding referencing sessions: %w: %w", syncID, domain.ErrCascade, err)
	}
	rewritten := 0
	defer func() { fields["sessions_rewritten"] = rewritten }()

	for _, ref := range referencing {
		if err := s.removeReference(ctx, ref.SyncID, syncID); err != nil {
			return fmt.Errorf("deleting activity %s: rewriting session %s: %w: %w",
				syncID, ref.SyncID, domain.ErrCascade, err)
		}
		rewritten++
	}
	return nil
}

// removeReference re-reads the session inside its own transaction so a
// concurrent edit to the activity list is not clobbered by a stale copy.
func (s *activityService) removeReference(ctx context.Context, sessionSyncID, activitySyncID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		sess, err := txSessions.GetBySyncID(ctx, sessionSyncID)
		if err != nil {
			return err
		}
		if !sess.RemoveActivity(activitySyncID) {
			return nil
		}
		sess.Touch(domain.Millis(s.now()))
		return txSessions.Update(ctx, sess)
	})
}

func (s *activityService) ApplyRemote(ctx context.Context, records []*domain.Activity) (err error) {
	if len(records) == 0 {
		return nil
	}
	startedAt := time.Now()
	fields := map[string]any{"records": len(records)}
	defer observe(ctx, s.observer, "apply-remote-activities", startedAt, fields, &err)

	inserted := 0
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		for _, a := range records {
			if a.SyncID == "" {
				return fmt.Errorf("applying activity %q: empty sync_id: %w", a.Name, domain.ErrValidation)
			}
			err := txActivities.Update(ctx, a)
			if errors.Is(err, domain.ErrNotFound) {
				err = txActivities.Create(ctx, a)
				inserted++
			}
			if err != nil {
				return fmt.Errorf("applying activity %s: %w", a.SyncID, err)
			}
		}
		return nil
	})
	fields["inserted"] = inserted
	return err
}
