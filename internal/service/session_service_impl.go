package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/google/uuid"
)

type sessionService struct {
	sessions repository.SessionRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func newSessionService(sessions repository.SessionRepo, uow db.UnitOfWork, observers []UseCaseObserver) *sessionService {
	return &sessionService{
		sessions: sessions,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func NewSessionService(sessions repository.SessionRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SessionService {
	return newSessionService(sessions, uow, observers)
}

// NewSessionReplica returns the verbatim write path used by sync.
func NewSessionReplica(sessions repository.SessionRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SessionReplica {
	return newSessionService(sessions, uow, observers)
}

func (s *sessionService) Create(ctx context.Context, in NewSession) (*domain.Session, error) {
	ids := slices.Clone(in.ActivityIDs)
	if ids == nil {
		ids = []string{}
	}
	sess := &domain.Session{
		SyncID:      uuid.New().String(),
		Name:        in.Name,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		ActivityIDs: ids,
		UpdatedAt:   domain.Millis(s.now()),
	}
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	// Row and reference index are written together.
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSessionRepo(tx).Create(ctx, sess)
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *sessionService) Get(ctx context.Context, syncID string) (*domain.Session, error) {
	return s.sessions.GetBySyncID(ctx, syncID)
}

func (s *sessionService) List(ctx context.Context, includeDeleted bool) ([]*domain.Session, error) {
	return s.sessions.List(ctx, includeDeleted)
}

func (s *sessionService) Update(ctx context.Context, syncID string, patch domain.SessionPatch) (*domain.Session, error) {
	var updated *domain.Session
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		sess, err := txSessions.GetBySyncID(ctx, syncID)
		if err != nil {
			return err
		}
		sess.ApplyPatch(patch)
		if err := sess.Validate(); err != nil {
			return err
		}
		sess.Touch(domain.Millis(s.now()))
		if err := txSessions.Update(ctx, sess); err != nil {
			return err
		}
		updated = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete tombstones the session. Deleting a tombstone is a no-op.
func (s *sessionService) Delete(ctx context.Context, syncID string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "delete-session", startedAt, map[string]any{"sync_id": syncID}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		sess, err := txSessions.GetBySyncID(ctx, syncID)
		if err != nil {
			return err
		}
		if sess.IsDeleted() {
			return nil
		}
		sess.MarkDeleted(domain.Millis(s.now()))
		return txSessions.Update(ctx, sess)
	})
}

// ApplyRemote writes records verbatim in one transaction, keeping the
// reference index in step.
func (s *sessionService) ApplyRemote(ctx context.Context, records []*domain.Session) (err error) {
	if len(records) == 0 {
		return nil
	}
	startedAt := time.Now()
	fields := map[string]any{"records": len(records)}
	defer observe(ctx, s.observer, "apply-remote-sessions", startedAt, fields, &err)

	inserted := 0
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		for _, sess := range records {
			if sess.SyncID == "" {
				return fmt.Errorf("applying session %q: empty sync_id: %w", sess.Name, domain.ErrValidation)
			}
			err := txSessions.Update(ctx, sess)
			if errors.Is(err, domain.ErrNotFound) {
				err = txSessions.Create(ctx, sess)
				inserted++
			}
			if err != nil {
				return fmt.Errorf("applying session %s: %w", sess.SyncID, err)
			}
		}
		return nil
	})
	fields["inserted"] = inserted
	return err
}
