package repository

import (
	"context"

	"github.com/alexanderramin/tally/internal/domain"
)

// ActivityRepo persists activities verbatim: it never generates ids or
// touches timestamps. Those rules live in the service layer.
type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetBySyncID(ctx context.Context, syncID string) (*domain.Activity, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	DeleteAll(ctx context.Context) error
}

// SessionRepo persists sessions and keeps the session_activity_refs index in
// step with each session's activity list. Callers that need the row and the
// index to change atomically must hand the repo a transaction.
type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	GetBySyncID(ctx context.Context, syncID string) (*domain.Session, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Session, error)
	ListReferencing(ctx context.Context, activitySyncID string) ([]*domain.Session, error)
	Update(ctx context.Context, s *domain.Session) error
	DeleteAll(ctx context.Context) error
}
