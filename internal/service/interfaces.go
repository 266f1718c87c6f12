package service

import (
	"context"

	"github.com/alexanderramin/tally/internal/domain"
)

// NewActivity holds the user-supplied fields for ActivityService.Create.
type NewActivity struct {
	Name      string
	Goal      float64
	GoalScale domain.GoalScale
	Color     string
}

// NewSession holds the user-supplied fields for SessionService.Create.
type NewSession struct {
	Name        string
	StartTime   int64
	EndTime     int64
	ActivityIDs []string
}

// ActivityService is the local store surface for activities. Every
// mutation refreshes updated_at; Delete is a soft delete that cascades the
// removal of the activity's sync_id out of referencing sessions.
type ActivityService interface {
	Create(ctx context.Context, in NewActivity) (*domain.Activity, error)
	Get(ctx context.Context, syncID string) (*domain.Activity, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Activity, error)
	Update(ctx context.Context, syncID string, patch domain.ActivityPatch) (*domain.Activity, error)
	Delete(ctx context.Context, syncID string) error
}

type SessionService interface {
	Create(ctx context.Context, in NewSession) (*domain.Session, error)
	Get(ctx context.Context, syncID string) (*domain.Session, error)
	List(ctx context.Context, includeDeleted bool) ([]*domain.Session, error)
	Update(ctx context.Context, syncID string, patch domain.SessionPatch) (*domain.Session, error)
	Delete(ctx context.Context, syncID string) error
}

// ActivityReplica is the replication path used by the merge engine. Records
// are written verbatim: no id generation, no timestamp refresh, no cascade.
//
// ApplyRemote overwrites the local copy of each record, inserting it when
// there is none (tombstones included). All records land in one transaction;
// on error none of them do.
type ActivityReplica interface {
	List(ctx context.Context, includeDeleted bool) ([]*domain.Activity, error)
	ApplyRemote(ctx context.Context, records []*domain.Activity) error
}

type SessionReplica interface {
	List(ctx context.Context, includeDeleted bool) ([]*domain.Session, error)
	ApplyRemote(ctx context.Context, records []*domain.Session) error
}

// DataService owns whole-store operations.
type DataService interface {
	Wipe(ctx context.Context) error
}
