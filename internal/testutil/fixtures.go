package testutil

import (
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/google/uuid"
)

// Activity options
type ActivityOption func(*domain.Activity)

func WithActivitySyncID(id string) ActivityOption {
	return func(a *domain.Activity) {
		a.SyncID = id
	}
}

func WithGoal(goal float64, scale domain.GoalScale) ActivityOption {
	return func(a *domain.Activity) {
		a.Goal = goal
		a.GoalScale = scale
	}
}

func WithColor(c string) ActivityOption {
	return func(a *domain.Activity) {
		a.Color = c
	}
}

func WithActivityUpdatedAt(ms int64) ActivityOption {
	return func(a *domain.Activity) {
		a.UpdatedAt = ms
	}
}

func WithActivityDeletedAt(ms int64) ActivityOption {
	return func(a *domain.Activity) {
		a.DeletedAt = &ms
	}
}

func NewTestActivity(name string, opts ...ActivityOption) *domain.Activity {
	now := domain.Millis(time.Now())
	a := &domain.Activity{
		SyncID:    uuid.New().String(),
		Name:      name,
		Goal:      30,
		GoalScale: domain.GoalDaily,
		Color:     domain.DefaultColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Session options
type SessionOption func(*domain.Session)

func WithSessionSyncID(id string) SessionOption {
	return func(s *domain.Session) {
		s.SyncID = id
	}
}

func WithActivities(ids ...string) SessionOption {
	return func(s *domain.Session) {
		s.ActivityIDs = ids
	}
}

func WithSpan(start, end int64) SessionOption {
	return func(s *domain.Session) {
		s.StartTime = start
		s.EndTime = end
	}
}

func WithSessionUpdatedAt(ms int64) SessionOption {
	return func(s *domain.Session) {
		s.UpdatedAt = ms
	}
}

func WithSessionDeletedAt(ms int64) SessionOption {
	return func(s *domain.Session) {
		s.DeletedAt = &ms
	}
}

func NewTestSession(name string, opts ...SessionOption) *domain.Session {
	now := domain.Millis(time.Now())
	s := &domain.Session{
		SyncID:      uuid.New().String(),
		Name:        name,
		StartTime:   now - int64(time.Hour/time.Millisecond),
		EndTime:     now,
		ActivityIDs: []string{},
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
