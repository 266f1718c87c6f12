package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Session is a span of tracked time. ActivityIDs holds Activity sync_ids as
// a weak reference: deleting an activity only removes its id from the list.
type Session struct {
	LocalID     int64
	SyncID      string
	Name        string
	StartTime   int64
	EndTime     int64
	ActivityIDs []string
	UpdatedAt   int64
	DeletedAt   *int64
}

// SessionPatch carries a partial update. Nil fields are left unchanged.
type SessionPatch struct {
	Name        *string
	StartTime   *int64
	EndTime     *int64
	ActivityIDs *[]string
}

// IsDeleted reports whether the session is a tombstone.
func (s *Session) IsDeleted() bool {
	return s.DeletedAt != nil
}

// DurationMillis returns the session length in milliseconds.
func (s *Session) DurationMillis() int64 {
	return s.EndTime - s.StartTime
}

func (s *Session) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("session %s: name is required: %w", s.SyncID, ErrValidation)
	}
	if s.EndTime <= s.StartTime {
		return fmt.Errorf("session %s: end_time %d must be after start_time %d: %w",
			s.SyncID, s.EndTime, s.StartTime, ErrValidation)
	}
	return nil
}

func (s *Session) ApplyPatch(p SessionPatch) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		s.EndTime = *p.EndTime
	}
	if p.ActivityIDs != nil {
		s.ActivityIDs = slices.Clone(*p.ActivityIDs)
	}
}

func (s *Session) Touch(now int64) {
	s.UpdatedAt = NextUpdatedAt(s.UpdatedAt, now)
}

func (s *Session) MarkDeleted(now int64) {
	s.Touch(now)
	s.DeletedAt = Int64Ptr(s.UpdatedAt)
}

// References reports whether the session lists activitySyncID.
func (s *Session) References(activitySyncID string) bool {
	return slices.Contains(s.ActivityIDs, activitySyncID)
}

// RemoveActivity drops every occurrence of activitySyncID from ActivityIDs,
// preserving the order of the rest. Returns false if nothing was removed.
func (s *Session) RemoveActivity(activitySyncID string) bool {
	kept := make([]string, 0, len(s.ActivityIDs))
	for _, id := range s.ActivityIDs {
		if id != activitySyncID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(s.ActivityIDs) {
		return false
	}
	s.ActivityIDs = kept
	return true
}

func (s *Session) SameValue(b *Session) bool {
	return s.SyncID == b.SyncID &&
		s.Name == b.Name &&
		s.StartTime == b.StartTime &&
		s.EndTime == b.EndTime &&
		slices.Equal(s.ActivityIDs, b.ActivityIDs) &&
		s.UpdatedAt == b.UpdatedAt &&
		EqualInt64Ptr(s.DeletedAt, b.DeletedAt)
}
