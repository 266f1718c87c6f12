package domain

import (
	"fmt"
	"math"
	"strings"
)

// Activity is a tracked category of time with a goal over a period.
// SyncID is the cross-copy identity; LocalID is only meaningful in the
// local store.
type Activity struct {
	LocalID   int64
	SyncID    string
	Name      string
	Goal      float64
	GoalScale GoalScale
	Color     string
	CreatedAt int64
	UpdatedAt int64
	DeletedAt *int64
}

// ActivityPatch carries a partial update. Nil fields are left unchanged.
type ActivityPatch struct {
	Name      *string
	Goal      *float64
	GoalScale *GoalScale
	Color     *string
}

// IsDeleted reports whether the activity is a tombstone.
func (a *Activity) IsDeleted() bool {
	return a.DeletedAt != nil
}

// Validate checks the fields a user-facing create or update must satisfy.
func (a *Activity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("activity %s: name is required: %w", a.SyncID, ErrValidation)
	}
	if math.IsNaN(a.Goal) || math.IsInf(a.Goal, 0) || a.Goal < 0 {
		return fmt.Errorf("activity %s: goal must be a finite number >= 0, got %v: %w", a.SyncID, a.Goal, ErrValidation)
	}
	if !ValidGoalScales[a.GoalScale] {
		return fmt.Errorf("activity %s: goal scale %q must be one of daily, weekly, monthly, yearly: %w",
			a.SyncID, a.GoalScale, ErrValidation)
	}
	return nil
}

// ApplyPatch merges the non-nil patch fields into the activity.
func (a *Activity) ApplyPatch(p ActivityPatch) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Goal != nil {
		a.Goal = *p.Goal
	}
	if p.GoalScale != nil {
		a.GoalScale = *p.GoalScale
	}
	if p.Color != nil {
		a.Color = *p.Color
	}
}

// Touch stamps a mutation at now.
func (a *Activity) Touch(now int64) {
	a.UpdatedAt = NextUpdatedAt(a.UpdatedAt, now)
}

// MarkDeleted tombstones the activity at now. The tombstone time and the
// refreshed updated_at are the same instant.
func (a *Activity) MarkDeleted(now int64) {
	a.Touch(now)
	a.DeletedAt = Int64Ptr(a.UpdatedAt)
}

// SameValue reports whether two activities agree on every replicated field.
// LocalID is ignored.
func (a *Activity) SameValue(b *Activity) bool {
	return a.SyncID == b.SyncID &&
		a.Name == b.Name &&
		a.Goal == b.Goal &&
		a.GoalScale == b.GoalScale &&
		a.Color == b.Color &&
		a.CreatedAt == b.CreatedAt &&
		a.UpdatedAt == b.UpdatedAt &&
		EqualInt64Ptr(a.DeletedAt, b.DeletedAt)
}
