package domain

import "time"

// Millis converts t to Unix epoch milliseconds, the timestamp unit used by
// every persisted and replicated field.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds back to a UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// NextUpdatedAt returns the updated_at to stamp on a mutation happening at
// now. It never returns a value <= prev, so updated_at strictly increases
// even when two mutations land in the same millisecond.
func NextUpdatedAt(prev, now int64) int64 {
	if now > prev {
		return now
	}
	return prev + 1
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}

// EqualInt64Ptr reports whether two nullable timestamps hold the same value.
func EqualInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
