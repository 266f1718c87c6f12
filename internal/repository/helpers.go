package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// nullableInt64 converts a sql.NullInt64 into a *int64 (nil for SQL NULL).
func nullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

// nullableInt64ToValue converts a *int64 to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableInt64ToValue(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// encodeIDList stores an id list as a JSON array. A nil list is stored as [].
func encodeIDList(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encoding activity ids: %w", err)
	}
	return string(b), nil
}

func decodeIDList(raw string) ([]string, error) {
	ids := []string{}
	if raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decoding activity ids: %w", err)
	}
	return ids, nil
}

// rowsAffectedOrNotFound maps a zero-row UPDATE to ErrNotFound.
func rowsAffectedOrNotFound(res sql.Result, what, syncID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected for %s %s: %w", what, syncID, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, syncID, ErrNotFound)
	}
	return nil
}
