package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo over a *sql.DB or *sql.Tx.
func NewSQLiteSessionRepo(db db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

const sessionColumns = `id, sync_id, name, start_time, end_time, activity_ids, updated_at, deleted_at`

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	ids, err := encodeIDList(s.ActivityIDs)
	if err != nil {
		return err
	}
	query := `INSERT INTO sessions (sync_id, name, start_time, end_time, activity_ids, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		s.SyncID,
		s.Name,
		s.StartTime,
		s.EndTime,
		ids,
		s.UpdatedAt,
		nullableInt64ToValue(s.DeletedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting session %s: %w", s.SyncID, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		s.LocalID = id
	}
	return r.writeRefs(ctx, s)
}

func (r *SQLiteSessionRepo) GetBySyncID(ctx context.Context, syncID string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE sync_id = ?`
	s, err := scanSession(r.db.QueryRowContext(ctx, query, syncID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", syncID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session %s: %w", syncID, err)
	}
	return s, nil
}

func (r *SQLiteSessionRepo) List(ctx context.Context, includeDeleted bool) ([]*domain.Session, error) {
	var query string
	if includeDeleted {
		query = `SELECT ` + sessionColumns + ` FROM sessions ORDER BY id`
	} else {
		query = `SELECT ` + sessionColumns + ` FROM sessions WHERE deleted_at IS NULL ORDER BY id`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// ListReferencing returns every session, tombstoned or not, whose activity
// list contains activitySyncID. It reads the reference index rather than
// scanning activity lists.
func (r *SQLiteSessionRepo) ListReferencing(ctx context.Context, activitySyncID string) ([]*domain.Session, error) {
	query := `SELECT s.id, s.sync_id, s.name, s.start_time, s.end_time, s.activity_ids, s.updated_at, s.deleted_at
		FROM sessions s
		WHERE s.sync_id IN (
			SELECT session_sync_id FROM session_activity_refs WHERE activity_sync_id = ?
		)
		ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, query, activitySyncID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions referencing activity %s: %w", activitySyncID, err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// Update overwrites every replicated field of the row matching s.SyncID and
// rewrites its reference index entries.
func (r *SQLiteSessionRepo) Update(ctx context.Context, s *domain.Session) error {
	ids, err := encodeIDList(s.ActivityIDs)
	if err != nil {
		return err
	}
	query := `UPDATE sessions SET name = ?, start_time = ?, end_time = ?, activity_ids = ?,
		updated_at = ?, deleted_at = ?
		WHERE sync_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name,
		s.StartTime,
		s.EndTime,
		ids,
		s.UpdatedAt,
		nullableInt64ToValue(s.DeletedAt),
		s.SyncID,
	)
	if err != nil {
		return fmt.Errorf("updating session %s: %w", s.SyncID, err)
	}
	if err := rowsAffectedOrNotFound(res, "session", s.SyncID); err != nil {
		return err
	}
	return r.writeRefs(ctx, s)
}

func (r *SQLiteSessionRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_activity_refs`); err != nil {
		return fmt.Errorf("clearing session activity refs: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clearing sessions: %w", err)
	}
	return nil
}

// writeRefs replaces the index entries for s with its current activity list.
func (r *SQLiteSessionRepo) writeRefs(ctx context.Context, s *domain.Session) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM session_activity_refs WHERE session_sync_id = ?`, s.SyncID); err != nil {
		return fmt.Errorf("clearing refs for session %s: %w", s.SyncID, err)
	}
	for i, activityID := range s.ActivityIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO session_activity_refs (session_sync_id, activity_sync_id, position) VALUES (?, ?, ?)`,
			s.SyncID, activityID, i); err != nil {
			return fmt.Errorf("indexing activity %s for session %s: %w", activityID, s.SyncID, err)
		}
	}
	return nil
}

func scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var rawIDs string
	var deletedAt sql.NullInt64
	if err := row.Scan(
		&s.LocalID, &s.SyncID, &s.Name, &s.StartTime, &s.EndTime, &rawIDs, &s.UpdatedAt, &deletedAt,
	); err != nil {
		return nil, err
	}
	ids, err := decodeIDList(rawIDs)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", s.SyncID, err)
	}
	s.ActivityIDs = ids
	s.DeletedAt = nullableInt64(deletedAt)
	return &s, nil
}
