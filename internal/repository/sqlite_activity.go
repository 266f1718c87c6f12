package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

// NewSQLiteActivityRepo creates a new SQLiteActivityRepo over a *sql.DB or *sql.Tx.
func NewSQLiteActivityRepo(db db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: db}
}

const activityColumns = `id, sync_id, name, goal, goal_scale, color, created_at, updated_at, deleted_at`

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	query := `INSERT INTO activities (sync_id, name, goal, goal_scale, color, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		a.SyncID,
		a.Name,
		a.Goal,
		string(a.GoalScale),
		a.Color,
		a.CreatedAt,
		a.UpdatedAt,
		nullableInt64ToValue(a.DeletedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting activity %s: %w", a.SyncID, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		a.LocalID = id
	}
	return nil
}

func (r *SQLiteActivityRepo) GetBySyncID(ctx context.Context, syncID string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE sync_id = ?`
	a, err := scanActivity(r.db.QueryRowContext(ctx, query, syncID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity %s: %w", syncID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning activity %s: %w", syncID, err)
	}
	return a, nil
}

func (r *SQLiteActivityRepo) List(ctx context.Context, includeDeleted bool) ([]*domain.Activity, error) {
	var query string
	if includeDeleted {
		query = `SELECT ` + activityColumns + ` FROM activities ORDER BY id`
	} else {
		query = `SELECT ` + activityColumns + ` FROM activities WHERE deleted_at IS NULL ORDER BY id`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return activities, nil
}

// Update overwrites every replicated field of the row matching a.SyncID,
// including the timestamps exactly as given.
func (r *SQLiteActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	query := `UPDATE activities SET name = ?, goal = ?, goal_scale = ?, color = ?,
		created_at = ?, updated_at = ?, deleted_at = ?
		WHERE sync_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.Name,
		a.Goal,
		string(a.GoalScale),
		a.Color,
		a.CreatedAt,
		a.UpdatedAt,
		nullableInt64ToValue(a.DeletedAt),
		a.SyncID,
	)
	if err != nil {
		return fmt.Errorf("updating activity %s: %w", a.SyncID, err)
	}
	return rowsAffectedOrNotFound(res, "activity", a.SyncID)
}

func (r *SQLiteActivityRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM activities`); err != nil {
		return fmt.Errorf("clearing activities: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var a domain.Activity
	var scale string
	var deletedAt sql.NullInt64
	if err := row.Scan(
		&a.LocalID, &a.SyncID, &a.Name, &a.Goal, &scale, &a.Color,
		&a.CreatedAt, &a.UpdatedAt, &deletedAt,
	); err != nil {
		return nil, err
	}
	a.GoalScale = domain.GoalScale(scale)
	a.DeletedAt = nullableInt64(deletedAt)
	return &a, nil
}
