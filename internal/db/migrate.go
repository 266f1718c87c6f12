package db

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is one numbered schema step. Steps are applied in order, each in
// its own transaction, and recorded in schema_migrations so they run once.
// The entity column sets here and in the tabular layouts change together:
// a new column is a new migration plus a new layout version, never an edit.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "activities and sessions",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS activities (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				sync_id    TEXT NOT NULL UNIQUE,
				name       TEXT NOT NULL,
				goal       REAL NOT NULL DEFAULT 0,
				goal_scale TEXT NOT NULL DEFAULT 'daily'
				           CHECK(goal_scale IN ('daily','weekly','monthly','yearly')),
				color      TEXT NOT NULL DEFAULT '',
				created_at INTEGER NOT NULL,
				updated_at INTEGER NOT NULL,
				deleted_at INTEGER
			)`,
			`CREATE INDEX IF NOT EXISTS idx_activities_deleted ON activities(deleted_at)`,

			`CREATE TABLE IF NOT EXISTS sessions (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				sync_id      TEXT NOT NULL UNIQUE,
				name         TEXT NOT NULL,
				start_time   INTEGER NOT NULL,
				end_time     INTEGER NOT NULL,
				activity_ids TEXT NOT NULL DEFAULT '[]',
				updated_at   INTEGER NOT NULL,
				deleted_at   INTEGER
			)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_deleted ON sessions(deleted_at)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_time)`,
		},
	},
	{
		version: 2,
		name:    "session activity reference index",
		stmts: []string{
			// Activity ids are weak references, so there is deliberately no
			// foreign key to activities.
			`CREATE TABLE IF NOT EXISTS session_activity_refs (
				session_sync_id  TEXT NOT NULL REFERENCES sessions(sync_id) ON DELETE CASCADE,
				activity_sync_id TEXT NOT NULL,
				position         INTEGER NOT NULL,
				PRIMARY KEY (session_sync_id, position)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_refs_activity ON session_activity_refs(activity_sync_id)`,
			// Backfill from any sessions written before the index existed.
			`INSERT OR IGNORE INTO session_activity_refs (session_sync_id, activity_sync_id, position)
				SELECT s.sync_id, j.value, j.key
				FROM sessions s, json_each(s.activity_ids) j
				WHERE json_valid(s.activity_ids)`,
		},
	},
}

// Migrate applies every migration newer than the recorded schema version.
func Migrate(db *sql.DB) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration version, or 0.
func SchemaVersion(db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return int(v.Int64), nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for i, stmt := range m.stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	committed = true
	return nil
}
