package storage

import (
	"context"
	"database/sql"
	"strings"
)

// Migrate creates the schema for the given driver. Safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	d, err := dialectFor(driver)
	if err != nil {
		return err
	}
	r := strings.NewReplacer("{{pk}}", d.pk, "{{ts}}", d.ts)
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			xp INTEGER NOT NULL DEFAULT 0,
			created_at {{ts}} NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			kingdom TEXT NOT NULL DEFAULT 'Unnamed Kingdom',
			xp INTEGER NOT NULL DEFAULT 0,
			title TEXT NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS areas (
			id {{pk}},
			name TEXT NOT NULL UNIQUE,
			health INTEGER NOT NULL DEFAULT 100
		);`,
		`CREATE TABLE IF NOT EXISTS missions (
			id {{pk}},
			user_id BIGINT NOT NULL,
			description TEXT NOT NULL,
			area_id BIGINT NULL,
			priority INTEGER NOT NULL DEFAULT 1,
			deadline {{ts}} NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			completion_date {{ts}} NULL,
			created_at {{ts}} NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id),
			FOREIGN KEY(area_id) REFERENCES areas(id)
		);`,
		// A description identifies a mission only while it is pending.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_missions_pending_description
			ON missions(user_id, description) WHERE completed = FALSE;`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id {{pk}},
			mission_id BIGINT NOT NULL,
			description TEXT NOT NULL,
			xp INTEGER NOT NULL DEFAULT 5,
			status TEXT NOT NULL DEFAULT 'pending',
			deadline {{ts}} NULL,
			completed_at {{ts}} NULL,
			created_at {{ts}} NOT NULL,
			FOREIGN KEY(mission_id) REFERENCES missions(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_missions_user_id ON missions(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_mission_id ON tasks(mission_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status_deadline ON tasks(status, deadline);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, r.Replace(stmt)); err != nil {
			return wrapErr("migrate", err)
		}
	}
	return nil
}
