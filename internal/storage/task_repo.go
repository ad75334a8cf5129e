package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

const taskColumns = `t.id, t.mission_id, t.description, t.xp, t.status, t.deadline, t.completed_at, t.created_at`

func (s *Store) CreateTask(ctx context.Context, in TaskInsert) (*Task, error) {
	row := s.queryRow(ctx, `
		INSERT INTO tasks (mission_id, description, xp, status, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, in.MissionID, in.Description, in.XP, string(TaskPending), dbTimePtr(in.Deadline), dbTime(in.CreatedAt))
	var id int64
	if err := row.Scan(&id); err != nil {
		return nil, wrapErr("task insert", err)
	}
	return s.GetTask(ctx, id)
}

func (s *Store) GetTask(ctx context.Context, id int64) (*Task, error) {
	t, err := scanTask(s.queryRow(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("task get", ErrNotFound)
		}
		return nil, wrapErr("task get", err)
	}
	return t, nil
}

// FindTasks returns the user's tasks matching the filter, oldest first.
func (s *Store) FindTasks(ctx context.Context, f TaskFilter) ([]Task, error) {
	var (
		where = []string{"m.user_id = ?"}
		args  = []any{f.UserID}
	)
	if f.MissionID != nil {
		where = append(where, "t.mission_id = ?")
		args = append(args, *f.MissionID)
	}
	if f.Description != "" {
		where = append(where, "t.description = ?")
		args = append(args, f.Description)
	}
	if len(f.Statuses) > 0 {
		where = append(where, "t.status IN ("+placeholders(len(f.Statuses))+")")
		for _, st := range f.Statuses {
			args = append(args, string(st))
		}
	}

	rows, err := s.query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t
		JOIN missions m ON m.id = t.mission_id
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY t.id ASC
	`, args...)
	if err != nil {
		return nil, wrapErr("task find", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, wrapErr("task scan", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("task rows", err)
	}
	return out, nil
}

func (s *Store) ListTasksByStatus(ctx context.Context, userID int64, statuses ...TaskStatus) ([]Task, error) {
	return s.FindTasks(ctx, TaskFilter{UserID: userID, Statuses: statuses})
}

// CompleteTask moves a task to completed if it is currently in one of the from
// statuses (pending when none are given). Losing a race against the decay
// sweep surfaces as ErrNotFound.
func (s *Store) CompleteTask(ctx context.Context, id int64, at time.Time, from ...TaskStatus) error {
	if len(from) == 0 {
		from = []TaskStatus{TaskPending}
	}
	args := []any{string(TaskCompleted), dbTime(at), id}
	for _, st := range from {
		args = append(args, string(st))
	}
	res, err := s.exec(ctx, `
		UPDATE tasks SET status = ?, completed_at = ?
		WHERE id = ? AND status IN (`+placeholders(len(from))+`)
	`, args...)
	if err != nil {
		return wrapErr("task complete", err)
	}
	return wrapErr("task complete", requireRow(res))
}

// SweepExpireTasks turns every pending task whose deadline is before now into
// a zombie in one statement and reports how many rows changed.
func (s *Store) SweepExpireTasks(ctx context.Context, now time.Time) (int, error) {
	res, err := s.exec(ctx, `
		UPDATE tasks SET status = ?
		WHERE status = ? AND deadline IS NOT NULL AND deadline < ?
	`, string(TaskZombie), string(TaskPending), dbTime(now))
	if err != nil {
		return 0, wrapErr("task sweep", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapErr("task sweep rows", err)
	}
	return int(n), nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func scanTask(row scanner) (*Task, error) {
	var (
		t           Task
		status      string
		deadline    sql.NullTime
		completedAt sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.MissionID, &t.Description, &t.XP, &status, &deadline, &completedAt, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Status = TaskStatus(status)
	if deadline.Valid {
		v := deadline.Time
		t.Deadline = &v
	}
	if completedAt.Valid {
		v := completedAt.Time
		t.CompletedAt = &v
	}
	return &t, nil
}
