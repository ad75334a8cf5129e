package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const missionColumns = `id, user_id, description, area_id, priority, deadline, completed, completion_date, created_at`

// CreateMission inserts a pending mission. A pending mission with the same
// description for the same user yields ErrConflict.
func (s *Store) CreateMission(ctx context.Context, in MissionInsert) (*Mission, error) {
	row := s.queryRow(ctx, `
		INSERT INTO missions (user_id, description, area_id, priority, deadline, completed, created_at)
		VALUES (?, ?, ?, ?, ?, FALSE, ?)
		ON CONFLICT(user_id, description) WHERE completed = FALSE DO NOTHING
		RETURNING id
	`, in.UserID, in.Description, in.AreaID, in.Priority, dbTime(in.Deadline), dbTime(in.CreatedAt))
	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("mission create", ErrConflict)
		}
		return nil, wrapErr("mission create", err)
	}
	return s.GetMission(ctx, id)
}

func (s *Store) GetMission(ctx context.Context, id int64) (*Mission, error) {
	m, err := scanMission(s.queryRow(ctx, `SELECT `+missionColumns+` FROM missions WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("mission get", ErrNotFound)
		}
		return nil, wrapErr("mission get", err)
	}
	return m, nil
}

func (s *Store) FindPendingMission(ctx context.Context, userID int64, description string) (*Mission, error) {
	m, err := scanMission(s.queryRow(ctx, `
		SELECT `+missionColumns+`
		FROM missions
		WHERE user_id = ? AND description = ? AND completed = FALSE
	`, userID, description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("mission find pending", ErrNotFound)
		}
		return nil, wrapErr("mission find pending", err)
	}
	return m, nil
}

// ListPendingMissions returns the user's pending missions in insertion order.
func (s *Store) ListPendingMissions(ctx context.Context, userID int64) ([]Mission, error) {
	rows, err := s.query(ctx, `
		SELECT `+missionColumns+`
		FROM missions
		WHERE user_id = ? AND completed = FALSE
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, wrapErr("mission list pending", err)
	}
	defer rows.Close()

	var out []Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, wrapErr("mission scan", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("mission rows", err)
	}
	return out, nil
}

func (s *Store) CountCompletedMissions(ctx context.Context, userID int64) (int, error) {
	row := s.queryRow(ctx, `SELECT COUNT(*) FROM missions WHERE user_id = ? AND completed = TRUE`, userID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, wrapErr("mission count completed", err)
	}
	return n, nil
}

// CompleteMission flips a pending mission to completed. The update is
// conditional on completed = FALSE so a mission is credited at most once.
func (s *Store) CompleteMission(ctx context.Context, id int64, at time.Time) error {
	res, err := s.exec(ctx, `
		UPDATE missions SET completed = TRUE, completion_date = ?
		WHERE id = ? AND completed = FALSE
	`, dbTime(at), id)
	if err != nil {
		return wrapErr("mission complete", err)
	}
	if err := requireRow(res); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return wrapErr("mission complete", err)
		}
		if _, getErr := s.GetMission(ctx, id); getErr != nil {
			return getErr
		}
		return wrapErr("mission complete", ErrAlreadyCompleted)
	}
	return nil
}

func scanMission(row scanner) (*Mission, error) {
	var (
		m              Mission
		areaID         sql.NullInt64
		completionDate sql.NullTime
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.Description, &areaID, &m.Priority, &m.Deadline,
		&m.Completed, &completionDate, &m.CreatedAt); err != nil {
		return nil, err
	}
	if areaID.Valid {
		v := areaID.Int64
		m.AreaID = &v
	}
	if completionDate.Valid {
		v := completionDate.Time
		m.CompletionDate = &v
	}
	return &m, nil
}
