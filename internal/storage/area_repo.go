package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateArea inserts a new area. A duplicate name yields ErrConflict without
// aborting an enclosing transaction.
func (s *Store) CreateArea(ctx context.Context, name string, health int) (*Area, error) {
	row := s.queryRow(ctx, `
		INSERT INTO areas (name, health) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
		RETURNING id, name, health
	`, name, health)
	a, err := scanArea(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("area create", ErrConflict)
		}
		return nil, wrapErr("area create", err)
	}
	return a, nil
}

func (s *Store) GetArea(ctx context.Context, id int64) (*Area, error) {
	return s.getArea(ctx, "area get", `SELECT id, name, health FROM areas WHERE id = ?`, id)
}

func (s *Store) FindAreaByName(ctx context.Context, name string) (*Area, error) {
	return s.getArea(ctx, "area find", `SELECT id, name, health FROM areas WHERE name = ?`, name)
}

func (s *Store) getArea(ctx context.Context, op, query string, arg any) (*Area, error) {
	a, err := scanArea(s.queryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr(op, ErrNotFound)
		}
		return nil, wrapErr(op, err)
	}
	return a, nil
}

func (s *Store) ListAreas(ctx context.Context) ([]Area, error) {
	rows, err := s.query(ctx, `SELECT id, name, health FROM areas ORDER BY id ASC`)
	if err != nil {
		return nil, wrapErr("area list", err)
	}
	defer rows.Close()

	var out []Area
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, wrapErr("area scan", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("area rows", err)
	}
	return out, nil
}

// AdjustAreaHealth adds delta to the area's health, never below zero and,
// when ceiling > 0, never above ceiling. It returns the new health.
func (s *Store) AdjustAreaHealth(ctx context.Context, areaID int64, delta int, ceiling int) (int, error) {
	expr := "CASE WHEN health + ? < 0 THEN 0 ELSE health + ? END"
	args := []any{delta, delta}
	if ceiling > 0 {
		expr = "CASE WHEN health + ? < 0 THEN 0 WHEN health + ? > ? THEN ? ELSE health + ? END"
		args = []any{delta, delta, ceiling, ceiling, delta}
	}
	args = append(args, areaID)

	row := s.queryRow(ctx, fmt.Sprintf(`UPDATE areas SET health = %s WHERE id = ? RETURNING health`, expr), args...)
	var health int
	if err := row.Scan(&health); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, wrapErr("area adjust health", ErrNotFound)
		}
		return 0, wrapErr("area adjust health", err)
	}
	return health, nil
}

func scanArea(row scanner) (*Area, error) {
	var a Area
	if err := row.Scan(&a.ID, &a.Name, &a.Health); err != nil {
		return nil, err
	}
	return &a, nil
}
