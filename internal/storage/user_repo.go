package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

func (s *Store) UpsertUser(ctx context.Context, id int64, at time.Time) error {
	_, err := s.exec(ctx, `
		INSERT INTO users (id, xp, created_at) VALUES (?, 0, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, dbTime(at))
	return wrapErr("user upsert", err)
}

func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	row := s.queryRow(ctx, `SELECT id, xp, created_at FROM users WHERE id = ?`, id)
	var u User
	if err := row.Scan(&u.ID, &u.XP, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("user get", ErrNotFound)
		}
		return nil, wrapErr("user get", err)
	}
	return &u, nil
}

// AddXP applies delta to the user's ledger, flooring at zero, and mirrors the
// result into the profile. It returns the new total.
func (s *Store) AddXP(ctx context.Context, userID int64, delta int) (int, error) {
	row := s.queryRow(ctx, `
		UPDATE users
		SET xp = CASE WHEN xp + ? < 0 THEN 0 ELSE xp + ? END
		WHERE id = ?
		RETURNING xp
	`, delta, delta, userID)
	var xp int
	if err := row.Scan(&xp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, wrapErr("user add xp", ErrNotFound)
		}
		return 0, wrapErr("user add xp", err)
	}
	if _, err := s.exec(ctx, `UPDATE profiles SET xp = ? WHERE user_id = ?`, xp, userID); err != nil {
		return 0, wrapErr("profile sync xp", err)
	}
	return xp, nil
}

func (s *Store) UpsertProfile(ctx context.Context, userID int64, defaultName, defaultTitle string) error {
	_, err := s.exec(ctx, `
		INSERT INTO profiles (user_id, name, xp, title)
		SELECT id, ?, xp, ? FROM users WHERE id = ?
		ON CONFLICT(user_id) DO NOTHING
	`, defaultName, defaultTitle, userID)
	return wrapErr("profile upsert", err)
}

func (s *Store) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	row := s.queryRow(ctx, `SELECT user_id, name, kingdom, xp, title FROM profiles WHERE user_id = ?`, userID)
	var p Profile
	if err := row.Scan(&p.UserID, &p.Name, &p.Kingdom, &p.XP, &p.Title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("profile get", ErrNotFound)
		}
		return nil, wrapErr("profile get", err)
	}
	return &p, nil
}

func (s *Store) SetProfileName(ctx context.Context, userID int64, name string) error {
	return s.updateProfile(ctx, "profile set name", `UPDATE profiles SET name = ? WHERE user_id = ?`, name, userID)
}

func (s *Store) SetKingdomName(ctx context.Context, userID int64, name string) error {
	return s.updateProfile(ctx, "profile set kingdom", `UPDATE profiles SET kingdom = ? WHERE user_id = ?`, name, userID)
}

func (s *Store) SetProfileTitle(ctx context.Context, userID int64, title string) error {
	return s.updateProfile(ctx, "profile set title", `UPDATE profiles SET title = ? WHERE user_id = ?`, title, userID)
}

func (s *Store) updateProfile(ctx context.Context, op, query string, value string, userID int64) error {
	res, err := s.exec(ctx, query, value, userID)
	if err != nil {
		return wrapErr(op, err)
	}
	return wrapErr(op, requireRow(res))
}

// requireRow turns a zero-row update into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
