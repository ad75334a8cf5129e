package storage

import (
	"context"
	"database/sql"
	"time"
)

// Repository is the persistence boundary of the lifecycle engine. Store is the
// SQL implementation; every method is safe to call inside Atomic.
type Repository interface {
	UpsertUser(ctx context.Context, id int64, at time.Time) error
	GetUser(ctx context.Context, id int64) (*User, error)
	AddXP(ctx context.Context, userID int64, delta int) (int, error)

	UpsertProfile(ctx context.Context, userID int64, defaultName, defaultTitle string) error
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	SetProfileName(ctx context.Context, userID int64, name string) error
	SetKingdomName(ctx context.Context, userID int64, name string) error
	SetProfileTitle(ctx context.Context, userID int64, title string) error

	CreateArea(ctx context.Context, name string, health int) (*Area, error)
	GetArea(ctx context.Context, id int64) (*Area, error)
	FindAreaByName(ctx context.Context, name string) (*Area, error)
	ListAreas(ctx context.Context) ([]Area, error)
	AdjustAreaHealth(ctx context.Context, areaID int64, delta int, ceiling int) (int, error)

	CreateMission(ctx context.Context, in MissionInsert) (*Mission, error)
	GetMission(ctx context.Context, id int64) (*Mission, error)
	FindPendingMission(ctx context.Context, userID int64, description string) (*Mission, error)
	ListPendingMissions(ctx context.Context, userID int64) ([]Mission, error)
	CountCompletedMissions(ctx context.Context, userID int64) (int, error)
	CompleteMission(ctx context.Context, id int64, at time.Time) error

	CreateTask(ctx context.Context, in TaskInsert) (*Task, error)
	GetTask(ctx context.Context, id int64) (*Task, error)
	FindTasks(ctx context.Context, f TaskFilter) ([]Task, error)
	ListTasksByStatus(ctx context.Context, userID int64, statuses ...TaskStatus) ([]Task, error)
	CompleteTask(ctx context.Context, id int64, at time.Time, from ...TaskStatus) error
	SweepExpireTasks(ctx context.Context, now time.Time) (int, error)

	// Atomic runs fn in a single transaction. Calls nest: inside fn the
	// repository passed in is already transactional.
	Atomic(ctx context.Context, fn func(repo Repository) error) error
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	q  querier
	d  dialect
	tx bool
}

var _ Repository = (*Store)(nil)

func newStore(db *sql.DB, d dialect) *Store {
	return &Store{db: db, q: db, d: d}
}

func (s *Store) Driver() string { return s.d.driver }

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Atomic(ctx context.Context, fn func(repo Repository) error) error {
	if s.tx {
		return fn(s)
	}
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&Store{db: s.db, q: tx, d: s.d, tx: true})
	})
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.q.ExecContext(ctx, s.d.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.q.QueryContext(ctx, s.d.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.q.QueryRowContext(ctx, s.d.rebind(query), args...)
}

// dbTime normalizes timestamps before they are written or compared: UTC with
// second precision keeps sqlite's text encoding lexically ordered.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func dbTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := dbTime(*t)
	return &v
}

type scanner interface {
	Scan(dest ...any) error
}
