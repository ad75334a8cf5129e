package engine

import (
	"context"
	"errors"
	"time"

	"bulletquest/internal/storage"
)

const hintCreateArea = "create the area first with /agregar_area"

type CreateMissionInput struct {
	UserID      int64
	Description string
	AreaName    string // optional
	Priority    Priority
	Deadline    *time.Time // defaults to now + grace period
}

type AddTaskInput struct {
	UserID       int64
	Mission      string // description of a pending mission
	Description  string
	DaysUntilDue int        // 0 means no deadline
	Deadline     *time.Time // overrides DaysUntilDue when set
}

// CreateArea creates a life area. Creating an existing name is not an error:
// the existing area is returned.
func (s *Service) CreateArea(ctx context.Context, name string) (*storage.Area, error) {
	n, err := normalizeText("area", name)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var area *storage.Area
	err = s.repo.Atomic(ctx, func(repo storage.Repository) error {
		var err error
		area, err = ensureArea(ctx, repo, n)
		return err
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return area, nil
}

func ensureArea(ctx context.Context, repo storage.Repository, name string) (*storage.Area, error) {
	a, err := repo.CreateArea(ctx, name, DefaultAreaHealth)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, storage.ErrConflict) {
		return nil, unavailable(err)
	}
	a, err = repo.FindAreaByName(ctx, name)
	if err != nil {
		return nil, translate(err, "area", name, "")
	}
	return a, nil
}

// CreateMission creates a pending mission. Nothing is written when the area is
// missing or the description is already pending.
func (s *Service) CreateMission(ctx context.Context, in CreateMissionInput) (*storage.Mission, error) {
	desc, err := normalizeText("description", in.Description)
	if err != nil {
		return nil, err
	}
	if !in.Priority.IsValid() {
		return nil, ValidationError{Field: "priority", Reason: "use low, medium or high"}
	}
	areaName := ""
	if in.AreaName != "" {
		if areaName, err = normalizeText("area", in.AreaName); err != nil {
			return nil, err
		}
	}

	now := s.now()
	deadline := now.Add(s.opts.GracePeriod)
	if in.Deadline != nil {
		deadline = *in.Deadline
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var m *storage.Mission
	err = s.repo.Atomic(ctx, func(repo storage.Repository) error {
		var areaID *int64
		if areaName != "" {
			a, err := repo.FindAreaByName(ctx, areaName)
			if err != nil {
				return translate(err, "area", areaName, hintCreateArea)
			}
			areaID = &a.ID
		}
		if err := s.ensureUser(ctx, repo, in.UserID); err != nil {
			return err
		}

		var err error
		m, err = repo.CreateMission(ctx, storage.MissionInsert{
			UserID:      in.UserID,
			Description: desc,
			AreaID:      areaID,
			Priority:    int(in.Priority),
			Deadline:    deadline,
			CreatedAt:   now,
		})
		return translate(err, "mission", desc, "complete the pending one first")
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return m, nil
}

// AssignRandomMission picks a catalog mission the user does not already have
// pending. Catalog areas are created on demand.
func (s *Service) AssignRandomMission(ctx context.Context, userID int64) (*storage.Mission, error) {
	entries := s.opts.Catalog.Missions
	order := s.perm(len(entries))
	now := s.now()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var m *storage.Mission
	err := s.repo.Atomic(ctx, func(repo storage.Repository) error {
		if err := s.ensureUser(ctx, repo, userID); err != nil {
			return err
		}
		for _, i := range order {
			e := entries[i]
			var areaID *int64
			if e.Area != "" {
				a, err := ensureArea(ctx, repo, e.Area)
				if err != nil {
					return err
				}
				areaID = &a.ID
			}
			created, err := repo.CreateMission(ctx, storage.MissionInsert{
				UserID:      userID,
				Description: e.Description,
				AreaID:      areaID,
				Priority:    int(e.Priority),
				Deadline:    now.Add(s.opts.GracePeriod),
				CreatedAt:   now,
			})
			if errors.Is(err, storage.ErrConflict) {
				continue
			}
			if err != nil {
				return unavailable(err)
			}
			m = created
			return nil
		}
		return ConflictError{Entity: "mission", Key: "catalog", Hint: "every catalog mission is already pending; complete one first"}
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return m, nil
}

func (s *Service) ListPendingMissions(ctx context.Context, userID int64) ([]storage.Mission, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	list, err := s.repo.ListPendingMissions(ctx, userID)
	if err != nil {
		return nil, unavailable(err)
	}
	return list, nil
}

// AddTask attaches a task to one of the user's pending missions.
func (s *Service) AddTask(ctx context.Context, in AddTaskInput) (*storage.Task, error) {
	mission, err := normalizeText("mission", in.Mission)
	if err != nil {
		return nil, err
	}
	desc, err := normalizeText("description", in.Description)
	if err != nil {
		return nil, err
	}
	if in.DaysUntilDue < 0 {
		return nil, ValidationError{Field: "days", Reason: "must be zero or more"}
	}

	now := s.now()
	var deadline *time.Time
	switch {
	case in.Deadline != nil:
		d := *in.Deadline
		deadline = &d
	case in.DaysUntilDue > 0:
		d := now.Add(time.Duration(in.DaysUntilDue) * 24 * time.Hour)
		deadline = &d
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var t *storage.Task
	err = s.repo.Atomic(ctx, func(repo storage.Repository) error {
		m, err := repo.FindPendingMission(ctx, in.UserID, mission)
		if err != nil {
			return translate(err, "mission", mission, "tasks need a pending mission; see /misiones")
		}
		t, err = repo.CreateTask(ctx, storage.TaskInsert{
			MissionID:   m.ID,
			Description: desc,
			XP:          s.opts.DefaultTaskXP,
			Deadline:    deadline,
			CreatedAt:   now,
		})
		return unavailable(err)
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return t, nil
}
