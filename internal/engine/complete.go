package engine

import (
	"context"
	"fmt"

	"bulletquest/internal/storage"
)

type MissionResult struct {
	Mission    storage.Mission
	XPGained   int
	WasLate    bool
	AreaName   string // empty when the mission has no area
	AreaHealth int
	RankBefore Rank
	RankAfter  Rank
	TotalXP    int
}

func (r MissionResult) RankUp() bool { return r.RankBefore != r.RankAfter }

type CompleteTaskInput struct {
	UserID      int64
	Mission     string // optional; narrows the lookup to one pending mission
	Description string
}

type TaskResult struct {
	Task       storage.Task
	XPGained   int
	WasZombie  bool
	RankBefore Rank
	RankAfter  Rank
	TotalXP    int
}

func (r TaskResult) RankUp() bool { return r.RankBefore != r.RankAfter }

// CompleteMission completes the user's pending mission with the given
// description.
func (s *Service) CompleteMission(ctx context.Context, userID int64, description string) (*MissionResult, error) {
	desc, err := normalizeText("description", description)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var res *MissionResult
	err = s.repo.Atomic(ctx, func(repo storage.Repository) error {
		m, err := repo.FindPendingMission(ctx, userID, desc)
		if err != nil {
			return translate(err, "mission", desc, "see /misiones for pending missions")
		}
		res, err = s.completeMission(ctx, repo, m)
		return err
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return res, nil
}

func (s *Service) CompleteMissionByID(ctx context.Context, userID, missionID int64) (*MissionResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := fmt.Sprintf("#%d", missionID)
	var res *MissionResult
	err := s.repo.Atomic(ctx, func(repo storage.Repository) error {
		m, err := repo.GetMission(ctx, missionID)
		if err != nil {
			return translate(err, "mission", key, "")
		}
		if m.UserID != userID {
			return NotFoundError{Entity: "mission", Key: key, Err: storage.ErrNotFound}
		}
		if m.Completed {
			return NotFoundError{Entity: "mission", Key: key, Err: storage.ErrAlreadyCompleted}
		}
		res, err = s.completeMission(ctx, repo, m)
		return err
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return res, nil
}

// completeMission applies the completion inside the caller's transaction:
// flag the mission, credit XP with the late penalty, restore area health.
func (s *Service) completeMission(ctx context.Context, repo storage.Repository, m *storage.Mission) (*MissionResult, error) {
	now := s.now()
	p := Priority(m.Priority)
	penalty := LatePenalty(now, m.Deadline)
	gain := XPForPriority(p) + penalty

	if err := repo.CompleteMission(ctx, m.ID, now); err != nil {
		return nil, translate(err, "mission", m.Description, "")
	}
	total, before, after, err := grantXP(ctx, repo, m.UserID, gain)
	if err != nil {
		return nil, err
	}

	res := &MissionResult{
		XPGained:   gain,
		WasLate:    penalty < 0,
		RankBefore: before,
		RankAfter:  after,
		TotalXP:    total,
	}
	if m.AreaID != nil {
		health, err := repo.AdjustAreaHealth(ctx, *m.AreaID, AreaHealthDelta(p), s.opts.AreaHealthCeiling)
		if err != nil {
			return nil, translate(err, "area", fmt.Sprintf("#%d", *m.AreaID), "")
		}
		a, err := repo.GetArea(ctx, *m.AreaID)
		if err != nil {
			return nil, translate(err, "area", fmt.Sprintf("#%d", *m.AreaID), "")
		}
		res.AreaName = a.Name
		res.AreaHealth = health
	}

	done, err := repo.GetMission(ctx, m.ID)
	if err != nil {
		return nil, unavailable(err)
	}
	res.Mission = *done
	return res, nil
}

// CompleteTask completes one of the user's tasks by description. Zombie tasks
// are only eligible when AllowZombieCompletion is set, and then earn the task
// XP minus the late penalty.
func (s *Service) CompleteTask(ctx context.Context, in CompleteTaskInput) (*TaskResult, error) {
	desc, err := normalizeText("description", in.Description)
	if err != nil {
		return nil, err
	}
	mission := ""
	if in.Mission != "" {
		if mission, err = normalizeText("mission", in.Mission); err != nil {
			return nil, err
		}
	}

	eligible := []storage.TaskStatus{storage.TaskPending}
	if s.opts.AllowZombieCompletion {
		eligible = append(eligible, storage.TaskZombie)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var res *TaskResult
	err = s.repo.Atomic(ctx, func(repo storage.Repository) error {
		filter := storage.TaskFilter{UserID: in.UserID, Description: desc, Statuses: eligible}
		if mission != "" {
			m, err := repo.FindPendingMission(ctx, in.UserID, mission)
			if err != nil {
				return translate(err, "mission", mission, "see /misiones for pending missions")
			}
			filter.MissionID = &m.ID
		}

		tasks, err := repo.FindTasks(ctx, filter)
		if err != nil {
			return unavailable(err)
		}
		if len(tasks) == 0 {
			return s.taskNotFound(ctx, repo, filter)
		}
		if spansMissions(tasks) {
			return ValidationError{
				Field:  "mission",
				Reason: fmt.Sprintf("task %q exists in several missions; use /completar_tarea <mission> | <task>", desc),
			}
		}

		t := tasks[0]
		now := s.now()
		gain := t.XP
		zombie := t.Status == storage.TaskZombie
		if zombie && t.Deadline != nil {
			gain = max(0, t.XP+LatePenalty(now, *t.Deadline))
		}

		if err := repo.CompleteTask(ctx, t.ID, now, eligible...); err != nil {
			return translate(err, "task", desc, "it is no longer pending")
		}
		owner, err := repo.GetMission(ctx, t.MissionID)
		if err != nil {
			return unavailable(err)
		}
		total, before, after, err := grantXP(ctx, repo, owner.UserID, gain)
		if err != nil {
			return err
		}
		done, err := repo.GetTask(ctx, t.ID)
		if err != nil {
			return unavailable(err)
		}
		res = &TaskResult{
			Task:       *done,
			XPGained:   gain,
			WasZombie:  zombie,
			RankBefore: before,
			RankAfter:  after,
			TotalXP:    total,
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return res, nil
}

// taskNotFound builds the not-found error, telling the user when the task
// exists but already completed or expired.
func (s *Service) taskNotFound(ctx context.Context, repo storage.Repository, f storage.TaskFilter) error {
	f.Statuses = nil
	all, err := repo.FindTasks(ctx, f)
	if err != nil {
		return unavailable(err)
	}
	hint := ""
	for _, t := range all {
		switch t.Status {
		case storage.TaskZombie:
			hint = "it expired and is now a zombie"
		case storage.TaskCompleted:
			if hint == "" {
				hint = "it is already completed"
			}
		}
	}
	return NotFoundError{Entity: "pending task", Key: f.Description, Hint: hint, Err: storage.ErrNotFound}
}

func spansMissions(tasks []storage.Task) bool {
	for _, t := range tasks[1:] {
		if t.MissionID != tasks[0].MissionID {
			return true
		}
	}
	return false
}

// ExpireOverdueTasks turns overdue pending tasks into zombies. It is the
// decay scheduler's sweep.
func (s *Service) ExpireOverdueTasks(ctx context.Context) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	n, err := s.repo.SweepExpireTasks(ctx, s.now())
	if err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}
