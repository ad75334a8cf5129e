package engine

import (
	"context"
	"time"

	"bulletquest/internal/storage"
)

type AreaView struct {
	Name   string `json:"name"`
	Health int    `json:"health"`
}

type MissionView struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	Deadline    time.Time `json:"deadline"`
	Area        string    `json:"area,omitempty"`
	Overdue     bool      `json:"overdue"`
}

type TaskView struct {
	ID          int64              `json:"id"`
	Description string             `json:"description"`
	Status      storage.TaskStatus `json:"status"`
	Deadline    *time.Time         `json:"deadline,omitempty"`
	MissionID   int64              `json:"mission_id"`
	Mission     string             `json:"mission"`
	XP          int                `json:"xp"`
}

// Snapshot is a point-in-time read model of one user's game state.
type Snapshot struct {
	UserID         int64         `json:"user_id"`
	Name           string        `json:"name"`
	Kingdom        string        `json:"kingdom"`
	XP             int           `json:"xp"`
	Rank           Rank          `json:"rank"`
	NextRank       Rank          `json:"next_rank,omitempty"`
	XPToNext       int           `json:"xp_to_next,omitempty"`
	Areas          []AreaView    `json:"areas"`
	ActiveMissions []MissionView `json:"active_missions"`
	Tasks          []TaskView    `json:"tasks"`
	TakenAt        time.Time     `json:"taken_at"`
}

// Zombies counts the expired tasks in the snapshot.
func (s *Snapshot) Zombies() int {
	n := 0
	for _, t := range s.Tasks {
		if t.Status == storage.TaskZombie {
			n++
		}
	}
	return n
}

// Status reads the profile, areas, pending missions and open tasks in one
// transaction. It never writes.
func (s *Service) Status(ctx context.Context, userID int64) (*Snapshot, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	snap := &Snapshot{UserID: userID, TakenAt: now}
	err := s.repo.Atomic(ctx, func(repo storage.Repository) error {
		p, err := repo.GetProfile(ctx, userID)
		if err != nil {
			return translate(err, "profile", "", "send /start first")
		}
		snap.Name = p.Name
		snap.Kingdom = p.Kingdom
		snap.XP = p.XP
		snap.Rank = RankForXP(p.XP)
		snap.NextRank, snap.XPToNext, _ = NextRank(p.XP)

		areas, err := repo.ListAreas(ctx)
		if err != nil {
			return unavailable(err)
		}
		areaNames := make(map[int64]string, len(areas))
		snap.Areas = make([]AreaView, 0, len(areas))
		for _, a := range areas {
			areaNames[a.ID] = a.Name
			snap.Areas = append(snap.Areas, AreaView{Name: a.Name, Health: a.Health})
		}

		missions, err := repo.ListPendingMissions(ctx, userID)
		if err != nil {
			return unavailable(err)
		}
		missionNames := make(map[int64]string, len(missions))
		snap.ActiveMissions = make([]MissionView, 0, len(missions))
		for _, m := range missions {
			missionNames[m.ID] = m.Description
			mv := MissionView{
				ID:          m.ID,
				Description: m.Description,
				Completed:   m.Completed,
				Priority:    Priority(m.Priority),
				Deadline:    m.Deadline,
				Overdue:     now.After(m.Deadline),
			}
			if m.AreaID != nil {
				mv.Area = areaNames[*m.AreaID]
			}
			snap.ActiveMissions = append(snap.ActiveMissions, mv)
		}

		tasks, err := repo.ListTasksByStatus(ctx, userID, storage.TaskPending, storage.TaskZombie)
		if err != nil {
			return unavailable(err)
		}
		snap.Tasks = make([]TaskView, 0, len(tasks))
		for _, t := range tasks {
			name, ok := missionNames[t.MissionID]
			if !ok {
				m, err := repo.GetMission(ctx, t.MissionID)
				if err != nil {
					return unavailable(err)
				}
				name = m.Description
				missionNames[t.MissionID] = name
			}
			snap.Tasks = append(snap.Tasks, TaskView{
				ID:          t.ID,
				Description: t.Description,
				Status:      t.Status,
				Deadline:    t.Deadline,
				MissionID:   t.MissionID,
				Mission:     name,
				XP:          t.XP,
			})
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return snap, nil
}
