package storage

import "time"

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskZombie    TaskStatus = "zombie"
)

type User struct {
	ID        int64
	XP        int
	CreatedAt time.Time
}

type Profile struct {
	UserID  int64
	Name    string
	Kingdom string
	XP      int
	Title   string
}

type Area struct {
	ID     int64
	Name   string
	Health int
}

type Mission struct {
	ID             int64
	UserID         int64
	Description    string
	AreaID         *int64
	Priority       int // weight: 1 low, 2 medium, 3 high
	Deadline       time.Time
	Completed      bool
	CompletionDate *time.Time
	CreatedAt      time.Time
}

type Task struct {
	ID          int64
	MissionID   int64
	Description string
	XP          int
	Status      TaskStatus
	Deadline    *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
}

type MissionInsert struct {
	UserID      int64
	Description string
	AreaID      *int64
	Priority    int
	Deadline    time.Time
	CreatedAt   time.Time
}

type TaskInsert struct {
	MissionID   int64
	Description string
	XP          int
	Deadline    *time.Time
	CreatedAt   time.Time
}

// TaskFilter narrows FindTasks to one user's missions. A nil MissionID searches
// all of the user's missions.
type TaskFilter struct {
	UserID      int64
	MissionID   *int64
	Description string
	Statuses    []TaskStatus
}
