package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"bulletquest/internal/engine"
)

// Board is what the board needs from the lifecycle engine.
type Board interface {
	Status(ctx context.Context, userID int64) (*engine.Snapshot, error)
	CompleteMissionByID(ctx context.Context, userID, missionID int64) (*engine.MissionResult, error)
	CompleteTask(ctx context.Context, in engine.CompleteTaskInput) (*engine.TaskResult, error)
	ExpireOverdueTasks(ctx context.Context) (int, error)
}

func RunBoard(ctx context.Context, svc Board, userID int64, out io.Writer) error {
	m := newBoardModel(ctx, svc, userID)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
