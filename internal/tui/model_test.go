package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"bulletquest/internal/engine"
	"bulletquest/internal/storage"
)

type fakeBoard struct {
	snap          *engine.Snapshot
	completedIDs  []int64
	completedTask []engine.CompleteTaskInput
	sweeps        int
}

func (f *fakeBoard) Status(context.Context, int64) (*engine.Snapshot, error) { return f.snap, nil }

func (f *fakeBoard) CompleteMissionByID(_ context.Context, _ int64, id int64) (*engine.MissionResult, error) {
	f.completedIDs = append(f.completedIDs, id)
	return &engine.MissionResult{Mission: storage.Mission{ID: id, Description: "m"}, XPGained: 20, RankBefore: engine.RankNovice, RankAfter: engine.RankNovice}, nil
}

func (f *fakeBoard) CompleteTask(_ context.Context, in engine.CompleteTaskInput) (*engine.TaskResult, error) {
	f.completedTask = append(f.completedTask, in)
	return &engine.TaskResult{Task: storage.Task{Description: in.Description}, XPGained: 5}, nil
}

func (f *fakeBoard) ExpireOverdueTasks(context.Context) (int, error) {
	f.sweeps++
	return 1, nil
}

func testSnapshot() *engine.Snapshot {
	return &engine.Snapshot{
		Name: "Ana", Kingdom: "Northwind", Rank: engine.RankNovice, NextRank: engine.RankApprentice, XPToNext: 50,
		Areas: []engine.AreaView{{Name: "Health", Health: 40}},
		ActiveMissions: []engine.MissionView{
			{ID: 1, Description: "Study Go", Priority: engine.PriorityHigh},
			{ID: 2, Description: "Run 5k", Priority: engine.PriorityLow},
		},
		Tasks: []engine.TaskView{
			{ID: 10, Description: "Read ch.1", Status: storage.TaskZombie, MissionID: 1, Mission: "Study Go"},
			{ID: 11, Description: "Stretch", Status: storage.TaskPending, MissionID: 9, Mission: "Old mission"},
		},
	}
}

func keyPress(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step applies msg and runs any returned command once, feeding its result back.
func step(t *testing.T, m boardModel, msg tea.Msg) boardModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(boardModel)
	if cmd != nil {
		if out := cmd(); out != nil {
			next, _ = m.Update(out)
			m = next.(boardModel)
		}
	}
	return m
}

func TestBoardLinesGroupTasksUnderMissions(t *testing.T) {
	fb := &fakeBoard{snap: testSnapshot()}
	m := step(t, newBoardModel(context.Background(), fb, 1), loadedMsg{snap: fb.snap})

	lines := m.lines()
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	if lines[1].task == nil || lines[1].missionName != "Study Go" {
		t.Fatalf("task not nested under its mission: %+v", lines[1])
	}
	if lines[3].task == nil || lines[3].depth != 0 {
		t.Fatalf("orphan task should be a root row: %+v", lines[3])
	}

	m = step(t, m, keyPress("enter"))
	if got := len(m.lines()); got != 3 {
		t.Fatalf("collapsed lines = %d, want 3", got)
	}

	view := m.View()
	for _, want := range []string{"Ana of Northwind", "Study Go", "Health"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestBoardCompleteAndSweep(t *testing.T) {
	fb := &fakeBoard{snap: testSnapshot()}
	m := step(t, newBoardModel(context.Background(), fb, 1), loadedMsg{snap: fb.snap})

	m = step(t, m, keyPress("c"))
	if len(fb.completedIDs) != 1 || fb.completedIDs[0] != 1 {
		t.Fatalf("completed missions = %v", fb.completedIDs)
	}

	m = step(t, m, keyPress("j"))
	m = step(t, m, keyPress("c"))
	if len(fb.completedTask) != 1 || fb.completedTask[0].Mission != "Study Go" || fb.completedTask[0].Description != "Read ch.1" {
		t.Fatalf("completed tasks = %+v", fb.completedTask)
	}

	m = step(t, m, keyPress("s"))
	if fb.sweeps != 1 {
		t.Fatalf("sweeps = %d", fb.sweeps)
	}
	if !strings.Contains(m.lastLog, "1 task(s)") {
		t.Fatalf("lastLog = %q", m.lastLog)
	}
}
