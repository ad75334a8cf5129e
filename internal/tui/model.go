package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bulletquest/internal/engine"
	"bulletquest/internal/storage"
	"bulletquest/internal/ui"
)

type boardModel struct {
	ctx    context.Context
	svc    Board
	userID int64

	width  int
	height int
	help   help.Model

	snap *engine.Snapshot

	collapsed map[int64]bool
	selected  int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	snap *engine.Snapshot
	err  error
}

type actionMsg struct {
	log string
	err error
}

func newBoardModel(ctx context.Context, svc Board, userID int64) boardModel {
	return boardModel{
		ctx:       ctx,
		svc:       svc,
		userID:    userID,
		help:      help.New(),
		collapsed: map[int64]bool{},
		loading:   true,
		lastLog:   "Loading…",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.Status(m.ctx, m.userID)
		return loadedMsg{snap: snap, err: err}
	}
}

func (m boardModel) completeMissionCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteMissionByID(m.ctx, m.userID, id)
		if err != nil {
			return actionMsg{err: err}
		}
		log := fmt.Sprintf("Completed %q: +%d XP", res.Mission.Description, res.XPGained)
		if res.WasLate {
			log += " (late)"
		}
		if res.RankUp() {
			log += " " + ui.BadgeRankUp + " " + string(res.RankAfter)
		}
		return actionMsg{log: log}
	}
}

func (m boardModel) completeTaskCmd(t engine.TaskView, mission string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteTask(m.ctx, engine.CompleteTaskInput{
			UserID:      m.userID,
			Mission:     mission,
			Description: t.Description,
		})
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: fmt.Sprintf("Task %q done: +%d XP", res.Task.Description, res.XPGained)}
	}
}

func (m boardModel) sweepCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := m.svc.ExpireOverdueTasks(m.ctx)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: fmt.Sprintf("Decay sweep: %d task(s) turned into zombies.", n)}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.snap = msg.snap
		m.clampSelection()
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case actionMsg:
		if msg.err != nil {
			m.lastLog = ui.Bad.Render(msg.err.Error())
			return m, nil
		}
		m.lastLog = msg.log
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, keys.Refresh):
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case key.Matches(msg, keys.Sweep):
			m.lastLog = "Sweeping…"
			return m, m.sweepCmd()
		case key.Matches(msg, keys.Up):
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case key.Matches(msg, keys.Down):
			if m.selected < len(m.lines())-1 {
				m.selected++
			}
			return m, nil
		case key.Matches(msg, keys.Toggle):
			line, ok := m.current()
			if ok && line.task == nil && line.hasChildren {
				m.collapsed[line.mission.ID] = !m.collapsed[line.mission.ID]
				m.clampSelection()
			}
			return m, nil
		case key.Matches(msg, keys.Complete):
			line, ok := m.current()
			if !ok {
				return m, nil
			}
			if line.task == nil {
				m.lastLog = fmt.Sprintf("Completing %q…", line.mission.Description)
				return m, m.completeMissionCmd(line.mission.ID)
			}
			if line.task.Status == storage.TaskZombie {
				m.lastLog = "Trying to rescue a zombie…"
			} else {
				m.lastLog = fmt.Sprintf("Completing %q…", line.task.Description)
			}
			return m, m.completeTaskCmd(*line.task, line.missionName)
		}
	}
	return m, nil
}

// boardLine is one row of the quest log: a mission, or a task under it.
type boardLine struct {
	mission     engine.MissionView
	missionName string // pending mission the task belongs to, empty for orphans
	task        *engine.TaskView
	hasChildren bool
	depth       int
}

func (m boardModel) lines() []boardLine {
	if m.snap == nil {
		return nil
	}
	byMission := map[int64][]engine.TaskView{}
	for _, t := range m.snap.Tasks {
		byMission[t.MissionID] = append(byMission[t.MissionID], t)
	}

	var out []boardLine
	for _, mv := range m.snap.ActiveMissions {
		tasks := byMission[mv.ID]
		delete(byMission, mv.ID)
		out = append(out, boardLine{mission: mv, hasChildren: len(tasks) > 0})
		if m.collapsed[mv.ID] {
			continue
		}
		for i := range tasks {
			out = append(out, boardLine{mission: mv, missionName: mv.Description, task: &tasks[i], depth: 1})
		}
	}
	// Open tasks whose mission was already completed.
	for _, t := range m.snap.Tasks {
		if _, ok := byMission[t.MissionID]; !ok {
			continue
		}
		tv := t
		out = append(out, boardLine{task: &tv})
	}
	return out
}

func (m boardModel) current() (boardLine, bool) {
	lines := m.lines()
	if m.selected < 0 || m.selected >= len(lines) {
		return boardLine{}, false
	}
	return lines[m.selected], true
}

func (m *boardModel) clampSelection() {
	n := len(m.lines())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()

	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + "\n" + m.lastLog + "\n" + m.help.View(keys)
}

func (m boardModel) renderHeader() string {
	if m.snap == nil {
		return "Bulletquest | loading…"
	}
	s := m.snap
	bar := ""
	if s.NextRank != "" {
		bar = " " + ui.ProgressBar(s.XP, s.XP+s.XPToNext, 30) + " " + ui.Muted.Render(fmt.Sprintf("%d to %s", s.XPToNext, s.NextRank))
	}
	return ui.Title.Render(fmt.Sprintf("%s %s of %s", ui.IconCastle, s.Name, s.Kingdom)) +
		fmt.Sprintf(" | %s | XP %d", ui.Gold.Render(string(s.Rank)), s.XP) + bar
}

func (m boardModel) renderSidebar() string {
	if m.snap == nil {
		return "Areas\n\nLoading…"
	}
	lines := []string{"Areas"}
	if len(m.snap.Areas) == 0 {
		lines = append(lines, "(none)")
	}
	for _, a := range m.snap.Areas {
		lines = append(lines, fmt.Sprintf("- %s %s", a.Name, ui.HealthText(a.Health)))
	}
	lines = append(lines, "")
	if z := m.snap.Zombies(); z > 0 {
		lines = append(lines, fmt.Sprintf("%s %d zombie task(s)", ui.IconZombie, z))
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	out := []string{"Quest Log"}
	lines := m.lines()
	if len(lines) == 0 {
		out = append(out, "(no pending missions, try /mision in chat)")
		return strings.Join(out, "\n")
	}
	for i, l := range lines {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		indent := strings.Repeat("  ", l.depth)
		var row string
		if l.task == nil {
			fold := "  "
			if l.hasChildren {
				fold = "▾ "
				if m.collapsed[l.mission.ID] {
					fold = "▸ "
				}
			}
			late := ""
			if l.mission.Overdue {
				late = " " + ui.Warn.Render("overdue")
			}
			row = fmt.Sprintf("%s%s (%s)%s", fold, l.mission.Description, l.mission.Priority, late)
		} else {
			icon := ui.IconHourglass
			if l.task.Status == storage.TaskZombie {
				icon = ui.IconZombie
			}
			row = fmt.Sprintf("%s %s (%s)", icon, l.task.Description, ui.StatusText(string(l.task.Status)))
			if l.depth == 0 {
				row += " " + ui.Muted.Render("["+l.task.Mission+"]")
			}
		}
		if i == m.selected {
			row = ui.SelectedRow.Render(row)
		}
		out = append(out, cursor+indent+row)
	}
	return strings.Join(out, "\n")
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
