package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Bulletquest theme (CLI + TUI).
// Kept small: reusable styles and a few emojis.

const (
	IconCastle    = "🏰"
	IconMission   = "📜"
	IconTask      = "📝"
	IconZombie    = "🧟"
	IconArea      = "🌍"
	IconDone      = "✅"
	IconTrophy    = "🏆"
	IconBolt      = "⚡"
	IconInfo      = "ℹ️"
	IconWarn      = "⚠️"
	IconError     = "🧨"
	IconHourglass = "⏳"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeRankUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("RANK UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// StatusText colors a task status.
func StatusText(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	switch s {
	case "completed":
		return Good.Render("completed")
	case "pending":
		return Warn.Render("pending")
	case "zombie":
		return Bad.Render("zombie")
	default:
		return Muted.Render(status)
	}
}

// HealthText colors an area health value: red below 50, orange below 100.
func HealthText(health int) string {
	v := fmt.Sprintf("%d", health)
	switch {
	case health < 50:
		return Bad.Render(v)
	case health < 100:
		return Warn.Render(v)
	default:
		return Good.Render(v)
	}
}

func ProgressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := value * width / total
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
