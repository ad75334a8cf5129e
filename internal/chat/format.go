package chat

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"bulletquest/internal/engine"
	"bulletquest/internal/storage"
)

const timeLayout = "2006-01-02 15:04 UTC"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func describeMission(area string, p engine.Priority) string {
	if area == "" {
		return p.String()
	}
	return area + ", " + p.String()
}

func formatProfile(v *engine.ProfileView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛡️ %s of %s\n", v.Profile.Name, v.Profile.Kingdom)
	fmt.Fprintf(&b, "Rank: %s\nXP: %d", v.Rank, v.Profile.XP)
	if v.NextRank != "" {
		fmt.Fprintf(&b, " (%d to %s)", v.XPToNext, v.NextRank)
	}
	fmt.Fprintf(&b, "\nMissions completed: %d", v.CompletedMissions)

	var earned []string
	for _, a := range v.Achievements {
		if a.Earned {
			earned = append(earned, a.Icon+" "+a.Name)
		}
	}
	if len(earned) > 0 {
		fmt.Fprintf(&b, "\nAchievements (%d/%d): %s", v.Earned, len(v.Achievements), strings.Join(earned, ", "))
	}
	return b.String()
}

func formatMissionResult(r *engine.MissionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Mission completed: %s! +%d XP", r.Mission.Description, r.XPGained)
	if r.WasLate {
		fmt.Fprintf(&b, " (late, -%d)", engine.LatePenaltyXP)
	}
	if r.AreaName != "" {
		fmt.Fprintf(&b, "\n💚 %s health is now %d.", r.AreaName, r.AreaHealth)
	}
	if r.RankUp() {
		fmt.Fprintf(&b, "\n🏆 Rank up! You are now %s.", r.RankAfter)
	}
	return b.String()
}

func formatTaskResult(r *engine.TaskResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "☑️ Task completed: %s! +%d XP", r.Task.Description, r.XPGained)
	if r.WasZombie {
		b.WriteString(" (rescued from the undead, late penalty applied)")
	}
	if r.RankUp() {
		fmt.Fprintf(&b, "\n🏆 Rank up! You are now %s.", r.RankAfter)
	}
	return b.String()
}

// FormatSnapshot renders a snapshot as a plain-text chat reply.
func FormatSnapshot(s *engine.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏰 %s, %s of %s\n", s.Name, s.Rank, s.Kingdom)
	fmt.Fprintf(&b, "XP: %d", s.XP)
	if s.NextRank != "" {
		fmt.Fprintf(&b, " (%d to %s)", s.XPToNext, s.NextRank)
	}

	b.WriteString("\n\n🌍 Areas:")
	if len(s.Areas) == 0 {
		b.WriteString(" none yet, try /agregar_area")
	}
	for _, a := range s.Areas {
		fmt.Fprintf(&b, "\n- %s: %d", a.Name, a.Health)
	}

	b.WriteString("\n\n📜 Missions:")
	if len(s.ActiveMissions) == 0 {
		b.WriteString(" none pending")
	}
	for _, m := range s.ActiveMissions {
		line := fmt.Sprintf("\n- %s (%s", m.Description, describeMission(m.Area, m.Priority))
		if m.Overdue {
			line += ", overdue"
		}
		b.WriteString(line + ")")
	}

	b.WriteString("\n\n📝 Tasks:")
	if len(s.Tasks) == 0 {
		b.WriteString(" none open")
	}
	for _, t := range s.Tasks {
		icon := "⏳"
		if t.Status == storage.TaskZombie {
			icon = "🧟"
		}
		fmt.Fprintf(&b, "\n%s %s [%s]", icon, t.Description, t.Mission)
	}
	return b.String()
}
