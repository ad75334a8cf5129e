package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bulletquest/internal/engine"
	"bulletquest/internal/storage"
	"bulletquest/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var as int64

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show profile, areas, missions and open tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			chatID, err := defaultChatID(as)
			if err != nil {
				return err
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			snap, err := svc.Status(ctx, chatID)
			if err != nil {
				return err
			}
			renderStatus(cmd.OutOrStdout(), snap)
			return nil
		},
	}

	cmd.Flags().Int64Var(&as, "as", 0, "chat id to show (default: first of chat.allowed_ids)")
	return cmd
}

func renderStatus(w io.Writer, s *engine.Snapshot) {
	fmt.Fprintln(w, ui.Heading(ui.IconCastle, fmt.Sprintf("%s of %s", s.Name, s.Kingdom)))
	fmt.Fprintln(w, ui.LabelValue("Rank", ui.Gold.Render(string(s.Rank))))
	xp := fmt.Sprintf("%d", s.XP)
	if s.NextRank != "" {
		xp += " " + ui.ProgressBar(s.XP, s.XP+s.XPToNext, 20) + " " + ui.Muted.Render(fmt.Sprintf("(%d to %s)", s.XPToNext, s.NextRank))
	}
	fmt.Fprintln(w, ui.LabelValue("XP", xp))
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, ui.H2.Render(ui.IconArea+" Areas"))
	if len(s.Areas) == 0 {
		fmt.Fprintln(w, ui.Muted.Render("- none yet"))
	}
	for _, a := range s.Areas {
		fmt.Fprintf(w, "- %s %s\n", a.Name, ui.HealthText(a.Health))
	}
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, ui.H2.Render(ui.IconMission+" Active missions"))
	if len(s.ActiveMissions) == 0 {
		fmt.Fprintln(w, ui.Muted.Render("- none pending"))
	}
	for _, m := range s.ActiveMissions {
		due := ui.Muted.Render("due " + m.Deadline.Local().Format("Mon 02 Jan 15:04"))
		if m.Overdue {
			due = ui.Warn.Render("overdue")
		}
		area := ""
		if m.Area != "" {
			area = ui.Muted.Render(" @" + m.Area)
		}
		fmt.Fprintf(w, "- %s (%s)%s %s\n", m.Description, m.Priority, area, due)
	}
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, ui.H2.Render(ui.IconTask+" Open tasks"))
	if len(s.Tasks) == 0 {
		fmt.Fprintln(w, ui.Muted.Render("- none"))
	}
	for _, t := range s.Tasks {
		icon := ui.IconHourglass
		if t.Status == storage.TaskZombie {
			icon = ui.IconZombie
		}
		fmt.Fprintf(w, "%s %s %s %s\n", icon, t.Description, ui.StatusText(string(t.Status)), ui.Muted.Render("["+t.Mission+"]"))
	}
}
