package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bulletquest/internal/ui"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one decay pass: overdue pending tasks become zombies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := svc.ExpireOverdueTasks(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d task(s) turned into zombies\n", ui.IconZombie, n)
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openStore(context.Background(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" schema up to date")+" "+ui.Muted.Render("("+store.Driver()+")"))
			return nil
		},
	}
}
