package root

import (
	"context"

	"github.com/spf13/cobra"

	"bulletquest/internal/tui"
)

func newBoardCmd() *cobra.Command {
	var as int64

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
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

			return tui.RunBoard(ctx, svc, chatID, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Int64Var(&as, "as", 0, "chat id to show (default: first of chat.allowed_ids)")
	return cmd
}
