package root

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"bulletquest/internal/chat"
	"bulletquest/internal/motivation"
)

func newChatCmd() *cobra.Command {
	var as int64

	cmd := &cobra.Command{
		Use:   "chat [command...]",
		Short: "Send chat commands locally (one-shot or interactive)",
		Example: `  bq chat /agregar_area Health
  bq chat /agregar_mision Health high Run 5k
  bq chat            # interactive, one command per line`,
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

			logger := log.New(cmd.ErrOrStderr(), "bq ", log.LstdFlags)
			dispatcher := chat.NewDispatcher(svc, motivation.New(cfg.Motivation, logger), logger)
			dispatcher.BotName = cfg.Chat.BotName
			handler := chat.RequireAllowed(cfg.Chat.AllowedIDs, dispatcher)

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				fmt.Fprintln(out, handler.Handle(ctx, chat.Message{ChatID: chatID, Text: strings.Join(args, " ")}))
				return nil
			}
			return repl(ctx, handler, chatID, cmd.InOrStdin(), out)
		},
	}

	cmd.Flags().Int64Var(&as, "as", 0, "chat id to act as (default: first of chat.allowed_ids)")
	return cmd
}

func repl(ctx context.Context, h chat.Handler, chatID int64, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
		case "exit", "quit":
			return nil
		default:
			if reply := h.Handle(ctx, chat.Message{ChatID: chatID, Text: line}); reply != "" {
				fmt.Fprintln(out, reply)
			}
		}
		fmt.Fprint(out, "> ")
	}
	return sc.Err()
}
