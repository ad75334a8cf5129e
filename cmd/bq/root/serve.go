package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"bulletquest/internal/chat"
	"bulletquest/internal/decay"
	"bulletquest/internal/httpapi"
	"bulletquest/internal/motivation"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP chat endpoint and the decay scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger, closeLog, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(cfg.Chat.AllowedIDs) == 0 {
				logger.Printf("warning: chat.allowed_ids is empty, every message will be rejected")
			}

			sched := decay.New(svc, cfg.Decay.Period, logger)
			sched.RunOnStart = cfg.Decay.RunOnStart
			if err := sched.Start(ctx); err != nil {
				return err
			}
			defer sched.Stop()

			dispatcher := chat.NewDispatcher(svc, motivation.New(cfg.Motivation, logger), logger)
			dispatcher.BotName = cfg.Chat.BotName
			handler := chat.RequireAllowed(cfg.Chat.AllowedIDs, dispatcher)

			gin.SetMode(gin.ReleaseMode)
			server := httpapi.NewServer(handler, svc, cfg.Chat.AllowedIDs, logger)
			if addr == "" {
				addr = cfg.HTTP.Addr
			}
			return server.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}
