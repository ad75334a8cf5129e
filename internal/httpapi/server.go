// Package httpapi exposes the chat commands and the status read model over
// HTTP.
package httpapi

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bulletquest/internal/chat"
	"bulletquest/internal/engine"
)

const shutdownTimeout = 5 * time.Second

// StatusReader builds the snapshot served by GET /v1/status.
type StatusReader interface {
	Status(ctx context.Context, userID int64) (*engine.Snapshot, error)
}

type Server struct {
	handler chat.Handler
	status  StatusReader
	allowed map[int64]struct{}
	logger  *log.Logger
	router  *gin.Engine
}

// NewServer wires the routes. handler receives every chat message and is
// expected to carry its own authorization (chat.RequireAllowed); allowed
// guards the status endpoint.
func NewServer(handler chat.Handler, status StatusReader, allowed []int64, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(logger))

	s := &Server{
		handler: handler,
		status:  status,
		allowed: make(map[int64]struct{}, len(allowed)),
		logger:  logger,
		router:  router,
	}
	for _, id := range allowed {
		s.allowed[id] = struct{}{}
	}

	router.GET("/healthz", s.handleHealth)
	api := router.Group("/v1")
	{
		api.POST("/messages", s.handleMessage)
		api.GET("/status/:chat_id", s.handleStatus)
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("http: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Printf("http: server stopped")
	return nil
}
