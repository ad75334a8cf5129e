package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bulletquest/internal/chat"
	"bulletquest/internal/engine"
)

const maxMessageSize = 4 << 10 // 4KB

type messageRequest struct {
	ChatID int64  `json:"chat_id" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

type messageResponse struct {
	Reply     string `json:"reply"`
	RequestID string `json:"request_id"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

func (s *Server) fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, RequestID: c.GetString(ctxRequestID)})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMessage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMessageSize)

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "chat_id and text are required")
		return
	}

	reply := s.handler.Handle(c.Request.Context(), chat.Message{ChatID: req.ChatID, Text: req.Text})
	c.JSON(http.StatusOK, messageResponse{Reply: reply, RequestID: c.GetString(ctxRequestID)})
}

func (s *Server) handleStatus(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "invalid chat id")
		return
	}
	if _, ok := s.allowed[chatID]; !ok {
		s.fail(c, http.StatusForbidden, chat.RejectedReply)
		return
	}

	snap, err := s.status.Status(c.Request.Context(), chatID)
	if err != nil {
		var (
			nf  engine.NotFoundError
			sue engine.StorageUnavailableError
		)
		switch {
		case errors.As(err, &nf):
			s.fail(c, http.StatusNotFound, nf.Error())
		case errors.As(err, &sue):
			s.logger.Printf("warning: status %d: %v", chatID, err)
			s.fail(c, http.StatusServiceUnavailable, "storage unavailable")
		default:
			s.logger.Printf("error: status %d: %v", chatID, err)
			s.fail(c, http.StatusInternalServerError, "internal error")
		}
		return
	}
	c.JSON(http.StatusOK, snap)
}
