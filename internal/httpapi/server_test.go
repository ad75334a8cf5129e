package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"bulletquest/internal/chat"
	"bulletquest/internal/engine"
	"bulletquest/internal/storage"
)

const allowedChat = int64(501)

type mockStatus struct {
	StatusFunc func(ctx context.Context, userID int64) (*engine.Snapshot, error)
}

func (m *mockStatus) Status(ctx context.Context, userID int64) (*engine.Snapshot, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, userID)
	}
	return nil, errors.New("not configured")
}

func newTestServer(status StatusReader) (*Server, *[]chat.Message) {
	gin.SetMode(gin.TestMode)
	var seen []chat.Message
	echo := chat.HandlerFunc(func(_ context.Context, msg chat.Message) string {
		seen = append(seen, msg)
		return "echo: " + msg.Text
	})
	h := chat.RequireAllowed([]int64{allowedChat}, echo)
	return NewServer(h, status, []int64{allowedChat}, nil), &seen
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestPostMessage(t *testing.T) {
	s, seen := newTestServer(&mockStatus{})

	w := do(t, s, http.MethodPost, "/v1/messages", map[string]any{"chat_id": allowedChat, "text": "/misiones"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp messageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reply != "echo: /misiones" || resp.RequestID == "" {
		t.Fatalf("response = %+v", resp)
	}
	if got := w.Header().Get(headerRequestID); got != resp.RequestID {
		t.Fatalf("header request id %q != body %q", got, resp.RequestID)
	}
	if len(*seen) != 1 || (*seen)[0].ChatID != allowedChat {
		t.Fatalf("handler saw %+v", *seen)
	}
}

func TestPostMessageUnauthorized(t *testing.T) {
	s, seen := newTestServer(&mockStatus{})

	w := do(t, s, http.MethodPost, "/v1/messages", map[string]any{"chat_id": 9, "text": "/start"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp messageResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Reply != chat.RejectedReply {
		t.Fatalf("reply = %q, want rejection", resp.Reply)
	}
	if len(*seen) != 0 {
		t.Fatalf("unauthorized message reached the handler")
	}
}

func TestPostMessageBadRequest(t *testing.T) {
	s, _ := newTestServer(&mockStatus{})
	w := do(t, s, http.MethodPost, "/v1/messages", map[string]any{"chat_id": allowedChat})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetStatus(t *testing.T) {
	status := &mockStatus{StatusFunc: func(_ context.Context, userID int64) (*engine.Snapshot, error) {
		return &engine.Snapshot{
			UserID: userID,
			Name:   "Ana",
			Rank:   engine.RankNovice,
			Areas:  []engine.AreaView{{Name: "Health", Health: 110}},
			Tasks:  []engine.TaskView{{ID: 1, Description: "Read", Status: storage.TaskZombie, Mission: "Study"}},
		}, nil
	}}
	s, _ := newTestServer(status)

	w := do(t, s, http.MethodGet, "/v1/status/501", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var snap engine.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Name != "Ana" || len(snap.Areas) != 1 || snap.Tasks[0].Status != storage.TaskZombie {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestGetStatusErrors(t *testing.T) {
	cases := []struct {
		name string
		path string
		err  error
		want int
	}{
		{"bad id", "/v1/status/abc", nil, http.StatusBadRequest},
		{"forbidden", "/v1/status/9", nil, http.StatusForbidden},
		{"not found", "/v1/status/501", engine.NotFoundError{Entity: "profile"}, http.StatusNotFound},
		{"unavailable", "/v1/status/501", engine.StorageUnavailableError{Err: storage.ErrUnavailable}, http.StatusServiceUnavailable},
		{"internal", "/v1/status/501", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := tc.err
		s, _ := newTestServer(&mockStatus{StatusFunc: func(context.Context, int64) (*engine.Snapshot, error) {
			return nil, err
		}})
		if w := do(t, s, http.MethodGet, tc.path, nil); w.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, w.Code, tc.want)
		}
	}
}

func TestHealthzKeepsRequestID(t *testing.T) {
	s, _ := newTestServer(&mockStatus{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get(headerRequestID) != "abc-123" {
		t.Fatalf("status=%d id=%q", w.Code, w.Header().Get(headerRequestID))
	}
}
