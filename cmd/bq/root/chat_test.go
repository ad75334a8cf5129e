package root

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"bulletquest/internal/chat"
)

func TestREPL(t *testing.T) {
	var got []string
	h := chat.HandlerFunc(func(_ context.Context, msg chat.Message) string {
		got = append(got, msg.Text)
		return "ok " + msg.Text
	})
	in := strings.NewReader("/start\n\n  /misiones  \nexit\n/never\n")
	var out bytes.Buffer

	if err := repl(context.Background(), h, 7, in, &out); err != nil {
		t.Fatalf("repl: %v", err)
	}
	if len(got) != 2 || got[0] != "/start" || got[1] != "/misiones" {
		t.Fatalf("handled %v", got)
	}
	if !strings.Contains(out.String(), "ok /misiones") {
		t.Fatalf("output %q", out.String())
	}
}
