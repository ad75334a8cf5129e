// Package chat turns text commands into lifecycle engine calls and renders the
// replies. It is transport agnostic: the HTTP API and the local REPL both feed
// it Messages.
package chat

import (
	"context"
)

// Message is one inbound chat line. ChatID identifies both the conversation
// and the user.
type Message struct {
	ChatID int64
	Text   string
}

type Handler interface {
	Handle(ctx context.Context, msg Message) string
}

type HandlerFunc func(ctx context.Context, msg Message) string

func (f HandlerFunc) Handle(ctx context.Context, msg Message) string { return f(ctx, msg) }

const RejectedReply = "🚫 You are not allowed to use this bot."

// RequireAllowed is the single authorization gate in front of every command.
// Messages from chat ids outside allowed never reach next.
func RequireAllowed(allowed []int64, next Handler) Handler {
	set := make(map[int64]struct{}, len(allowed))
	for _, id := range allowed {
		set[id] = struct{}{}
	}
	return HandlerFunc(func(ctx context.Context, msg Message) string {
		if _, ok := set[msg.ChatID]; !ok {
			return RejectedReply
		}
		return next.Handle(ctx, msg)
	})
}
