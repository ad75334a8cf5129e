// Package motivation produces short encouragement messages for /motivacion.
package motivation

import (
	"context"
	"fmt"
	"log"

	"bulletquest/internal/config"
)

// Prompt is the player context a message is tailored to.
type Prompt struct {
	Name            string
	Rank            string
	PendingMissions int
	Zombies         int
}

func (p Prompt) describe() string {
	return fmt.Sprintf("Player %s (rank %s) has %d pending mission(s) and %d expired task(s).",
		p.Name, p.Rank, p.PendingMissions, p.Zombies)
}

type Motivator interface {
	Motivate(ctx context.Context, p Prompt) (string, error)
}

// New returns the OpenAI-compatible client when an API key is configured,
// falling back to the built-in quotes on any failure. Without a key only the
// quotes are used.
func New(cfg config.MotivationConfig, logger *log.Logger) Motivator {
	if cfg.APIKey == "" {
		return Fallback{}
	}
	client := NewOpenAIClient(cfg.APIKey, cfg.Endpoint, cfg.Model, cfg.Timeout)
	return WithFallback(client, Fallback{}, logger)
}

type fallbackMotivator struct {
	primary  Motivator
	fallback Motivator
	logger   *log.Logger
}

// WithFallback tries primary first and answers from fallback when it fails.
func WithFallback(primary, fallback Motivator, logger *log.Logger) Motivator {
	return &fallbackMotivator{primary: primary, fallback: fallback, logger: logger}
}

func (m *fallbackMotivator) Motivate(ctx context.Context, p Prompt) (string, error) {
	msg, err := m.primary.Motivate(ctx, p)
	if err == nil {
		return msg, nil
	}
	if m.logger != nil {
		m.logger.Printf("warning: motivation provider failed, using fallback: %v", err)
	}
	return m.fallback.Motivate(ctx, p)
}
