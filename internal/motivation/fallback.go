package motivation

import (
	"context"
	"hash/fnv"
)

var quotes = []string{
	"Small steps every day build kingdoms. Pick one mission and finish it.",
	"Discipline is choosing what you want most over what you want now.",
	"A zombie task is just a task that waited for you. Go rescue it.",
	"You do not rise to your goals, you fall to your systems. Keep the streak alive.",
	"Done is better than perfect. Ship the next mission.",
	"Every area you tend grows a little healthier. Which one needs you today?",
	"Heroes are made in the boring middle of the quest.",
}

// Fallback picks a built-in quote. The choice depends only on the prompt, so
// the same state yields the same message.
type Fallback struct{}

func (Fallback) Motivate(_ context.Context, p Prompt) (string, error) {
	if p.Zombies > 0 {
		return quotes[2], nil
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(p.describe()))
	return quotes[int(h.Sum32()%uint32(len(quotes)))], nil
}
