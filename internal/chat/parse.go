package chat

import (
	"strings"
)

// parseCommand splits "/Cmd@bot args" into a lower-case name, the bot the
// command is addressed to (empty when unaddressed) and the raw argument text.
// The leading slash is optional.
func parseCommand(text string) (name, bot, args string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", ""
	}
	head, rest, _ := strings.Cut(text, " ")
	if i := strings.IndexAny(head, "\n\t"); i >= 0 {
		rest = head[i+1:] + " " + rest
		head = head[:i]
	}
	head = strings.TrimPrefix(head, "/")
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head, bot = head[:at], head[at+1:]
	}
	return strings.ToLower(head), bot, strings.TrimSpace(rest)
}

// splitPipe splits "a | b | c" into trimmed parts, dropping empty trailing
// parts.
func splitPipe(args string) []string {
	raw := strings.Split(args, "|")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		parts = append(parts, strings.TrimSpace(p))
	}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
