package engine

import (
	"fmt"
	"strings"
)

// ParsePriority parses user input to a Priority.
// Supported: low/medium/high, 1/2/3 and the Spanish baja/media/alta.
func ParsePriority(input string) (Priority, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "low", "1", "baja", "bajo":
		return PriorityLow, nil
	case "medium", "med", "2", "media", "medio":
		return PriorityMedium, nil
	case "high", "3", "alta", "alto":
		return PriorityHigh, nil
	default:
		return 0, fmt.Errorf("invalid priority %q (use low, medium or high)", input)
	}
}

// IsPriority reports whether input parses as a priority.
func IsPriority(input string) bool {
	_, err := ParsePriority(input)
	return err == nil
}
