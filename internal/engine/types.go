package engine

import "fmt"

type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// Weight is the scoring multiplier of a priority.
func (p Priority) Weight() int {
	if !p.IsValid() {
		return 0
	}
	return int(p)
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// DefaultPriority is used for catalog entries that do not set one.
const DefaultPriority = PriorityMedium
