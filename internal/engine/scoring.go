package engine

import "time"

const (
	// XPPerWeight is the XP granted per priority weight on mission completion.
	XPPerWeight = 10

	// HealthPerWeight is the area health restored per priority weight.
	HealthPerWeight = 5

	// LatePenaltyXP is subtracted when a mission is completed after its deadline.
	LatePenaltyXP = 5
)

// XPForPriority returns the XP a completed mission is worth before penalties.
func XPForPriority(p Priority) int {
	return p.Weight() * XPPerWeight
}

// AreaHealthDelta returns how much health a completed mission restores to its area.
func AreaHealthDelta(p Priority) int {
	return p.Weight() * HealthPerWeight
}

// LatePenalty returns -LatePenaltyXP when now is past the deadline, else 0.
func LatePenalty(now, deadline time.Time) int {
	if now.After(deadline) {
		return -LatePenaltyXP
	}
	return 0
}

type Rank string

const (
	RankNovice     Rank = "Novice"
	RankApprentice Rank = "Apprentice"
	RankExpert     Rank = "Expert"
	RankMaster     Rank = "Master"
)

// rankBands are ascending lower bounds, inclusive.
var rankBands = []struct {
	Rank Rank
	Min  int
}{
	{RankNovice, 0},
	{RankApprentice, 50},
	{RankExpert, 150},
	{RankMaster, 300},
}

// RankForXP maps cumulative XP to its title. Negative XP counts as zero.
func RankForXP(xp int) Rank {
	r := rankBands[0].Rank
	for _, b := range rankBands {
		if xp >= b.Min {
			r = b.Rank
		}
	}
	return r
}

// NextRank returns the rank after the one xp is in and how much XP is still
// needed. ok is false at the top band.
func NextRank(xp int) (next Rank, remaining int, ok bool) {
	if xp < 0 {
		xp = 0
	}
	for _, b := range rankBands {
		if xp < b.Min {
			return b.Rank, b.Min - xp, true
		}
	}
	return "", 0, false
}
