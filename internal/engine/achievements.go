package engine

import "bulletquest/internal/storage"

// Achievement represents a badge the player can earn.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Earned      bool
}

// AchievementChecker calculates which achievements the player has earned.
type AchievementChecker struct {
	profile           *storage.Profile
	completedMissions int
	areas             []storage.Area
	zombieTasks       int
}

func NewAchievementChecker(profile *storage.Profile, completedMissions int, areas []storage.Area, zombieTasks int) *AchievementChecker {
	return &AchievementChecker{
		profile:           profile,
		completedMissions: completedMissions,
		areas:             areas,
		zombieTasks:       zombieTasks,
	}
}

// GetAchievements returns all achievements with their earned status.
func (c *AchievementChecker) GetAchievements() []Achievement {
	return []Achievement{
		// Rank milestones
		c.rankAchievement("apprentice", "Apprentice", "Reach 50 XP", "🌿", RankApprentice),
		c.rankAchievement("expert", "Expert", "Reach 150 XP", "⭐", RankExpert),
		c.rankAchievement("master", "Master", "Reach 300 XP", "💫", RankMaster),

		// Mission milestones
		c.missionAchievement("first_mission", "First Mission", "Complete 1 mission", "✓", 1),
		c.missionAchievement("committed", "Committed", "Complete 10 missions", "📋", 10),
		c.missionAchievement("unstoppable", "Unstoppable", "Complete 50 missions", "🏆", 50),

		c.areaAchievement("flourishing", "Flourishing", "Raise an area to 150 health", "🌳", 150),
		{
			ID:          "no_zombies",
			Name:        "Zombie Free",
			Description: "No expired tasks",
			Icon:        "🧟",
			Earned:      c.zombieTasks == 0 && c.completedMissions > 0,
		},
	}
}

// CountEarned returns how many achievements have been earned.
func (c *AchievementChecker) CountEarned() int {
	count := 0
	for _, a := range c.GetAchievements() {
		if a.Earned {
			count++
		}
	}
	return count
}

func (c *AchievementChecker) rankAchievement(id, name, desc, icon string, rank Rank) Achievement {
	earned := false
	for _, b := range rankBands {
		if b.Rank == rank {
			earned = c.profile.XP >= b.Min
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) missionAchievement(id, name, desc, icon string, count int) Achievement {
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.completedMissions >= count}
}

func (c *AchievementChecker) areaAchievement(id, name, desc, icon string, health int) Achievement {
	earned := false
	for _, a := range c.areas {
		if a.Health >= health {
			earned = true
			break
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}
