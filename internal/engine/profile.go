package engine

import (
	"context"

	"bulletquest/internal/storage"
)

type ProfileView struct {
	Profile           storage.Profile
	Rank              Rank
	NextRank          Rank
	XPToNext          int
	CompletedMissions int
	Achievements      []Achievement
	Earned            int
}

// Register creates the user and profile if they do not exist yet.
func (s *Service) Register(ctx context.Context, userID int64) (*storage.Profile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var p *storage.Profile
	err := s.repo.Atomic(ctx, func(repo storage.Repository) error {
		if err := s.ensureUser(ctx, repo, userID); err != nil {
			return err
		}
		var err error
		p, err = repo.GetProfile(ctx, userID)
		return unavailable(err)
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return p, nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (*ProfileView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var view ProfileView
	err := s.repo.Atomic(ctx, func(repo storage.Repository) error {
		p, err := repo.GetProfile(ctx, userID)
		if err != nil {
			return translate(err, "profile", "", "send /start first")
		}
		completed, err := repo.CountCompletedMissions(ctx, userID)
		if err != nil {
			return unavailable(err)
		}
		areas, err := repo.ListAreas(ctx)
		if err != nil {
			return unavailable(err)
		}
		zombies, err := repo.ListTasksByStatus(ctx, userID, storage.TaskZombie)
		if err != nil {
			return unavailable(err)
		}

		view.Profile = *p
		view.Rank = RankForXP(p.XP)
		view.NextRank, view.XPToNext, _ = NextRank(p.XP)
		view.CompletedMissions = completed
		checker := NewAchievementChecker(p, completed, areas, len(zombies))
		view.Achievements = checker.GetAchievements()
		view.Earned = checker.CountEarned()
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return &view, nil
}

func (s *Service) Rename(ctx context.Context, userID int64, name string) error {
	return s.setProfileField(ctx, userID, "name", name, func(ctx context.Context, repo storage.Repository, v string) error {
		return repo.SetProfileName(ctx, userID, v)
	})
}

func (s *Service) RenameKingdom(ctx context.Context, userID int64, name string) error {
	return s.setProfileField(ctx, userID, "kingdom", name, func(ctx context.Context, repo storage.Repository, v string) error {
		return repo.SetKingdomName(ctx, userID, v)
	})
}

func (s *Service) setProfileField(ctx context.Context, userID int64, field, value string, set func(context.Context, storage.Repository, string) error) error {
	v, err := normalizeText(field, value)
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	err = s.repo.Atomic(ctx, func(repo storage.Repository) error {
		return translate(set(ctx, repo, v), "profile", "", "send /start first")
	})
	return unavailable(err)
}
