package engine

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"bulletquest/internal/storage"
)

const (
	DefaultProfileName    = "Adventurer"
	DefaultAreaHealth     = 100
	DefaultGracePeriod    = 72 * time.Hour
	DefaultTaskXP         = 5
	DefaultStorageTimeout = 5 * time.Second

	maxTextLen = 200
)

// Options tune the lifecycle rules. Zero values fall back to the defaults above.
type Options struct {
	Now            func() time.Time
	GracePeriod    time.Duration
	DefaultTaskXP  int
	StorageTimeout time.Duration

	// AllowZombieCompletion lets expired tasks be completed late, with the
	// mission late penalty applied to their reward.
	AllowZombieCompletion bool

	// AreaHealthCeiling caps area health when > 0.
	AreaHealthCeiling int

	Catalog *Catalog
	Rand    *rand.Rand
}

type Service struct {
	repo storage.Repository
	opts Options

	randMu sync.Mutex
}

func NewService(repo storage.Repository, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.DefaultTaskXP <= 0 {
		opts.DefaultTaskXP = DefaultTaskXP
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = DefaultStorageTimeout
	}
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6d697373696f6e))
	}
	return &Service{repo: repo, opts: opts}
}

func (s *Service) Repo() storage.Repository { return s.repo }
func (s *Service) Options() Options         { return s.opts }

func (s *Service) now() time.Time {
	return s.opts.Now().UTC()
}

// withTimeout bounds every storage round trip of one operation.
func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opts.StorageTimeout)
}

func (s *Service) perm(n int) []int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.opts.Rand.Perm(n)
}

func normalizeText(field, value string) (string, error) {
	v := strings.Join(strings.Fields(value), " ")
	if v == "" {
		return "", ValidationError{Field: field, Reason: "is required"}
	}
	if utf8.RuneCountInString(v) > maxTextLen {
		return "", ValidationError{Field: field, Reason: "is too long"}
	}
	return v, nil
}

// ensureUser creates the user and profile rows on first interaction.
func (s *Service) ensureUser(ctx context.Context, repo storage.Repository, userID int64) error {
	if err := repo.UpsertUser(ctx, userID, s.now()); err != nil {
		return unavailable(err)
	}
	return unavailable(repo.UpsertProfile(ctx, userID, DefaultProfileName, string(RankForXP(0))))
}

// grantXP credits delta to the user and keeps the profile title in step with
// the new total. It returns the total and the ranks before and after.
func grantXP(ctx context.Context, repo storage.Repository, userID int64, delta int) (total int, before, after Rank, err error) {
	p, err := repo.GetProfile(ctx, userID)
	if err != nil {
		return 0, "", "", translate(err, "profile", "", "send /start first")
	}
	before = RankForXP(p.XP)
	total, err = repo.AddXP(ctx, userID, delta)
	if err != nil {
		return 0, "", "", translate(err, "profile", "", "send /start first")
	}
	after = RankForXP(total)
	if err := repo.SetProfileTitle(ctx, userID, string(after)); err != nil {
		return 0, "", "", unavailable(err)
	}
	return total, before, after, nil
}
