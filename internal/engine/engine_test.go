package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bulletquest/internal/storage"
)

const testUser = int64(4242)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func newTestService(t *testing.T, opts Options) (*Service, *testClock, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, storage.DriverSQLite, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	clock := newTestClock()
	opts.Now = clock.Now
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(1, 2))
	}
	svc := NewService(db, opts)
	cleanup := func() {
		_ = db.Close()
	}
	return svc, clock, cleanup
}

func register(t *testing.T, svc *Service) {
	t.Helper()
	if _, err := svc.Register(context.Background(), testUser); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func createMission(t *testing.T, svc *Service, in CreateMissionInput) *storage.Mission {
	t.Helper()
	if in.UserID == 0 {
		in.UserID = testUser
	}
	if in.Priority == 0 {
		in.Priority = PriorityMedium
	}
	m, err := svc.CreateMission(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateMission(%q): %v", in.Description, err)
	}
	return m
}

func TestScoringPolicy(t *testing.T) {
	for p, want := range map[Priority]int{PriorityLow: 10, PriorityMedium: 20, PriorityHigh: 30} {
		if got := XPForPriority(p); got != want {
			t.Fatalf("XPForPriority(%s)=%d, want %d", p, got, want)
		}
		if got := AreaHealthDelta(p); got != want/2 {
			t.Fatalf("AreaHealthDelta(%s)=%d, want %d", p, got, want/2)
		}
	}

	deadline := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := LatePenalty(deadline, deadline); got != 0 {
		t.Fatalf("LatePenalty at deadline=%d, want 0", got)
	}
	if got := LatePenalty(deadline.Add(time.Second), deadline); got != -5 {
		t.Fatalf("LatePenalty after deadline=%d, want -5", got)
	}
}

func TestRankBands(t *testing.T) {
	cases := []struct {
		xp   int
		want Rank
	}{
		{0, RankNovice}, {49, RankNovice},
		{50, RankApprentice}, {149, RankApprentice},
		{150, RankExpert}, {299, RankExpert},
		{300, RankMaster}, {10000, RankMaster},
	}
	for _, c := range cases {
		if got := RankForXP(c.xp); got != c.want {
			t.Fatalf("RankForXP(%d)=%s, want %s", c.xp, got, c.want)
		}
	}

	next, remaining, ok := NextRank(120)
	if !ok || next != RankExpert || remaining != 30 {
		t.Fatalf("NextRank(120)=%s,%d,%v, want Expert,30,true", next, remaining, ok)
	}
	if _, _, ok := NextRank(300); ok {
		t.Fatalf("NextRank(300) should report the top band")
	}
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{"low": PriorityLow, "MEDIA": PriorityMedium, "3": PriorityHigh, "alta": PriorityHigh} {
		got, err := ParsePriority(in)
		if err != nil || got != want {
			t.Fatalf("ParsePriority(%q)=%v,%v, want %v", in, got, err, want)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatalf("expected error for unknown priority")
	}
}

func TestLateHighMissionLosesPenalty(t *testing.T) {
	svc, clock, cleanup := newTestService(t, Options{})
	defer cleanup()
	ctx := context.Background()
	register(t, svc)

	deadline := clock.Now().Add(48 * time.Hour)
	createMission(t, svc, CreateMissionInput{Description: "Ship release", Priority: PriorityHigh, Deadline: &deadline})

	clock.Advance(72 * time.Hour)
	res, err := svc.CompleteMission(ctx, testUser, "Ship release")
	if err != nil {
		t.Fatalf("CompleteMission: %v", err)
	}
	if res.XPGained != 25 || !res.WasLate {
		t.Fatalf("got xp=%d late=%v, want 25 true", res.XPGained, res.WasLate)
	}
	if res.TotalXP != 25 {
		t.Fatalf("TotalXP=%d, want 25", res.TotalXP)
	}
	if !res.Mission.Completed || res.Mission.CompletionDate == nil {
		t.Fatalf("mission not marked completed: %+v", res.Mission)
	}
}

func TestCompleteMissionRestoresAreaHealth(t *testing.T) {
	svc, _, cleanup := newTestService(t, Options{})
	defer cleanup()
	ctx := context.Background()
	register(t, svc)

	area, err := svc.CreateArea(ctx, "Health")
	if err != nil {
		t.Fatalf("CreateArea: %v", err)
	}
	createMission(t, svc, CreateMissionInput{Description: "Run 5k", AreaName: "Health", Priority: PriorityMedium})

	res, err := svc.CompleteMission(ctx, testUser, "Run 5k")
	if err != nil {
		t.Fatalf("CompleteMission: %v", err)
	}
	if res.WasLate || res.XPGained != 20 {
		t.Fatalf("got xp=%d late=%v, want 20 false", res.XPGained, res.WasLate)
	}
	if res.AreaName != "Health" || res.AreaHealth != area.Health+10 {
		t.Fatalf("area %q health=%d, want Health %d", res.AreaName, res.AreaHealth, area.Health+10)
	}

	p, err := svc.Profile(ctx, testUser)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Profile.XP != 20 || p.CompletedMissions != 1 {
		t.Fatalf("profile xp=%d completed=%d, want 20 1", p.Profile.XP, p.CompletedMissions)
	}
}

func TestAreaHealthCeiling(t *testing.T) {
	svc, _, cleanup := newTestService(t, Options{AreaHealthCeiling: 105})
	defer cleanup()
	ctx := context.Background()
	register(t, svc)

	if _, err := svc.CreateArea(ctx, "Mind"); err != nil {
		t.Fatalf("CreateArea: %v", err)
	}
	createMission(t, svc, CreateMissionInput{Description: "Meditate", AreaName: "Mind", Priority: PriorityHigh})
	res, err := svc.CompleteMission(ctx, testUser, "Meditate")
	if err != nil {
		t.Fatalf("CompleteMission: %v", err)
	}
	if res.AreaHealth != 105 {
		t.Fatalf("AreaHealth=%d, want capped 105", res.AreaHealth)
	}
}

func TestZombieTaskIsNotCompletable(t *testing.T) {
	svc, clock, cleanup := newTestService(t, Options{})
	defer cleanup()
	ctx := context.Background()
	register(t, svc)

	createMission(t, svc, CreateMissionInput{Description: "Study Go"})
	due := clock.Now().Add(-time.Hour)
	task, err := svc.AddTask(ctx, AddTaskInput{UserID: testUser, Mission: "Study Go", Description: "Read ch.1", Deadline: &due})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.Status != storage.TaskPending || task.XP != DefaultTaskXP {
		t.Fatalf("new task = %+v", task)
	}

	n, err := svc.ExpireOverdueTasks(ctx)
	if err != nil {
		t.Fatalf("ExpireOverdueTasks: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired %d tasks, want 1", n)
	}
	if n, _ := svc.ExpireOverdueTasks(ctx); n != 0 {
		t.Fatalf("second sweep expired %d, want 0", n)
	}

	_, err = svc.CompleteTask(ctx, CompleteTaskInput{UserID: testUser, Description: "Read ch.1"})
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("CompleteTask on zombie: got %v, want NotFoundError", err)
	}
	if !strings.Contains(nf.Hint, "zombie") {
		t.Fatalf("hint %q should mention the zombie state", nf.Hint)
	}

	snap, err := svc.Status(ctx, testUser)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(snap.Tasks) != 1 || snap.Tasks[0].Status != storage.TaskZombie {
		t.Fatalf("snapshot tasks = %+v, want one zombie", snap.Tasks)
	}
	if snap.XP != 0 {
		t.Fatalf("zombie attempt credited xp=%d", snap.XP)
	}
}

func TestZombieCompletionWhenAllowed(t *testing.T) {
	svc, clock, cleanup := newTestService(t, Options{AllowZombieCompletion: true, DefaultTaskXP: 12})
	defer cleanup()
	ctx := context.Background()
	register(t, svc)

	createMission(t, svc, CreateMissionInput{Description: "Garden"})
	if _, err := svc.AddTask(ctx, AddTaskInput{UserID: testUser, Mission: "Garden", Description: "Water", DaysUntilDue: 1}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	clock.Advance(48 * time.Hour)
	if n, err := svc.ExpireOverdueTasks(ctx); err != nil || n != 1 {
		t.Fatalf("ExpireOverdueTasks=%d,%v, want 1", n, err)
	}

	res, err := svc.CompleteTask(ctx, CompleteTaskInput{UserID: testUser, Description: "Water"})
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !res.WasZombie || res.XPGained != 7 || res.Task.Status != storage.TaskCompleted {
		t.Fatalf("result = %+v, want zombie completion worth 7", res)
	}
}

func TestCompleteTaskBeforeDeadline(t *testing.T) {
	svc, _, cleanup := newTestService(t, Options{})
	defer cleanup()
	ctx := context.Background()
	register(t, svc)

	createMission(t, svc, CreateMissionInput{Description: "Write blog post"})
	if _, err := svc.AddTask(ctx, AddTaskInput{UserID: testUser, Mission: "Write blog post", Description: "Outline", DaysUntilDue: 2}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	res, err := svc.CompleteTask(ctx, CompleteTaskInput{UserID: testUser, Description: "Outline"})
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.XPGained != DefaultTaskXP || res.TotalXP != DefaultTaskXP {
		t.Fatalf("xp gained=%d total=%d, want %d", res.XPGained, res.TotalXP, DefaultTaskXP)
	}

	_, err = svc.CompleteTask(ctx, CompleteTaskInput{UserID: testUser, Description: "Outline"})
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("second CompleteTask: got %v, want NotFoundError", err)
	}
}

func TestCompleteTaskAmbiguousAcrossMissions(t *testing.T) {
	svc, _, cleanup := newTestService(t, Options{})
	defer cleanup()
	ctx := context.Background()
	register(t, svc)

	for _, m := range []string{"Learn Spanish", "Learn Italian"} {
		createMission(t, svc, CreateMissionInput{Description: m})
		if _, err := svc.AddTask(ctx, AddTaskInput{UserID: testUser, Mission: m, Description: "Lesson 1"}); err != nil {
			t.Fatalf("AddTask(%s): %v", m, err)
		}
	}

	_, err := svc.CompleteTask(ctx, CompleteTaskInput{UserID: testUser, Description: "Lesson 1"})
	var ve ValidationError
	if !errors.As(err, &ve) || ve.Field != "mission" {
		t.Fatalf("got %v, want mission ValidationError", err)
	}

	res, err := svc.CompleteTask(ctx, CompleteTaskInput{UserID: testUser, Mission: "Learn Italian", Description: "Lesson 1"})
	if err != nil {
		t.Fatalf("scoped CompleteTask: %v", err)
	}
	snap, err := svc.Status(ctx, testUser)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(snap.Tasks) != 1 || snap.Tasks[0].Mission != "Learn Spanish" || snap.Tasks[0].ID == res.Task.ID {
		t.Fatalf("remaining tasks = %+v", snap.Tasks)
	}
}

func TestAddTaskValidation(t *testing.T) {
	svc, _, cleanup := newTestService(t, Options{})
	defer cleanup()
	ctx := context.Background()
	register(t, svc)

	var nf NotFoundError
	if _, err := svc.AddTask(ctx, AddTaskInput{UserID: testUser, Mission: "Nope", Description: "x"}); !errors.As(err, &nf) {
		t.Fatalf("missing mission: got %v, want NotFoundError", err)
	}

	createMission(t, svc, CreateMissionInput{Description: "Tidy"})
	var ve ValidationError
	if _, err := svc.AddTask(ctx, AddTaskInput{UserID: testUser, Mission: "Tidy", Description: "Desk", DaysUntilDue: -1}); !errors.As(err, &ve) {
		t.Fatalf("negative days: got %v, want ValidationError", err)
	}
	if _, err := svc.AddTask(ctx, AddTaskInput{UserID: testUser, Mission: "Tidy", Description: "   "}); !errors.As(err, &ve) {
		t.Fatalf("blank description: got %v, want ValidationError", err)
	}

	if _, err := svc.CompleteMission(ctx, testUser, "Tidy"); err != nil {
		t.Fatalf("CompleteMission: %v", err)
	}
	if _, err := svc.AddTask(ctx, AddTaskInput{UserID: testUser, Mission: "Tidy", Description: "Desk"}); !errors.As(err, &nf) {
		t.Fatalf("completed mission: got %v, want NotFoundError", err)
	}
}

func TestCreateMissionMissingAreaLeavesNoRow(t *testing.T) {
	svc, _, cleanup := newTestService(t, Options{})
	defer cleanup()
	ctx := context.Background()
	register(t, svc)

	_, err := svc.CreateMission(ctx, CreateMissionInput{UserID: testUser, Description: "Lift", AreaName: "Fitness", Priority: PriorityLow})
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
	if !strings.Contains(nf.Error(), "create the area first") {
		t.Fatalf("error %q lacks the corrective hint", nf.Error())
	}

	list, err := svc.ListPendingMissions(ctx, testUser)
	if err != nil {
		t.Fatalf("ListPendingMissions: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("partial mission rows left behind: %+v", list)
	}

	var ve ValidationError
	if _, err := svc.CreateMission(ctx, CreateMissionInput{UserID: testUser, Description: " ", Priority: PriorityLow}); !errors.As(err, &ve) {
		t.Fatalf("blank description: got %v, want ValidationError", err)
	}
	if _, err := svc.CreateMission(ctx, CreateMissionInput{UserID: testUser, Description: "x", Priority: 9}); !errors.As(err, &ve) {
		t.Fatalf("bad priority: got %v, want ValidationError", err)
	}
}

func TestCompleteMissionTwice(t *testing.T) {
	svc, _, cleanup := newTestService(t, Options{})
	defer cleanup()
	ctx := context.Background()
	register(t, svc)

	m := createMission(t, svc, CreateMissionInput{Description: "Call mom", Priority: PriorityLow})
	if _, err := svc.CompleteMissionByID(ctx, testUser, m.ID); err != nil {
		t.Fatalf("CompleteMissionByID: %v", err)
	}

	_, err := svc.CompleteMissionByID(ctx, testUser, m.ID)
	var nf NotFoundError
	if !errors.As(err, &nf) || !errors.Is(err, storage.ErrAlreadyCompleted) {
		t.Fatalf("second completion: got %v, want already-completed NotFoundError", err)
	}
	if _, err := svc.CompleteMission(ctx, testUser, "Call mom"); !errors.As(err, &nf) {
		t.Fatalf("completion by description: got %v, want NotFoundError", err)
	}
	if _, err := svc.CompleteMissionByID(ctx, testUser+1, m.ID); !errors.As(err, &nf) {
		t.Fatalf("other user's mission: got %v, want NotFoundError", err)
	}

	p, err := svc.Profile(ctx, testUser)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Profile.XP != 10 {
		t.Fatalf("xp=%d, want credited once (10)", p.Profile.XP)
	}
}

func TestDuplicatePendingMission(t *testing.T) {
	svc, _, cleanup := newTestService(t, Options{})
	defer cleanup()
	ctx := context.Background()
	register(t, svc)

	createMission(t, svc, CreateMissionInput{Description: "Budget"})
	_, err := svc.CreateMission(ctx, CreateMissionInput{UserID: testUser, Description: "Budget", Priority: PriorityHigh})
	var ce ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want ConflictError", err)
	}

	if _, err := svc.CompleteMission(ctx, testUser, "Budget"); err != nil {
		t.Fatalf("CompleteMission: %v", err)
	}
	createMission(t, svc, CreateMissionInput{Description: "Budget"})
}

func TestCreateAreaTwiceReturnsExisting(t *testing.T) {
	svc, _, cleanup := newTestService(t, Options{})
	defer cleanup()
	ctx := context.Background()

	a1, err := svc.CreateArea(ctx, "Career")
	if err != nil {
		t.Fatalf("CreateArea: %v", err)
	}
	a2, err := svc.CreateArea(ctx, "  Career ")
	if err != nil {
		t.Fatalf("CreateArea again: %v", err)
	}
	if a1.ID != a2.ID || a2.Health != DefaultAreaHealth {
		t.Fatalf("areas differ: %+v vs %+v", a1, a2)
	}
}

func TestAssignRandomMissionSkipsPending(t *testing.T) {
	catalog, err := ParseCatalog([]byte(`
missions:
  - description: Walk 10k steps
    area: Health
    priority: low
  - description: Read 20 pages
    area: Mind
    priority: high
`))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	svc, _, cleanup := newTestService(t, Options{Catalog: catalog})
	defer cleanup()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		m, err := svc.AssignRandomMission(ctx, testUser)
		if err != nil {
			t.Fatalf("AssignRandomMission #%d: %v", i, err)
		}
		if m.AreaID == nil {
			t.Fatalf("catalog mission without area: %+v", m)
		}
		seen[m.Description] = true
	}
	if len(seen) != 2 {
		t.Fatalf("assigned %v, want both catalog missions", seen)
	}

	_, err = svc.AssignRandomMission(ctx, testUser)
	var ce ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("exhausted catalog: got %v, want ConflictError", err)
	}

	snap, err := svc.Status(ctx, testUser)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(snap.Areas) != 2 || len(snap.ActiveMissions) != 2 {
		t.Fatalf("snapshot areas=%d missions=%d, want 2 2", len(snap.Areas), len(snap.ActiveMissions))
	}
}

func TestParseCatalogRejectsBadEntries(t *testing.T) {
	if len(DefaultCatalog().Missions) == 0 {
		t.Fatalf("default catalog is empty")
	}
	bad := map[string]string{
		"duplicate": "missions:\n  - description: A\n  - description: A\n",
		"priority":  "missions:\n  - description: A\n    priority: urgent\n",
		"empty":     "missions: []\n",
		"blank":     "missions:\n  - description: \"  \"\n",
	}
	for name, doc := range bad {
		if _, err := ParseCatalog([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestCatalogTextIsNormalized(t *testing.T) {
	catalog, err := ParseCatalog([]byte("missions:\n  - description: \"Walk  fast\"\n    area: \" Body   Care \"\n"))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if got := catalog.Missions[0].Description; got != "Walk fast" {
		t.Fatalf("description %q, want %q", got, "Walk fast")
	}
	if got := catalog.Missions[0].Area; got != "Body Care" {
		t.Fatalf("area %q, want %q", got, "Body Care")
	}

	svc, _, cleanup := newTestService(t, Options{Catalog: catalog})
	defer cleanup()
	ctx := context.Background()

	m, err := svc.AssignRandomMission(ctx, testUser)
	if err != nil {
		t.Fatalf("AssignRandomMission: %v", err)
	}
	if _, err := svc.CompleteMission(ctx, testUser, "Walk  fast"); err != nil {
		t.Fatalf("CompleteMission(%q): %v", m.Description, err)
	}
	if _, err := svc.AssignRandomMission(ctx, testUser); err != nil {
		t.Fatalf("entry should be assignable again after completion: %v", err)
	}

	long := strings.Repeat("x", 201)
	if _, err := ParseCatalog([]byte("missions:\n  - description: " + long + "\n")); err == nil {
		t.Fatalf("expected error for over-long description")
	}
}

func TestStorageTimeoutIsUnavailable(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, storage.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	svc := NewService(db, Options{Now: newTestClock().Now, StorageTimeout: 50 * time.Millisecond})

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- db.Atomic(ctx, func(storage.Repository) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	_, err = svc.Register(ctx, testUser)
	close(release)
	if herr := <-done; herr != nil {
		t.Fatalf("holding transaction: %v", herr)
	}

	var sue StorageUnavailableError
	if !errors.As(err, &sue) {
		t.Fatalf("got %v, want StorageUnavailableError", err)
	}
	if !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("got %v, want it to wrap storage.ErrUnavailable", err)
	}

	if _, err := svc.Register(ctx, testUser); err != nil {
		t.Fatalf("Register after release: %v", err)
	}
}

func TestRankUpUpdatesTitle(t *testing.T) {
	svc, _, cleanup := newTestService(t, Options{})
	defer cleanup()
	ctx := context.Background()
	register(t, svc)

	var last *MissionResult
	for _, d := range []string{"One", "Two"} {
		createMission(t, svc, CreateMissionInput{Description: d, Priority: PriorityHigh})
		res, err := svc.CompleteMission(ctx, testUser, d)
		if err != nil {
			t.Fatalf("CompleteMission(%s): %v", d, err)
		}
		last = res
	}
	if !last.RankUp() || last.RankBefore != RankNovice || last.RankAfter != RankApprentice {
		t.Fatalf("rank %s -> %s, want Novice -> Apprentice", last.RankBefore, last.RankAfter)
	}

	p, err := svc.Profile(ctx, testUser)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Profile.Title != string(RankApprentice) || p.NextRank != RankExpert || p.XPToNext != 90 {
		t.Fatalf("profile = %+v", p)
	}
	earned := 0
	for _, a := range p.Achievements {
		if a.Earned {
			earned++
		}
	}
	if earned < 2 {
		t.Fatalf("earned %d achievements, want at least apprentice and first mission", earned)
	}
	if p.Earned != earned {
		t.Fatalf("Earned=%d, want %d", p.Earned, earned)
	}
}

func TestProfileRenames(t *testing.T) {
	svc, _, cleanup := newTestService(t, Options{})
	defer cleanup()
	ctx := context.Background()

	var nf NotFoundError
	if err := svc.Rename(ctx, testUser, "Ana"); !errors.As(err, &nf) {
		t.Fatalf("rename before start: got %v, want NotFoundError", err)
	}
	register(t, svc)
	if err := svc.Rename(ctx, testUser, "Ana"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if err := svc.RenameKingdom(ctx, testUser, "Northwind"); err != nil {
		t.Fatalf("RenameKingdom: %v", err)
	}
	var ve ValidationError
	if err := svc.Rename(ctx, testUser, ""); !errors.As(err, &ve) {
		t.Fatalf("empty name: got %v, want ValidationError", err)
	}

	snap, err := svc.Status(ctx, testUser)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if snap.Name != "Ana" || snap.Kingdom != "Northwind" || snap.Rank != RankNovice {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestStatusRequiresProfile(t *testing.T) {
	svc, _, cleanup := newTestService(t, Options{})
	defer cleanup()

	_, err := svc.Status(context.Background(), testUser)
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
}
