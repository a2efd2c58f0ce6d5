package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/domain"
	"gitlab.com/cse-2025.net/internal/static/errs"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

type fakeContestRepo struct {
	contest *domain.Contest
}

func (f *fakeContestRepo) SaveContest(ctx context.Context, c *domain.Contest) error { return nil }
func (f *fakeContestRepo) GetContest(ctx context.Context, contestID uuid.UUID) (*domain.Contest, error) {
	if f.contest == nil || f.contest.ID != contestID {
		return nil, errs.ContestNotFound
	}
	return f.contest, nil
}
func (f *fakeContestRepo) ListContests(ctx context.Context, filter secondary.ContestFilter) ([]*domain.Contest, error) {
	return nil, nil
}
func (f *fakeContestRepo) ListExpiredContests(ctx context.Context, now time.Time) ([]*domain.Contest, error) {
	return nil, nil
}
func (f *fakeContestRepo) UpdateTerminationCause(ctx context.Context, contestID uuid.UUID, cause domain.TerminationCause) error {
	return nil
}
func (f *fakeContestRepo) AddParticipantID(ctx context.Context, contestID uuid.UUID, userID string) error {
	return nil
}
func (f *fakeContestRepo) RemoveParticipantID(ctx context.Context, contestID uuid.UUID, userID string) error {
	return nil
}
func (f *fakeContestRepo) SetProblems(ctx context.Context, contestID uuid.UUID, problems []domain.ContestProblem) error {
	return nil
}
func (f *fakeContestRepo) AddAnnouncement(ctx context.Context, contestID uuid.UUID, a domain.Announcement) error {
	return nil
}
func (f *fakeContestRepo) DeleteContest(ctx context.Context, contestID uuid.UUID) (bool, error) {
	return false, nil
}

type fakeParticipantRepo struct {
	participants []*domain.Participant
	aggs         map[string]secondary.ParticipantAggregate
	ranks        map[string]int
	rankFailFor  string
}

func (f *fakeParticipantRepo) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	f.participants = append(f.participants, p)
	return nil
}
func (f *fakeParticipantRepo) GetParticipant(ctx context.Context, contestID uuid.UUID, userID string) (*domain.Participant, error) {
	for _, p := range f.participants {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, errs.ParticipantNotFound
}
func (f *fakeParticipantRepo) ListByContest(ctx context.Context, contestID uuid.UUID) ([]*domain.Participant, error) {
	return f.participants, nil
}
func (f *fakeParticipantRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Participant, error) {
	return nil, nil
}
func (f *fakeParticipantRepo) UpdateAggregates(ctx context.Context, contestID uuid.UUID, userID string, agg secondary.ParticipantAggregate) error {
	if f.aggs == nil {
		f.aggs = make(map[string]secondary.ParticipantAggregate)
	}
	f.aggs[userID] = agg
	return nil
}
func (f *fakeParticipantRepo) UpdateRank(ctx context.Context, contestID uuid.UUID, userID string, rank int) error {
	if userID == f.rankFailFor {
		return errors.New("write refused")
	}
	if f.ranks == nil {
		f.ranks = make(map[string]int)
	}
	f.ranks[userID] = rank
	return nil
}
func (f *fakeParticipantRepo) UpdateTerminationCause(ctx context.Context, contestID uuid.UUID, userID string, cause domain.TerminationCause) error {
	return nil
}
func (f *fakeParticipantRepo) Disqualify(ctx context.Context, contestID uuid.UUID, userID string, reason string) (bool, error) {
	return false, nil
}
func (f *fakeParticipantRepo) DeleteParticipant(ctx context.Context, contestID uuid.UUID, userID string) (bool, error) {
	return false, nil
}
func (f *fakeParticipantRepo) DeleteByContest(ctx context.Context, contestID uuid.UUID) (int64, error) {
	return 0, nil
}
func (f *fakeParticipantRepo) CountByContest(ctx context.Context, contestID uuid.UUID) (int, error) {
	return len(f.participants), nil
}

type fakeSubmissionRepo struct {
	submissions []*domain.Submission
}

func (f *fakeSubmissionRepo) SaveSubmission(ctx context.Context, s *domain.Submission) error {
	f.submissions = append(f.submissions, s)
	return nil
}
func (f *fakeSubmissionRepo) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	return nil, errors.New("not found")
}
func (f *fakeSubmissionRepo) ListByContest(ctx context.Context, contestID uuid.UUID) ([]*domain.Submission, error) {
	return f.submissions, nil
}
func (f *fakeSubmissionRepo) ListByParticipant(ctx context.Context, contestID uuid.UUID, userID string) ([]*domain.Submission, error) {
	var out []*domain.Submission
	for _, s := range f.submissions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeSubmissionRepo) ListByProblem(ctx context.Context, contestID uuid.UUID, problemID string) ([]*domain.Submission, error) {
	var out []*domain.Submission
	for _, s := range f.submissions {
		if s.ProblemID == problemID {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeSubmissionRepo) CountByContest(ctx context.Context, contestID uuid.UUID) (int, error) {
	return len(f.submissions), nil
}
func (f *fakeSubmissionRepo) DeleteByContest(ctx context.Context, contestID uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeCache struct {
	snapshot []domain.LeaderboardEntry
	sets     int
}

func (f *fakeCache) GetLeaderboard(ctx context.Context, contestID uuid.UUID) ([]domain.LeaderboardEntry, error) {
	return f.snapshot, nil
}
func (f *fakeCache) SetLeaderboard(ctx context.Context, contestID uuid.UUID, entries []domain.LeaderboardEntry) error {
	f.snapshot = entries
	f.sets++
	return nil
}
func (f *fakeCache) InvalidateLeaderboard(ctx context.Context, contestID uuid.UUID) error {
	f.snapshot = nil
	return nil
}

type fakeDirectory struct {
	profiles map[string]*domain.UserProfile
}

func (f *fakeDirectory) GetUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, errors.New("no rows")
	}
	return p, nil
}

type fixture struct {
	svc             *LeaderboardService
	contest         *domain.Contest
	participantRepo *fakeParticipantRepo
	submissionRepo  *fakeSubmissionRepo
	cache           *fakeCache
}

func newFixture(userIDs ...string) *fixture {
	contest := domain.NewContest("Finals", "", "public", "admin-1", time.Now().Add(-2*time.Hour), 240)
	contest.Problems = []domain.ContestProblem{
		{ID: "p1", Points: 100, Order: 0},
		{ID: "p2", Points: 50, Order: 1},
	}

	participantRepo := &fakeParticipantRepo{}
	for _, id := range userIDs {
		participantRepo.participants = append(participantRepo.participants,
			domain.NewParticipant(contest.ID, id, domain.EnrollmentSelf))
	}

	submissionRepo := &fakeSubmissionRepo{}
	cache := &fakeCache{}
	svc := NewLeaderboardService(
		&fakeContestRepo{contest: contest},
		participantRepo,
		submissionRepo,
		cache,
		&fakeDirectory{},
		nopLogger{},
	)
	return &fixture{svc: svc, contest: contest, participantRepo: participantRepo, submissionRepo: submissionRepo, cache: cache}
}

func (fx *fixture) addSubmission(userID, problemID string, status domain.VerdictStatus, points *int, penalty int, at time.Time) {
	fx.submissionRepo.submissions = append(fx.submissionRepo.submissions, &domain.Submission{
		ID:             uuid.New(),
		Seq:            int64(len(fx.submissionRepo.submissions) + 1),
		ContestID:      fx.contest.ID,
		ProblemID:      problemID,
		UserID:         userID,
		Status:         status,
		Points:         points,
		SubmissionTime: at,
		Penalty:        penalty,
	})
}

func intPtr(v int) *int { return &v }

func TestGenerateLeaderboardRanksAreSequential(t *testing.T) {
	fx := newFixture("u1", "u2", "u3", "u4")
	base := time.Now().Add(-time.Hour)

	// u1 and u2 tie on everything except last submission time; u3 scores
	// less; u4 never submits.
	fx.addSubmission("u1", "p1", domain.StatusAccepted, intPtr(100), 0, base.Add(10*time.Minute))
	fx.addSubmission("u2", "p1", domain.StatusAccepted, intPtr(100), 0, base.Add(20*time.Minute))
	fx.addSubmission("u3", "p2", domain.StatusAccepted, intPtr(50), 0, base.Add(5*time.Minute))

	entries, err := fx.svc.GenerateLeaderboard(context.Background(), fx.contest.ID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected every participant ranked, got %d entries", len(entries))
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Fatalf("ranks not sequential: entry %d has rank %d", i, e.Rank)
		}
	}
	order := []string{entries[0].UserID, entries[1].UserID, entries[2].UserID, entries[3].UserID}
	want := []string{"u1", "u2", "u3", "u4"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestGenerateLeaderboardTieBreakFlipsWithTimestamps(t *testing.T) {
	fx := newFixture("u1", "u2")
	base := time.Now().Add(-time.Hour)

	fx.addSubmission("u1", "p1", domain.StatusAccepted, intPtr(100), 0, base.Add(30*time.Minute))
	fx.addSubmission("u2", "p1", domain.StatusAccepted, intPtr(100), 0, base.Add(10*time.Minute))

	entries, err := fx.svc.GenerateLeaderboard(context.Background(), fx.contest.ID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if entries[0].UserID != "u2" {
		t.Fatalf("earlier last submission should win the tie, got %s first", entries[0].UserID)
	}
}

func TestGenerateLeaderboardPenaltyBreaksTieBeforeTime(t *testing.T) {
	fx := newFixture("u1", "u2")
	base := time.Now().Add(-time.Hour)

	fx.addSubmission("u1", "p1", domain.StatusAccepted, intPtr(100), 40, base.Add(5*time.Minute))
	fx.addSubmission("u2", "p1", domain.StatusAccepted, intPtr(100), 10, base.Add(50*time.Minute))

	entries, err := fx.svc.GenerateLeaderboard(context.Background(), fx.contest.ID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if entries[0].UserID != "u2" {
		t.Fatalf("lower penalty should rank first, got %s", entries[0].UserID)
	}
}

func TestGenerateLeaderboardSkipsOrphanSubmissions(t *testing.T) {
	fx := newFixture("u1")
	base := time.Now().Add(-time.Hour)

	fx.addSubmission("u1", "p1", domain.StatusAccepted, intPtr(100), 0, base)
	fx.addSubmission("ghost", "p1", domain.StatusAccepted, intPtr(100), 0, base)

	entries, err := fx.svc.GenerateLeaderboard(context.Background(), fx.contest.ID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(entries) != 1 || entries[0].UserID != "u1" {
		t.Fatalf("orphan row leaked into the leaderboard: %+v", entries)
	}
}

func TestGenerateLeaderboardCountsBestScorePerProblem(t *testing.T) {
	fx := newFixture("u1")
	base := time.Now().Add(-time.Hour)

	fx.addSubmission("u1", "p1", domain.StatusWrongAnswer, intPtr(100), 10, base)
	fx.addSubmission("u1", "p1", domain.StatusAccepted, intPtr(40), 0, base.Add(time.Minute))
	fx.addSubmission("u1", "p1", domain.StatusAccepted, intPtr(100), 0, base.Add(2*time.Minute))
	fx.addSubmission("u1", "p1", domain.StatusAccepted, intPtr(60), 0, base.Add(3*time.Minute))
	fx.addSubmission("u1", "p2", domain.StatusAccepted, nil, 0, base.Add(4*time.Minute))

	entries, err := fx.svc.GenerateLeaderboard(context.Background(), fx.contest.ID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	e := entries[0]
	if e.TotalScore != 150 {
		t.Fatalf("expected 100+50=150, got %d", e.TotalScore)
	}
	if e.ProblemsSolved != 2 {
		t.Fatalf("expected 2 solved, got %d", e.ProblemsSolved)
	}
	if e.Submissions != 5 {
		t.Fatalf("expected 5 submissions counted, got %d", e.Submissions)
	}
	if e.ProblemScores["p1"] != 100 || e.ProblemScores["p2"] != 50 {
		t.Fatalf("per-problem scores wrong: %v", e.ProblemScores)
	}
}

func TestGenerateLeaderboardServesCachedSnapshot(t *testing.T) {
	fx := newFixture("u1")
	fx.cache.snapshot = []domain.LeaderboardEntry{{Rank: 1, UserID: "cached"}}

	entries, err := fx.svc.GenerateLeaderboard(context.Background(), fx.contest.ID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(entries) != 1 || entries[0].UserID != "cached" {
		t.Fatalf("expected cached snapshot, got %+v", entries)
	}
}

func TestGenerateLeaderboardDegradesDisplayName(t *testing.T) {
	fx := newFixture("u1")
	base := time.Now().Add(-time.Hour)
	fx.addSubmission("u1", "p1", domain.StatusAccepted, intPtr(100), 0, base)

	entries, err := fx.svc.GenerateLeaderboard(context.Background(), fx.contest.ID)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if entries[0].UserName != "u1" {
		t.Fatalf("expected raw id fallback, got %q", entries[0].UserName)
	}
}

func TestUpdateRankingsPersistsAndSkipsFailures(t *testing.T) {
	fx := newFixture("u1", "u2", "u3")
	base := time.Now().Add(-time.Hour)
	fx.addSubmission("u1", "p1", domain.StatusAccepted, intPtr(100), 0, base)
	fx.addSubmission("u2", "p2", domain.StatusAccepted, intPtr(50), 0, base)
	fx.participantRepo.rankFailFor = "u2"

	complete, err := fx.svc.UpdateRankings(context.Background(), fx.contest.ID)
	if err != nil {
		t.Fatalf("update rankings failed: %v", err)
	}
	if complete {
		t.Fatal("expected incomplete pass when one write fails")
	}
	if fx.participantRepo.ranks["u1"] != 1 {
		t.Fatalf("u1 rank not persisted: %v", fx.participantRepo.ranks)
	}
	if fx.participantRepo.ranks["u3"] != 3 {
		t.Fatalf("pass did not continue past the failure: %v", fx.participantRepo.ranks)
	}
}

func TestGetAnalyticsAggregatesPerProblem(t *testing.T) {
	fx := newFixture("u1", "u2")
	base := time.Now().Add(-time.Hour)
	fx.addSubmission("u1", "p1", domain.StatusAccepted, intPtr(100), 0, base)
	// u1 re-submits an accepted solution; they are still one solver.
	fx.addSubmission("u1", "p1", domain.StatusAccepted, intPtr(100), 0, base.Add(time.Minute))
	fx.addSubmission("u2", "p1", domain.StatusWrongAnswer, nil, 0, base)
	fx.addSubmission("u2", "p2", domain.StatusAccepted, nil, 0, base)

	analytics, err := fx.svc.GetAnalytics(context.Background(), fx.contest.ID)
	if err != nil {
		t.Fatalf("analytics failed: %v", err)
	}
	if analytics.TotalParticipants != 2 || analytics.TotalSubmissions != 4 {
		t.Fatalf("totals wrong: %+v", analytics)
	}
	if len(analytics.ProblemStatistics) != 2 {
		t.Fatalf("expected stats per problem, got %d", len(analytics.ProblemStatistics))
	}
	p1 := analytics.ProblemStatistics[0]
	if p1.ProblemID != "p1" || p1.TotalAttempts != 3 {
		t.Fatalf("p1 stats wrong: %+v", p1)
	}
	if p1.SuccessfulSolutions != 1 {
		t.Fatalf("expected 1 distinct solver for p1, got %d", p1.SuccessfulSolutions)
	}
	p2 := analytics.ProblemStatistics[1]
	if p2.SuccessfulSolutions != 1 || p2.TotalAttempts != 1 {
		t.Fatalf("p2 stats wrong: %+v", p2)
	}
}
