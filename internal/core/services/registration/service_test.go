package registration

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

type fakeParticipantRepo struct {
	participants map[string]*domain.Participant
	createErr    error
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[string]*domain.Participant)}
}

func key(contestID uuid.UUID, userID string) string {
	return contestID.String() + "/" + userID
}

func (f *fakeParticipantRepo) CreateParticipant(ctx context.Context, p *domain.Participant) error {
	if f.createErr != nil {
		return f.createErr
	}
	k := key(p.ContestID, p.UserID)
	if _, exists := f.participants[k]; exists {
		return errs.StorageConflict
	}
	f.participants[k] = p
	return nil
}

func (f *fakeParticipantRepo) GetParticipant(ctx context.Context, contestID uuid.UUID, userID string) (*domain.Participant, error) {
	p, ok := f.participants[key(contestID, userID)]
	if !ok {
		return nil, errs.ParticipantNotFound
	}
	return p, nil
}

func (f *fakeParticipantRepo) ListByContest(ctx context.Context, contestID uuid.UUID) ([]*domain.Participant, error) {
	var out []*domain.Participant
	for _, p := range f.participants {
		if p.ContestID == contestID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Participant, error) {
	var out []*domain.Participant
	for _, p := range f.participants {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) UpdateAggregates(ctx context.Context, contestID uuid.UUID, userID string, agg secondary.ParticipantAggregate) error {
	p, ok := f.participants[key(contestID, userID)]
	if !ok {
		return errs.ParticipantNotFound
	}
	p.TotalScore = agg.TotalScore
	p.TotalPenalty = agg.TotalPenalty
	p.ProblemsAttempted = agg.ProblemsAttempted
	p.ProblemsSolved = agg.ProblemsSolved
	return nil
}

func (f *fakeParticipantRepo) UpdateRank(ctx context.Context, contestID uuid.UUID, userID string, rank int) error {
	p, ok := f.participants[key(contestID, userID)]
	if !ok {
		return errs.ParticipantNotFound
	}
	r := rank
	p.Rank = &r
	return nil
}

func (f *fakeParticipantRepo) UpdateTerminationCause(ctx context.Context, contestID uuid.UUID, userID string, cause domain.TerminationCause) error {
	p, ok := f.participants[key(contestID, userID)]
	if !ok {
		return errs.ParticipantNotFound
	}
	p.TerminationCause = cause
	return nil
}

func (f *fakeParticipantRepo) Disqualify(ctx context.Context, contestID uuid.UUID, userID string, reason string) (bool, error) {
	p, ok := f.participants[key(contestID, userID)]
	if !ok {
		return false, errs.ParticipantNotFound
	}
	p.IsDisqualified = true
	p.DisqualificationReason = reason
	return true, nil
}

func (f *fakeParticipantRepo) DeleteParticipant(ctx context.Context, contestID uuid.UUID, userID string) (bool, error) {
	k := key(contestID, userID)
	if _, ok := f.participants[k]; !ok {
		return false, nil
	}
	delete(f.participants, k)
	return true, nil
}

func (f *fakeParticipantRepo) DeleteByContest(ctx context.Context, contestID uuid.UUID) (int64, error) {
	var n int64
	for k, p := range f.participants {
		if p.ContestID == contestID {
			delete(f.participants, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeParticipantRepo) CountByContest(ctx context.Context, contestID uuid.UUID) (int, error) {
	n := 0
	for _, p := range f.participants {
		if p.ContestID == contestID {
			n++
		}
	}
	return n, nil
}

type fakeContestRepo struct {
	contests map[uuid.UUID]*domain.Contest
}

func newFakeContestRepo(contests ...*domain.Contest) *fakeContestRepo {
	repo := &fakeContestRepo{contests: make(map[uuid.UUID]*domain.Contest)}
	for _, c := range contests {
		repo.contests[c.ID] = c
	}
	return repo
}

func (f *fakeContestRepo) SaveContest(ctx context.Context, c *domain.Contest) error {
	f.contests[c.ID] = c
	return nil
}

func (f *fakeContestRepo) GetContest(ctx context.Context, contestID uuid.UUID) (*domain.Contest, error) {
	c, ok := f.contests[contestID]
	if !ok {
		return nil, errs.ContestNotFound
	}
	return c, nil
}

func (f *fakeContestRepo) ListContests(ctx context.Context, filter secondary.ContestFilter) ([]*domain.Contest, error) {
	var out []*domain.Contest
	for _, c := range f.contests {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeContestRepo) ListExpiredContests(ctx context.Context, now time.Time) ([]*domain.Contest, error) {
	var out []*domain.Contest
	for _, c := range f.contests {
		if c.EndTime.Before(now) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContestRepo) UpdateTerminationCause(ctx context.Context, contestID uuid.UUID, cause domain.TerminationCause) error {
	c, ok := f.contests[contestID]
	if !ok {
		return errs.ContestNotFound
	}
	c.TerminationCause = cause
	return nil
}

func (f *fakeContestRepo) AddParticipantID(ctx context.Context, contestID uuid.UUID, userID string) error {
	c, ok := f.contests[contestID]
	if !ok {
		return errs.ContestNotFound
	}
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return nil
		}
	}
	c.ParticipantIDs = append(c.ParticipantIDs, userID)
	return nil
}

func (f *fakeContestRepo) RemoveParticipantID(ctx context.Context, contestID uuid.UUID, userID string) error {
	c, ok := f.contests[contestID]
	if !ok {
		return errs.ContestNotFound
	}
	out := c.ParticipantIDs[:0]
	for _, id := range c.ParticipantIDs {
		if id != userID {
			out = append(out, id)
		}
	}
	c.ParticipantIDs = out
	return nil
}

func (f *fakeContestRepo) SetProblems(ctx context.Context, contestID uuid.UUID, problems []domain.ContestProblem) error {
	c, ok := f.contests[contestID]
	if !ok {
		return errs.ContestNotFound
	}
	c.Problems = problems
	return nil
}

func (f *fakeContestRepo) AddAnnouncement(ctx context.Context, contestID uuid.UUID, a domain.Announcement) error {
	c, ok := f.contests[contestID]
	if !ok {
		return errs.ContestNotFound
	}
	c.Announcements = append(c.Announcements, a)
	return nil
}

func (f *fakeContestRepo) DeleteContest(ctx context.Context, contestID uuid.UUID) (bool, error) {
	if _, ok := f.contests[contestID]; !ok {
		return false, nil
	}
	delete(f.contests, contestID)
	return true, nil
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

type fakeRefresher struct {
	calls int
	apply func()
}

func (f *fakeRefresher) UpdateRankings(ctx context.Context, contestID uuid.UUID) (bool, error) {
	f.calls++
	if f.apply != nil {
		f.apply()
	}
	return true, nil
}

func newTestContest() *domain.Contest {
	return domain.NewContest("Weekly Round", "", "public", "admin-1", time.Now().Add(-time.Hour), 120)
}

func TestRegisterDuplicateReturnsAlreadyRegistered(t *testing.T) {
	contest := newTestContest()
	participantRepo := newFakeParticipantRepo()
	svc := NewRegistrationService(participantRepo, newFakeContestRepo(contest), &fakeDirectory{}, &fakeRefresher{}, nopLogger{})

	if _, err := svc.Register(context.Background(), contest.ID, "u1", domain.EnrollmentSelf); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := svc.Register(context.Background(), contest.ID, "u1", domain.EnrollmentSelf)
	if !errors.Is(err, errs.AlreadyRegistered) {
		t.Fatalf("expected AlreadyRegistered, got %v", err)
	}
}

func TestRegisterTranslatesStorageConflict(t *testing.T) {
	// Simulates losing the unique-index race: the repo reports a conflict
	// even though no prior read saw the row.
	contest := newTestContest()
	participantRepo := newFakeParticipantRepo()
	participantRepo.createErr = errs.StorageConflict
	svc := NewRegistrationService(participantRepo, newFakeContestRepo(contest), &fakeDirectory{}, &fakeRefresher{}, nopLogger{})

	_, err := svc.Register(context.Background(), contest.ID, "u1", domain.EnrollmentSelf)
	if !errors.Is(err, errs.AlreadyRegistered) {
		t.Fatalf("expected AlreadyRegistered, got %v", err)
	}
}

func TestRegisterUnknownContest(t *testing.T) {
	svc := NewRegistrationService(newFakeParticipantRepo(), newFakeContestRepo(), &fakeDirectory{}, &fakeRefresher{}, nopLogger{})

	_, err := svc.Register(context.Background(), uuid.New(), "u1", domain.EnrollmentSelf)
	if !errors.Is(err, errs.ContestNotFound) {
		t.Fatalf("expected ContestNotFound, got %v", err)
	}
}

func TestRegisterUpdatesMembershipProjection(t *testing.T) {
	contest := newTestContest()
	contestRepo := newFakeContestRepo(contest)
	svc := NewRegistrationService(newFakeParticipantRepo(), contestRepo, &fakeDirectory{}, &fakeRefresher{}, nopLogger{})

	if _, err := svc.Register(context.Background(), contest.ID, "u1", domain.EnrollmentAdmin); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if len(contest.ParticipantIDs) != 1 || contest.ParticipantIDs[0] != "u1" {
		t.Fatalf("membership projection not updated: %v", contest.ParticipantIDs)
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	contest := newTestContest()
	participantRepo := newFakeParticipantRepo()
	svc := NewRegistrationService(participantRepo, newFakeContestRepo(contest), &fakeDirectory{}, &fakeRefresher{}, nopLogger{})

	if _, err := svc.Register(context.Background(), contest.ID, "u1", domain.EnrollmentSelf); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	removed, err := svc.Unregister(context.Background(), contest.ID, "u1")
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	removed, err = svc.Unregister(context.Background(), contest.ID, "u1")
	if err != nil {
		t.Fatalf("second unregister errored: %v", err)
	}
	if removed {
		t.Fatal("second unregister reported a removal")
	}
}

func TestDisqualifyPreservesScore(t *testing.T) {
	contest := newTestContest()
	participantRepo := newFakeParticipantRepo()
	svc := NewRegistrationService(participantRepo, newFakeContestRepo(contest), &fakeDirectory{}, &fakeRefresher{}, nopLogger{})

	p, err := svc.Register(context.Background(), contest.ID, "u1", domain.EnrollmentSelf)
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	p.TotalScore = 180
	p.ProblemsSolved = []string{"p1", "p2"}

	if _, err := svc.Disqualify(context.Background(), contest.ID, "u1", "plagiarism"); err != nil {
		t.Fatalf("disqualify failed: %v", err)
	}

	got, _ := participantRepo.GetParticipant(context.Background(), contest.ID, "u1")
	if !got.IsDisqualified {
		t.Fatal("participant not flagged")
	}
	if got.DisqualificationReason != "plagiarism" {
		t.Fatalf("reason not stored: %q", got.DisqualificationReason)
	}
	if got.TotalScore != 180 || len(got.ProblemsSolved) != 2 {
		t.Fatalf("score history altered: score=%d solved=%v", got.TotalScore, got.ProblemsSolved)
	}
}

func TestListParticipantsDegradesDisplayName(t *testing.T) {
	contest := newTestContest()
	participantRepo := newFakeParticipantRepo()
	directory := &fakeDirectory{profiles: map[string]*domain.UserProfile{
		"u1": {ID: "u1", FirstName: "Ada", LastName: "Lovelace"},
	}}
	svc := NewRegistrationService(participantRepo, newFakeContestRepo(contest), directory, &fakeRefresher{}, nopLogger{})

	for _, userID := range []string{"u1", "u2"} {
		if _, err := svc.Register(context.Background(), contest.ID, userID, domain.EnrollmentSelf); err != nil {
			t.Fatalf("registration failed: %v", err)
		}
	}

	listed, err := svc.ListParticipants(context.Background(), contest.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	names := make(map[string]string, len(listed))
	for _, e := range listed {
		names[e.UserID] = e.UserName
	}
	if names["u1"] != "Ada Lovelace" {
		t.Fatalf("expected directory name, got %q", names["u1"])
	}
	if names["u2"] != "u2" {
		t.Fatalf("expected raw id fallback, got %q", names["u2"])
	}
}

func TestGetUserEnrollmentsRefreshesMissingRanks(t *testing.T) {
	contest := newTestContest()
	participantRepo := newFakeParticipantRepo()
	refresher := &fakeRefresher{}
	refresher.apply = func() {
		_ = participantRepo.UpdateRank(context.Background(), contest.ID, "u1", 1)
	}
	svc := NewRegistrationService(participantRepo, newFakeContestRepo(contest), &fakeDirectory{}, refresher, nopLogger{})

	if _, err := svc.Register(context.Background(), contest.ID, "u1", domain.EnrollmentSelf); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	enrollments, err := svc.GetUserEnrollments(context.Background(), "u1")
	if err != nil {
		t.Fatalf("enrollments failed: %v", err)
	}
	if refresher.calls != 1 {
		t.Fatalf("expected one ranking refresh, got %d", refresher.calls)
	}
	if len(enrollments) != 1 || enrollments[0].Rank == nil || *enrollments[0].Rank != 1 {
		t.Fatalf("rank not refreshed: %+v", enrollments)
	}
}
