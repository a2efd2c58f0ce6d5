package qa

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
	if f.contest == nil || f.contest.ID != contestID {
		return errs.ContestNotFound
	}
	f.contest.Announcements = append(f.contest.Announcements, a)
	return nil
}
func (f *fakeContestRepo) DeleteContest(ctx context.Context, contestID uuid.UUID) (bool, error) {
	return false, nil
}

type fakeQuestionRepo struct {
	questions map[uuid.UUID]*domain.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[uuid.UUID]*domain.Question)}
}

func (f *fakeQuestionRepo) SaveQuestion(ctx context.Context, question *domain.Question) error {
	f.questions[question.ID] = question
	return nil
}
func (f *fakeQuestionRepo) GetQuestion(ctx context.Context, questionID uuid.UUID) (*domain.Question, error) {
	q, ok := f.questions[questionID]
	if !ok {
		return nil, errs.QuestionNotFound
	}
	return q, nil
}
func (f *fakeQuestionRepo) AttachAnswer(ctx context.Context, questionID uuid.UUID, answer, answeredBy string) error {
	q, ok := f.questions[questionID]
	if !ok {
		return errs.QuestionNotFound
	}
	if q.Status == domain.QuestionAnswered {
		return errs.QuestionAlreadyAnswered
	}
	now := time.Now()
	q.Answer = answer
	q.AnsweredBy = answeredBy
	q.AnsweredAt = &now
	q.Status = domain.QuestionAnswered
	return nil
}
func (f *fakeQuestionRepo) ListByContest(ctx context.Context, contestID uuid.UUID, publicOnly bool) ([]*domain.Question, error) {
	var out []*domain.Question
	for _, q := range f.questions {
		if q.ContestID != contestID {
			continue
		}
		if publicOnly && !q.IsPublic {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}
func (f *fakeQuestionRepo) DeleteByContest(ctx context.Context, contestID uuid.UUID) (int64, error) {
	return 0, nil
}

func setup() (*QAService, *fakeContestRepo, *fakeQuestionRepo) {
	contestRepo := &fakeContestRepo{
		contest: domain.NewContest("Round 1", "", "public", "admin-1", time.Now().Add(-time.Hour), 180),
	}
	questionRepo := newFakeQuestionRepo()
	return NewQAService(contestRepo, questionRepo, nopLogger{}), contestRepo, questionRepo
}

func TestSubmitQuestionStartsPending(t *testing.T) {
	svc, contestRepo, questionRepo := setup()

	q, err := svc.SubmitQuestion(context.Background(), contestRepo.contest.ID, "u1", "p1", "Is input sorted?", true)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if q.Status != domain.QuestionPending {
		t.Fatalf("expected pending status, got %q", q.Status)
	}
	if q.AnsweredAt != nil || q.Answer != "" {
		t.Fatal("new question must not carry an answer")
	}
	if _, ok := questionRepo.questions[q.ID]; !ok {
		t.Fatal("question not persisted")
	}
}

func TestSubmitQuestionUnknownContest(t *testing.T) {
	svc, _, _ := setup()

	_, err := svc.SubmitQuestion(context.Background(), uuid.New(), "u1", "", "hello?", false)
	if !errors.Is(err, errs.ContestNotFound) {
		t.Fatalf("expected ContestNotFound, got %v", err)
	}
}

func TestAnswerQuestionFlipsExactlyOnce(t *testing.T) {
	svc, contestRepo, _ := setup()
	q, err := svc.SubmitQuestion(context.Background(), contestRepo.contest.ID, "u1", "p1", "Clarify limits?", true)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	ok, err := svc.AnswerQuestion(context.Background(), q.ID, "N up to 1e5", "admin-1")
	if err != nil || !ok {
		t.Fatalf("first answer failed: ok=%v err=%v", ok, err)
	}
	if q.Status != domain.QuestionAnswered || q.Answer != "N up to 1e5" || q.AnsweredBy != "admin-1" {
		t.Fatalf("answer not recorded: %+v", q)
	}

	_, err = svc.AnswerQuestion(context.Background(), q.ID, "different answer", "admin-2")
	if !errors.Is(err, errs.QuestionAlreadyAnswered) {
		t.Fatalf("expected QuestionAlreadyAnswered, got %v", err)
	}
	if q.Answer != "N up to 1e5" || q.AnsweredBy != "admin-1" {
		t.Fatal("second answer attempt mutated the question")
	}
}

func TestAnswerUnknownQuestion(t *testing.T) {
	svc, _, _ := setup()

	_, err := svc.AnswerQuestion(context.Background(), uuid.New(), "answer", "admin-1")
	if !errors.Is(err, errs.QuestionNotFound) {
		t.Fatalf("expected QuestionNotFound, got %v", err)
	}
}

func TestGetContestQuestionsPublicOnly(t *testing.T) {
	svc, contestRepo, _ := setup()
	contestID := contestRepo.contest.ID
	if _, err := svc.SubmitQuestion(context.Background(), contestID, "u1", "", "public one", true); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := svc.SubmitQuestion(context.Background(), contestID, "u2", "", "private one", false); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	public, err := svc.GetContestQuestions(context.Background(), contestID, true)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(public) != 1 || public[0].Question != "public one" {
		t.Fatalf("public view leaked private questions: %+v", public)
	}

	all, err := svc.GetContestQuestions(context.Background(), contestID, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 questions for admins, got %d", len(all))
	}
}

func TestAddAnnouncementDefaultsPriority(t *testing.T) {
	svc, contestRepo, _ := setup()

	ok, err := svc.AddAnnouncement(context.Background(), contestRepo.contest.ID, "15 minutes remaining", "")
	if err != nil || !ok {
		t.Fatalf("add announcement failed: ok=%v err=%v", ok, err)
	}
	got := contestRepo.contest.Announcements
	if len(got) != 1 {
		t.Fatalf("expected 1 announcement, got %d", len(got))
	}
	if got[0].Priority != domain.PriorityMedium {
		t.Fatalf("expected medium default priority, got %q", got[0].Priority)
	}
	if got[0].ID == "" || got[0].Timestamp.IsZero() {
		t.Fatal("announcement missing id or timestamp")
	}
}

func TestGetAnnouncementsUnknownContest(t *testing.T) {
	svc, _, _ := setup()

	_, err := svc.GetAnnouncements(context.Background(), uuid.New())
	if !errors.Is(err, errs.ContestNotFound) {
		t.Fatalf("expected ContestNotFound, got %v", err)
	}
}
