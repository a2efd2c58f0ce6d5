package qa

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/domain"
)

var _ IQAService = (*QAService)(nil)

// QAService implements contest Q&A and announcements.
type QAService struct {
	contestRepo  secondary.ContestRepository
	questionRepo secondary.QuestionRepository
	logger       primary.Logger
}

// NewQAService creates a new Q&A service.
func NewQAService(
	contestRepo secondary.ContestRepository,
	questionRepo secondary.QuestionRepository,
	logger primary.Logger,
) *QAService {
	return &QAService{
		contestRepo:  contestRepo,
		questionRepo: questionRepo,
		logger:       logger,
	}
}

// SubmitQuestion appends a new pending question.
func (s *QAService) SubmitQuestion(ctx context.Context, contestID uuid.UUID, userID, problemID, text string, isPublic bool) (*domain.Question, error) {
	if _, err := s.contestRepo.GetContest(ctx, contestID); err != nil {
		return nil, err
	}

	question := domain.NewQuestion(contestID, userID, problemID, text, isPublic)
	if err := s.questionRepo.SaveQuestion(ctx, question); err != nil {
		s.logger.Error("Failed to save question",
			"contestId", contestID, "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to save question: %w", err)
	}

	s.logger.Info("Question submitted",
		"contestId", contestID, "userId", userID, "questionId", question.ID)
	return question, nil
}

// AnswerQuestion records an answer; pending -> answered, one way.
func (s *QAService) AnswerQuestion(ctx context.Context, questionID uuid.UUID, answer, answeredBy string) (bool, error) {
	if err := s.questionRepo.AttachAnswer(ctx, questionID, answer, answeredBy); err != nil {
		s.logger.Error("Failed to answer question",
			"questionId", questionID, "error", err)
		return false, err
	}

	s.logger.Info("Question answered", "questionId", questionID, "answeredBy", answeredBy)
	return true, nil
}

// GetContestQuestions lists a contest's questions, newest first.
func (s *QAService) GetContestQuestions(ctx context.Context, contestID uuid.UUID, publicOnly bool) ([]*domain.Question, error) {
	return s.questionRepo.ListByContest(ctx, contestID, publicOnly)
}

// AddAnnouncement appends a broadcast message to the contest record.
func (s *QAService) AddAnnouncement(ctx context.Context, contestID uuid.UUID, message string, priority domain.AnnouncementPriority) (bool, error) {
	if priority == "" {
		priority = domain.PriorityMedium
	}
	announcement := domain.Announcement{
		ID:        uuid.New().String(),
		Message:   message,
		Timestamp: time.Now(),
		Priority:  priority,
	}

	if err := s.contestRepo.AddAnnouncement(ctx, contestID, announcement); err != nil {
		s.logger.Error("Failed to add announcement",
			"contestId", contestID, "error", err)
		return false, fmt.Errorf("failed to add announcement: %w", err)
	}

	s.logger.Info("Announcement added",
		"contestId", contestID, "announcementId", announcement.ID, "priority", priority)
	return true, nil
}

// GetAnnouncements lists a contest's announcements.
func (s *QAService) GetAnnouncements(ctx context.Context, contestID uuid.UUID) ([]domain.Announcement, error) {
	contest, err := s.contestRepo.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	return contest.Announcements, nil
}
