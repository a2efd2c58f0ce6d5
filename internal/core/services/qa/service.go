package qa

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/domain"
)

// IQAService handles contest Q&A and announcements. Neither interacts
// with scoring.
type IQAService interface {
	// SubmitQuestion appends a participant question in pending state.
	SubmitQuestion(ctx context.Context, contestID uuid.UUID, userID, problemID, text string, isPublic bool) (*domain.Question, error)

	// AnswerQuestion attaches an answer and flips the question to
	// answered. The flip is one-way; answering an answered question
	// returns errs.QuestionAlreadyAnswered.
	AnswerQuestion(ctx context.Context, questionID uuid.UUID, answer, answeredBy string) (bool, error)

	// GetContestQuestions lists questions, optionally public ones only.
	GetContestQuestions(ctx context.Context, contestID uuid.UUID, publicOnly bool) ([]*domain.Question, error)

	// AddAnnouncement appends a broadcast message to a contest.
	AddAnnouncement(ctx context.Context, contestID uuid.UUID, message string, priority domain.AnnouncementPriority) (bool, error)

	// GetAnnouncements lists a contest's announcements.
	GetAnnouncements(ctx context.Context, contestID uuid.UUID) ([]domain.Announcement, error)
}
