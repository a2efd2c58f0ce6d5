package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/domain"
)

type QuestionRepository interface {
	// SaveQuestion appends a new question.
	SaveQuestion(ctx context.Context, question *domain.Question) error

	// GetQuestion retrieves one question; errs.QuestionNotFound when absent.
	GetQuestion(ctx context.Context, questionID uuid.UUID) (*domain.Question, error)

	// AttachAnswer records the answer and flips status to answered. The
	// flip is one-way: an already answered question is left untouched and
	// reported via errs.QuestionAlreadyAnswered.
	AttachAnswer(ctx context.Context, questionID uuid.UUID, answer, answeredBy string) error

	// ListByContest retrieves a contest's questions, newest first.
	// publicOnly restricts to publicly visible ones.
	ListByContest(ctx context.Context, contestID uuid.UUID, publicOnly bool) ([]*domain.Question, error)

	// DeleteByContest removes all questions of a contest (cascade path).
	DeleteByContest(ctx context.Context, contestID uuid.UUID) (int64, error)
}
