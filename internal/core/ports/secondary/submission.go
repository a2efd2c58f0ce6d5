package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/domain"
)

type SubmissionRepository interface {
	// SaveSubmission appends a graded attempt. Saving the same submission
	// id twice is a no-op so redelivered judge callbacks stay harmless.
	SaveSubmission(ctx context.Context, submission *domain.Submission) error

	// GetSubmission retrieves one submission by id.
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error)

	// ListByContest retrieves every submission of a contest in stable
	// submission order (submission_time, then seq).
	ListByContest(ctx context.Context, contestID uuid.UUID) ([]*domain.Submission, error)

	// ListByParticipant retrieves one user's submissions in a contest in
	// stable submission order.
	ListByParticipant(ctx context.Context, contestID uuid.UUID, userID string) ([]*domain.Submission, error)

	// ListByProblem retrieves all attempts at one problem of a contest.
	ListByProblem(ctx context.Context, contestID uuid.UUID, problemID string) ([]*domain.Submission, error)

	// CountByContest counts submissions of a contest.
	CountByContest(ctx context.Context, contestID uuid.UUID) (int, error)

	// DeleteByContest removes all submissions of a contest (cascade path).
	DeleteByContest(ctx context.Context, contestID uuid.UUID) (int64, error)
}
