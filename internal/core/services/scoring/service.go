package scoring

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/domain"
)

// IScoringService records graded submissions and keeps participant
// aggregates in sync with the submission log.
type IScoringService interface {
	// RecordSubmission appends a verdict to the submission log and then
	// rescores the participant. submissionID may be uuid.Nil; when the
	// judge callback carries its own id, passing it makes redelivery a
	// no-op append followed by an idempotent rescore.
	RecordSubmission(ctx context.Context, submissionID uuid.UUID, contestID uuid.UUID, problemID, userID string, verdict domain.Verdict) (*domain.Submission, error)

	// RescoreParticipant recomputes one participant's aggregates from the
	// full submission history and writes them back in one update. Safe to
	// call any number of times.
	RescoreParticipant(ctx context.Context, contestID uuid.UUID, userID string) (*domain.Participant, error)

	// GetParticipantSubmissions lists one user's attempts in a contest.
	GetParticipantSubmissions(ctx context.Context, contestID uuid.UUID, userID string) ([]*domain.Submission, error)

	// GetContestSubmissions lists every attempt in a contest.
	GetContestSubmissions(ctx context.Context, contestID uuid.UUID) ([]*domain.Submission, error)
}
