package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/domain"
)

// ParticipantAggregate carries the recomputed scoring state written back in
// one update.
type ParticipantAggregate struct {
	TotalScore        int
	TotalPenalty      int
	ProblemsAttempted []string
	ProblemsSolved    []string
}

type ParticipantRepository interface {
	// CreateParticipant inserts a new enrollment. A violation of the
	// (contest_id, user_id) unique index is returned as
	// errs.StorageConflict; the check-then-insert race is settled here,
	// not by application locking.
	CreateParticipant(ctx context.Context, participant *domain.Participant) error

	// GetParticipant retrieves the record for a (contest, user) pair;
	// returns errs.ParticipantNotFound when absent.
	GetParticipant(ctx context.Context, contestID uuid.UUID, userID string) (*domain.Participant, error)

	// ListByContest retrieves all participants of a contest.
	ListByContest(ctx context.Context, contestID uuid.UUID) ([]*domain.Participant, error)

	// ListByUser retrieves a user's enrollments across contests.
	ListByUser(ctx context.Context, userID string) ([]*domain.Participant, error)

	// UpdateAggregates writes the recomputed scoring state unconditionally;
	// idempotence of the recompute makes last-writer-wins safe.
	UpdateAggregates(ctx context.Context, contestID uuid.UUID, userID string, agg ParticipantAggregate) error

	// UpdateRank persists a rank assigned by a ranking pass.
	UpdateRank(ctx context.Context, contestID uuid.UUID, userID string, rank int) error

	// UpdateTerminationCause sets the cause on one participant.
	UpdateTerminationCause(ctx context.Context, contestID uuid.UUID, userID string, cause domain.TerminationCause) error

	// Disqualify flags a participant without touching scoring history.
	Disqualify(ctx context.Context, contestID uuid.UUID, userID string, reason string) (bool, error)

	// DeleteParticipant removes one enrollment; false when nothing matched.
	DeleteParticipant(ctx context.Context, contestID uuid.UUID, userID string) (bool, error)

	// DeleteByContest removes all enrollments of a contest (cascade path).
	DeleteByContest(ctx context.Context, contestID uuid.UUID) (int64, error)

	// CountByContest counts enrollments of a contest.
	CountByContest(ctx context.Context, contestID uuid.UUID) (int, error)
}
