package registration

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/domain"
)

// EnrolledParticipant is a participant enriched with directory details for
// administrative listings.
type EnrolledParticipant struct {
	*domain.Participant
	UserName string `json:"user_name"`
}

// IRegistrationService manages participant enrollment for contests.
type IRegistrationService interface {
	// Register enrolls a user. Returns errs.AlreadyRegistered when a
	// participant already exists for the (contest, user) pair; the race
	// between two concurrent registrations is settled by the storage-level
	// unique constraint, not by locking here.
	Register(ctx context.Context, contestID uuid.UUID, userID string, enrollmentType domain.EnrollmentType) (*domain.Participant, error)

	// Unregister removes an enrollment. Idempotent: removing a non-member
	// returns false without error.
	Unregister(ctx context.Context, contestID uuid.UUID, userID string) (bool, error)

	// Disqualify flags a participant, keeping score and history intact.
	// Disqualified participants remain visible on the leaderboard.
	Disqualify(ctx context.Context, contestID uuid.UUID, userID string, reason string) (bool, error)

	// ListParticipants returns a contest's participants with display names.
	ListParticipants(ctx context.Context, contestID uuid.UUID) ([]EnrolledParticipant, error)

	// GetUserEnrollments returns a user's enrollments across contests,
	// refreshing rankings for contests where the cached rank is missing.
	GetUserEnrollments(ctx context.Context, userID string) ([]*domain.Participant, error)
}

// RankingRefresher is the slice of the leaderboard service the enrollment
// listing needs to freshen stale ranks.
type RankingRefresher interface {
	UpdateRankings(ctx context.Context, contestID uuid.UUID) (bool, error)
}
