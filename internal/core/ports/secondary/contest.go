package secondary

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/domain"
)

// ContestFilter narrows ListContests; zero values match everything.
type ContestFilter struct {
	Visibility string
	EndedOnly  bool
}

type ContestRepository interface {
	// SaveContest inserts or fully replaces a contest record.
	SaveContest(ctx context.Context, contest *domain.Contest) error

	// GetContest retrieves a contest by id; returns errs.ContestNotFound
	// when absent.
	GetContest(ctx context.Context, contestID uuid.UUID) (*domain.Contest, error)

	// ListContests retrieves contests matching the filter, newest first.
	ListContests(ctx context.Context, filter ContestFilter) ([]*domain.Contest, error)

	// ListExpiredContests retrieves contests whose end time lies before now.
	ListExpiredContests(ctx context.Context, now time.Time) ([]*domain.Contest, error)

	// UpdateTerminationCause sets the contest-level termination cause.
	UpdateTerminationCause(ctx context.Context, contestID uuid.UUID, cause domain.TerminationCause) error

	// AddParticipantID / RemoveParticipantID maintain the denormalized
	// membership projection on the contest record.
	AddParticipantID(ctx context.Context, contestID uuid.UUID, userID string) error
	RemoveParticipantID(ctx context.Context, contestID uuid.UUID, userID string) error

	// SetProblems replaces the ordered problem list.
	SetProblems(ctx context.Context, contestID uuid.UUID, problems []domain.ContestProblem) error

	// AddAnnouncement appends an announcement to the contest record.
	AddAnnouncement(ctx context.Context, contestID uuid.UUID, announcement domain.Announcement) error

	// DeleteContest removes the contest row only; cascading belongs to the
	// contest service.
	DeleteContest(ctx context.Context, contestID uuid.UUID) (bool, error)
}
