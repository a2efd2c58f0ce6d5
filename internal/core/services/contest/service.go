package contest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/domain"
)

// CreateContestInput carries the administrator-supplied fields for a new
// contest.
type CreateContestInput struct {
	Title           string
	Description     string
	Visibility      string
	StartTime       time.Time
	DurationMinutes int
	CreatedBy       string
	Problems        []domain.ContestProblem
}

// IContestService manages contest records and their problem lists.
type IContestService interface {
	CreateContest(ctx context.Context, input CreateContestInput) (*domain.Contest, error)
	GetContest(ctx context.Context, contestID uuid.UUID) (*domain.Contest, error)
	ListContests(ctx context.Context, filter secondary.ContestFilter) ([]*domain.Contest, error)

	// DeleteContest removes the contest and cascades to its participants,
	// submissions and questions.
	DeleteContest(ctx context.Context, contestID uuid.UUID) (bool, error)

	// AddProblem appends a problem at the end of the ordered list.
	AddProblem(ctx context.Context, contestID uuid.UUID, problem domain.ContestProblem) (*domain.ContestProblem, error)

	// RemoveProblem drops a problem and renumbers the remaining order.
	RemoveProblem(ctx context.Context, contestID uuid.UUID, problemID string) (bool, error)

	// UpdateProblem replaces a problem's mutable fields, preserving its id.
	UpdateProblem(ctx context.Context, contestID uuid.UUID, problem domain.ContestProblem) (bool, error)

	GetProblems(ctx context.Context, contestID uuid.UUID) ([]domain.ContestProblem, error)

	// RebuildMembership recomputes the denormalized participant id list on
	// the contest record from the participant store. The projection is
	// never trusted during integrity repair.
	RebuildMembership(ctx context.Context, contestID uuid.UUID) error
}
