package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/domain"
)

var _ ILifecycleService = (*LifecycleService)(nil)

// LifecycleService implements the contest termination state machine.
type LifecycleService struct {
	contestRepo     secondary.ContestRepository
	participantRepo secondary.ParticipantRepository
	logger          primary.Logger
	now             func() time.Time
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(
	contestRepo secondary.ContestRepository,
	participantRepo secondary.ParticipantRepository,
	logger primary.Logger,
) *LifecycleService {
	return &LifecycleService{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		logger:          logger,
		now:             time.Now,
	}
}

// EndManually stops a contest by administrative action.
func (s *LifecycleService) EndManually(ctx context.Context, contestID uuid.UUID) (bool, error) {
	if _, err := s.contestRepo.GetContest(ctx, contestID); err != nil {
		return false, err
	}

	if err := s.contestRepo.UpdateTerminationCause(ctx, contestID, domain.CauseManuallyEnded); err != nil {
		s.logger.Error("Failed to set manual termination cause",
			"contestId", contestID, "error", err)
		return false, fmt.Errorf("failed to end contest: %w", err)
	}

	s.propagateCause(ctx, contestID, domain.CauseManuallyEnded)
	s.logger.Info("Contest manually ended", "contestId", contestID)
	return true, nil
}

// CheckExpiry applies the time-based transition. A ManuallyEnded cause is
// final and never regresses to TimeExpired, even after the clock passes
// the end time.
func (s *LifecycleService) CheckExpiry(ctx context.Context, contestID uuid.UUID) (domain.TerminationCause, error) {
	contest, err := s.contestRepo.GetContest(ctx, contestID)
	if err != nil {
		return domain.CauseNone, err
	}

	if contest.TerminationCause == domain.CauseManuallyEnded {
		return domain.CauseManuallyEnded, nil
	}

	if !s.now().After(contest.EndTime) {
		return contest.TerminationCause, nil
	}

	if contest.TerminationCause == domain.CauseTimeExpired {
		// Already expired; nothing to write.
		return domain.CauseTimeExpired, nil
	}

	if err := s.contestRepo.UpdateTerminationCause(ctx, contestID, domain.CauseTimeExpired); err != nil {
		s.logger.Error("Failed to set expiry termination cause",
			"contestId", contestID, "error", err)
		return contest.TerminationCause, fmt.Errorf("failed to expire contest: %w", err)
	}

	s.propagateCause(ctx, contestID, domain.CauseTimeExpired)
	s.logger.Info("Contest expired by clock", "contestId", contestID)
	return domain.CauseTimeExpired, nil
}

// SweepExpired scans all contests past their end time and applies
// CheckExpiry to each.
func (s *LifecycleService) SweepExpired(ctx context.Context) (domain.SweepResult, error) {
	contests, err := s.contestRepo.ListExpiredContests(ctx, s.now())
	if err != nil {
		return domain.SweepResult{}, fmt.Errorf("failed to list expired contests: %w", err)
	}

	result := domain.SweepResult{Total: len(contests)}
	for _, contest := range contests {
		before := contest.TerminationCause
		cause, err := s.CheckExpiry(ctx, contest.ID)
		if err != nil {
			s.logger.Error("Expiry check failed during sweep",
				"contestId", contest.ID, "error", err)
			continue
		}
		if before == domain.CauseNone && cause == domain.CauseTimeExpired {
			result.Updated++
		}
	}

	s.logger.Info("Expiry sweep finished",
		"total", result.Total, "updated", result.Updated)
	return result, nil
}

// propagateCause fans the cause out to every participant. Each write is
// retried once; a participant that still fails is logged and skipped so
// the remaining fan-out continues.
func (s *LifecycleService) propagateCause(ctx context.Context, contestID uuid.UUID, cause domain.TerminationCause) {
	participants, err := s.participantRepo.ListByContest(ctx, contestID)
	if err != nil {
		s.logger.Error("Failed to list participants for cause propagation",
			"contestId", contestID, "error", err)
		return
	}

	for _, p := range participants {
		err := s.participantRepo.UpdateTerminationCause(ctx, contestID, p.UserID, cause)
		if err != nil {
			err = s.participantRepo.UpdateTerminationCause(ctx, contestID, p.UserID, cause)
		}
		if err != nil {
			s.logger.Error("Failed to propagate termination cause",
				"contestId", contestID, "userId", p.UserID, "cause", cause, "error", err)
		}
	}
}
