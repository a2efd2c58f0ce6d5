package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/domain"
	"gitlab.com/cse-2025.net/internal/static/errs"
)

var _ IRegistrationService = (*RegistrationService)(nil)

// RegistrationService implements participant enrollment on top of the
// participant and contest repositories.
type RegistrationService struct {
	participantRepo secondary.ParticipantRepository
	contestRepo     secondary.ContestRepository
	directory       primary.UserDirectory
	rankings        RankingRefresher
	logger          primary.Logger
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(
	participantRepo secondary.ParticipantRepository,
	contestRepo secondary.ContestRepository,
	directory primary.UserDirectory,
	rankings RankingRefresher,
	logger primary.Logger,
) *RegistrationService {
	return &RegistrationService{
		participantRepo: participantRepo,
		contestRepo:     contestRepo,
		directory:       directory,
		rankings:        rankings,
		logger:          logger,
	}
}

// Register enrolls a user in a contest.
func (s *RegistrationService) Register(ctx context.Context, contestID uuid.UUID, userID string, enrollmentType domain.EnrollmentType) (*domain.Participant, error) {
	if _, err := s.contestRepo.GetContest(ctx, contestID); err != nil {
		return nil, err
	}

	participant := domain.NewParticipant(contestID, userID, enrollmentType)

	// The insert carries the uniqueness guarantee. Two concurrent
	// registrations for the same pair both reach this point; exactly one
	// wins, the other surfaces the index violation.
	if err := s.participantRepo.CreateParticipant(ctx, participant); err != nil {
		if errors.Is(err, errs.StorageConflict) {
			s.logger.Warn("Duplicate registration attempt",
				"contestId", contestID, "userId", userID)
			return nil, errs.AlreadyRegistered
		}
		s.logger.Error("Failed to create participant",
			"contestId", contestID, "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	// The membership projection on the contest record is a cache; a failed
	// update is logged, not fatal, and repaired by the next rebuild.
	if err := s.contestRepo.AddParticipantID(ctx, contestID, userID); err != nil {
		s.logger.Error("Failed to update contest membership projection",
			"contestId", contestID, "userId", userID, "error", err)
	}

	s.logger.Info("Participant registered",
		"contestId", contestID, "userId", userID, "enrollmentType", enrollmentType)
	return participant, nil
}

// Unregister removes an enrollment.
func (s *RegistrationService) Unregister(ctx context.Context, contestID uuid.UUID, userID string) (bool, error) {
	deleted, err := s.participantRepo.DeleteParticipant(ctx, contestID, userID)
	if err != nil {
		s.logger.Error("Failed to delete participant",
			"contestId", contestID, "userId", userID, "error", err)
		return false, fmt.Errorf("failed to delete participant: %w", err)
	}
	if !deleted {
		return false, nil
	}

	if err := s.contestRepo.RemoveParticipantID(ctx, contestID, userID); err != nil {
		s.logger.Error("Failed to update contest membership projection",
			"contestId", contestID, "userId", userID, "error", err)
	}

	s.logger.Info("Participant unregistered", "contestId", contestID, "userId", userID)
	return true, nil
}

// Disqualify flags a participant. History and score are preserved so the
// participant stays visible, flagged, on the leaderboard.
func (s *RegistrationService) Disqualify(ctx context.Context, contestID uuid.UUID, userID string, reason string) (bool, error) {
	updated, err := s.participantRepo.Disqualify(ctx, contestID, userID, reason)
	if err != nil {
		s.logger.Error("Failed to disqualify participant",
			"contestId", contestID, "userId", userID, "error", err)
		return false, fmt.Errorf("failed to disqualify participant: %w", err)
	}
	if updated {
		s.logger.Info("Participant disqualified",
			"contestId", contestID, "userId", userID, "reason", reason)
	}
	return updated, nil
}

// ListParticipants returns enrollments enriched with display names.
func (s *RegistrationService) ListParticipants(ctx context.Context, contestID uuid.UUID) ([]EnrolledParticipant, error) {
	participants, err := s.participantRepo.ListByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	enriched := make([]EnrolledParticipant, 0, len(participants))
	for _, p := range participants {
		enriched = append(enriched, EnrolledParticipant{
			Participant: p,
			UserName:    s.displayName(ctx, p.UserID),
		})
	}
	return enriched, nil
}

// GetUserEnrollments returns a user's enrollments, refreshing rankings for
// contests whose cached rank is missing.
func (s *RegistrationService) GetUserEnrollments(ctx context.Context, userID string) ([]*domain.Participant, error) {
	participants, err := s.participantRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	refreshed := false
	for _, p := range participants {
		if p.Rank != nil {
			continue
		}
		if _, err := s.rankings.UpdateRankings(ctx, p.ContestID); err != nil {
			s.logger.Warn("Failed to refresh rankings for enrollment listing",
				"contestId", p.ContestID, "error", err)
			continue
		}
		refreshed = true
	}
	if !refreshed {
		return participants, nil
	}

	return s.participantRepo.ListByUser(ctx, userID)
}

func (s *RegistrationService) displayName(ctx context.Context, userID string) string {
	profile, err := s.directory.GetUser(ctx, userID)
	if err != nil || profile == nil {
		// Directory outages must not break listings; fall back to the id.
		return userID
	}
	return profile.DisplayName()
}
