package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/core/scoring"
	"gitlab.com/cse-2025.net/internal/domain"
	"gitlab.com/cse-2025.net/internal/static/errs"
)

var _ IScoringService = (*ScoringService)(nil)

// ScoringService implements submission recording with recompute-on-write
// aggregate maintenance. The recompute deliberately reads the full history
// instead of patching a running total: a redelivered judge callback or two
// racing submissions then converge on the same state regardless of
// interleaving.
type ScoringService struct {
	contestRepo     secondary.ContestRepository
	participantRepo secondary.ParticipantRepository
	submissionRepo  secondary.SubmissionRepository
	cache           secondary.LeaderboardCache
	logger          primary.Logger
}

// NewScoringService creates a new scoring service.
func NewScoringService(
	contestRepo secondary.ContestRepository,
	participantRepo secondary.ParticipantRepository,
	submissionRepo secondary.SubmissionRepository,
	cache secondary.LeaderboardCache,
	logger primary.Logger,
) *ScoringService {
	return &ScoringService{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		submissionRepo:  submissionRepo,
		cache:           cache,
		logger:          logger,
	}
}

// RecordSubmission appends a graded attempt and rescores its owner.
func (s *ScoringService) RecordSubmission(ctx context.Context, submissionID uuid.UUID, contestID uuid.UUID, problemID, userID string, verdict domain.Verdict) (*domain.Submission, error) {
	if _, err := s.contestRepo.GetContest(ctx, contestID); err != nil {
		return nil, err
	}

	// A submission must not exist without a participant. This is a
	// data-integrity fault on the caller's side; refuse the record rather
	// than scoring into the void.
	if _, err := s.participantRepo.GetParticipant(ctx, contestID, userID); err != nil {
		if errors.Is(err, errs.ParticipantNotFound) {
			s.logger.Error("Submission for unregistered user rejected",
				"contestId", contestID, "userId", userID, "problemId", problemID)
			return nil, errs.ParticipantNotFound
		}
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}

	submission := domain.NewSubmission(submissionID, contestID, problemID, userID, verdict)
	if err := s.submissionRepo.SaveSubmission(ctx, submission); err != nil {
		s.logger.Error("Failed to save submission",
			"submissionId", submission.ID, "contestId", contestID, "error", err)
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	s.logger.Info("Submission recorded",
		"submissionId", submission.ID,
		"contestId", contestID,
		"userId", userID,
		"problemId", problemID,
		"status", submission.Status)

	if _, err := s.RescoreParticipant(ctx, contestID, userID); err != nil {
		// The submission is durable; the aggregate catches up on the next
		// rescore or batch pass.
		s.logger.Error("Failed to rescore participant after submission",
			"contestId", contestID, "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to rescore participant: %w", err)
	}

	if err := s.cache.InvalidateLeaderboard(ctx, contestID); err != nil {
		s.logger.Warn("Failed to invalidate leaderboard cache",
			"contestId", contestID, "error", err)
	}

	return submission, nil
}

// RescoreParticipant recomputes one participant's aggregates from scratch.
func (s *ScoringService) RescoreParticipant(ctx context.Context, contestID uuid.UUID, userID string) (*domain.Participant, error) {
	participant, err := s.participantRepo.GetParticipant(ctx, contestID, userID)
	if err != nil {
		if errors.Is(err, errs.ParticipantNotFound) {
			s.logger.Error("Rescore requested for missing participant",
				"contestId", contestID, "userId", userID)
		}
		return nil, err
	}

	contest, err := s.contestRepo.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}

	// All of this user's submissions in the contest, not just the problem
	// that changed: the full recompute is what makes double delivery and
	// write races harmless.
	subs, err := s.submissionRepo.ListByParticipant(ctx, contestID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	problemPoints := scoring.ProblemPoints(contest.Problems)
	best := scoring.BestScores(problemPoints, subs)

	agg := secondary.ParticipantAggregate{
		TotalScore:        scoring.TotalScore(best),
		TotalPenalty:      scoring.TotalPenalty(subs),
		ProblemsAttempted: scoring.AttemptedProblems(subs),
		ProblemsSolved:    scoring.SolvedProblems(best),
	}
	if err := s.participantRepo.UpdateAggregates(ctx, contestID, userID, agg); err != nil {
		return nil, fmt.Errorf("failed to update participant aggregates: %w", err)
	}

	participant.TotalScore = agg.TotalScore
	participant.TotalPenalty = agg.TotalPenalty
	participant.ProblemsAttempted = agg.ProblemsAttempted
	participant.ProblemsSolved = agg.ProblemsSolved

	s.logger.Debug("Participant rescored",
		"contestId", contestID,
		"userId", userID,
		"totalScore", agg.TotalScore,
		"solved", len(agg.ProblemsSolved))
	return participant, nil
}

// GetParticipantSubmissions lists one user's attempts.
func (s *ScoringService) GetParticipantSubmissions(ctx context.Context, contestID uuid.UUID, userID string) ([]*domain.Submission, error) {
	return s.submissionRepo.ListByParticipant(ctx, contestID, userID)
}

// GetContestSubmissions lists all attempts in a contest.
func (s *ScoringService) GetContestSubmissions(ctx context.Context, contestID uuid.UUID) ([]*domain.Submission, error) {
	return s.submissionRepo.ListByContest(ctx, contestID)
}
