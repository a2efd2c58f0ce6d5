package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/core/scoring"
	"gitlab.com/cse-2025.net/internal/domain"
)

var _ ILeaderboardService = (*LeaderboardService)(nil)

// LeaderboardService implements batch leaderboard generation as a pure
// function of (contest problems, participants, submission log). It applies
// the same scoring rule as the incremental scorer via the shared scoring
// package.
type LeaderboardService struct {
	contestRepo     secondary.ContestRepository
	participantRepo secondary.ParticipantRepository
	submissionRepo  secondary.SubmissionRepository
	cache           secondary.LeaderboardCache
	directory       primary.UserDirectory
	logger          primary.Logger
}

// NewLeaderboardService creates a new leaderboard service.
func NewLeaderboardService(
	contestRepo secondary.ContestRepository,
	participantRepo secondary.ParticipantRepository,
	submissionRepo secondary.SubmissionRepository,
	cache secondary.LeaderboardCache,
	directory primary.UserDirectory,
	logger primary.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		submissionRepo:  submissionRepo,
		cache:           cache,
		directory:       directory,
		logger:          logger,
	}
}

// aggregate is the per-user working state while streaming the log.
type aggregate struct {
	userID         string
	problemScores  map[string]int
	totalScore     int
	totalPenalty   int
	problemsSolved int
	submissions    int
	lastSubmission *domain.Submission
}

// GenerateLeaderboard returns the ranked view, serving a cached snapshot
// when available.
func (s *LeaderboardService) GenerateLeaderboard(ctx context.Context, contestID uuid.UUID) ([]domain.LeaderboardEntry, error) {
	if cached, err := s.cache.GetLeaderboard(ctx, contestID); err != nil {
		s.logger.Warn("Leaderboard cache read failed", "contestId", contestID, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	entries, err := s.generate(ctx, contestID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetLeaderboard(ctx, contestID, entries); err != nil {
		s.logger.Warn("Leaderboard cache write failed", "contestId", contestID, "error", err)
	}
	return entries, nil
}

func (s *LeaderboardService) generate(ctx context.Context, contestID uuid.UUID) ([]domain.LeaderboardEntry, error) {
	contest, err := s.contestRepo.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	problemPoints := scoring.ProblemPoints(contest.Problems)

	participants, err := s.participantRepo.ListByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	if len(participants) == 0 {
		return []domain.LeaderboardEntry{}, nil
	}

	// Every enrolled participant gets a row, with or without submissions.
	byUser := make(map[string]*aggregate, len(participants))
	for _, p := range participants {
		byUser[p.UserID] = &aggregate{
			userID:        p.UserID,
			problemScores: make(map[string]int),
		}
	}

	// The repository returns the log in stable (submission_time, seq)
	// order, so streaming it reproduces the contest as it happened.
	subs, err := s.submissionRepo.ListByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	for _, sub := range subs {
		agg, ok := byUser[sub.UserID]
		if !ok {
			// An orphaned row must not sink the whole computation.
			s.logger.Warn("Skipping submission from unenrolled user",
				"contestId", contestID, "userId", sub.UserID, "submissionId", sub.ID)
			continue
		}

		agg.submissions++
		agg.totalPenalty += sub.Penalty
		if agg.lastSubmission == nil || sub.SubmissionTime.After(agg.lastSubmission.SubmissionTime) {
			agg.lastSubmission = sub
		}

		attempt := scoring.AttemptScore(problemPoints, sub)
		current := agg.problemScores[sub.ProblemID]
		if attempt > current {
			if current == 0 && attempt > 0 {
				agg.problemsSolved++
			}
			agg.totalScore += attempt - current
			agg.problemScores[sub.ProblemID] = attempt
		}
	}

	ordered := make([]*aggregate, 0, len(byUser))
	for _, agg := range byUser {
		ordered = append(ordered, agg)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.totalScore != b.totalScore {
			return a.totalScore > b.totalScore
		}
		if a.totalPenalty != b.totalPenalty {
			return a.totalPenalty < b.totalPenalty
		}
		at, bt := lastSubmissionTime(a), lastSubmissionTime(b)
		if !at.Equal(bt) {
			// Earlier last activity wins a full tie.
			return at.Before(bt)
		}
		return a.userID < b.userID
	})

	participantByUser := make(map[string]*domain.Participant, len(participants))
	for _, p := range participants {
		participantByUser[p.UserID] = p
	}

	names := make(map[string]string)
	entries := make([]domain.LeaderboardEntry, 0, len(ordered))
	for i, agg := range ordered {
		p := participantByUser[agg.userID]
		entry := domain.LeaderboardEntry{
			Rank:             i + 1,
			UserID:           agg.userID,
			UserName:         s.displayName(ctx, names, agg.userID),
			TotalScore:       agg.totalScore,
			TotalPenalty:     agg.totalPenalty,
			ProblemsSolved:   agg.problemsSolved,
			Submissions:      agg.submissions,
			ProblemScores:    agg.problemScores,
			IsDisqualified:   p.IsDisqualified,
			TerminationCause: p.TerminationCause,
		}
		if agg.lastSubmission != nil {
			t := agg.lastSubmission.SubmissionTime
			entry.LastSubmission = &t
		}
		entries = append(entries, entry)
	}

	s.logger.Debug("Leaderboard generated",
		"contestId", contestID,
		"participants", len(entries),
		"submissions", len(subs))
	return entries, nil
}

// UpdateRankings regenerates the leaderboard from scratch and persists the
// ranks. The cache is bypassed so a stale snapshot can never be written
// back onto participants.
func (s *LeaderboardService) UpdateRankings(ctx context.Context, contestID uuid.UUID) (bool, error) {
	entries, err := s.generate(ctx, contestID)
	if err != nil {
		return false, err
	}

	failures := 0
	for _, entry := range entries {
		if err := s.participantRepo.UpdateRank(ctx, contestID, entry.UserID, entry.Rank); err != nil {
			// One participant's write failure never aborts the pass.
			s.logger.Error("Failed to persist rank",
				"contestId", contestID, "userId", entry.UserID, "rank", entry.Rank, "error", err)
			failures++
		}
	}

	if err := s.cache.SetLeaderboard(ctx, contestID, entries); err != nil {
		s.logger.Warn("Leaderboard cache write failed", "contestId", contestID, "error", err)
	}

	s.logger.Info("Rankings updated",
		"contestId", contestID, "participants", len(entries), "failures", failures)
	return failures == 0, nil
}

// GetAnalytics returns the administrator roll-up for a contest.
func (s *LeaderboardService) GetAnalytics(ctx context.Context, contestID uuid.UUID) (*domain.ContestAnalytics, error) {
	contest, err := s.contestRepo.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}

	participantCount, err := s.participantRepo.CountByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}
	submissionCount, err := s.submissionRepo.CountByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}

	stats := make([]domain.ProblemStatistics, 0, len(contest.Problems))
	for _, problem := range contest.Problems {
		attempts, err := s.submissionRepo.ListByProblem(ctx, contestID, problem.ID)
		if err != nil {
			s.logger.Error("Failed to load problem submissions for analytics",
				"contestId", contestID, "problemId", problem.ID, "error", err)
			continue
		}
		// Distinct solvers, so a user re-submitting an accepted solution
		// does not inflate the count.
		solvedBy := make(map[string]struct{})
		for _, sub := range attempts {
			if sub.Status.Accepted() {
				solvedBy[sub.UserID] = struct{}{}
			}
		}
		stats = append(stats, domain.ProblemStatistics{
			ProblemID:           problem.ID,
			TotalAttempts:       len(attempts),
			SuccessfulSolutions: len(solvedBy),
		})
	}

	return &domain.ContestAnalytics{
		ContestID:         contestID.String(),
		TotalParticipants: participantCount,
		TotalSubmissions:  submissionCount,
		ProblemStatistics: stats,
	}, nil
}

func (s *LeaderboardService) displayName(ctx context.Context, cache map[string]string, userID string) string {
	if name, ok := cache[userID]; ok {
		return name
	}
	name := userID
	if profile, err := s.directory.GetUser(ctx, userID); err == nil && profile != nil {
		name = profile.DisplayName()
	}
	cache[userID] = name
	return name
}

func lastSubmissionTime(agg *aggregate) time.Time {
	if agg.lastSubmission != nil {
		return agg.lastSubmission.SubmissionTime
	}
	return time.Time{}
}
