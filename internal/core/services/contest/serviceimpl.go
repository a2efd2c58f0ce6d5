package contest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/domain"
	"gitlab.com/cse-2025.net/internal/static/errs"
)

var _ IContestService = (*ContestService)(nil)

// ContestService implements contest record management.
type ContestService struct {
	contestRepo     secondary.ContestRepository
	participantRepo secondary.ParticipantRepository
	submissionRepo  secondary.SubmissionRepository
	questionRepo    secondary.QuestionRepository
	logger          primary.Logger
}

// NewContestService creates a new contest service.
func NewContestService(
	contestRepo secondary.ContestRepository,
	participantRepo secondary.ParticipantRepository,
	submissionRepo secondary.SubmissionRepository,
	questionRepo secondary.QuestionRepository,
	logger primary.Logger,
) *ContestService {
	return &ContestService{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		submissionRepo:  submissionRepo,
		questionRepo:    questionRepo,
		logger:          logger,
	}
}

// CreateContest creates a contest with its initial problem list.
func (s *ContestService) CreateContest(ctx context.Context, input CreateContestInput) (*domain.Contest, error) {
	contest := domain.NewContest(
		input.Title,
		input.Description,
		input.Visibility,
		input.CreatedBy,
		input.StartTime,
		input.DurationMinutes,
	)
	for i, problem := range input.Problems {
		if problem.ID == "" {
			problem.ID = uuid.New().String()
		}
		problem.Order = i
		contest.Problems = append(contest.Problems, problem)
	}

	if err := s.contestRepo.SaveContest(ctx, contest); err != nil {
		s.logger.Error("Failed to create contest", "title", input.Title, "error", err)
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}

	s.logger.Info("Contest created",
		"contestId", contest.ID, "title", contest.Title, "problems", len(contest.Problems))
	return contest, nil
}

// GetContest retrieves one contest.
func (s *ContestService) GetContest(ctx context.Context, contestID uuid.UUID) (*domain.Contest, error) {
	return s.contestRepo.GetContest(ctx, contestID)
}

// ListContests retrieves contests matching the filter.
func (s *ContestService) ListContests(ctx context.Context, filter secondary.ContestFilter) ([]*domain.Contest, error) {
	return s.contestRepo.ListContests(ctx, filter)
}

// DeleteContest removes the contest and all dependent records. The
// dependent deletes run first so a crash mid-way leaves orphans only in
// collections the generator already skips defensively.
func (s *ContestService) DeleteContest(ctx context.Context, contestID uuid.UUID) (bool, error) {
	if _, err := s.contestRepo.GetContest(ctx, contestID); err != nil {
		return false, err
	}

	if n, err := s.questionRepo.DeleteByContest(ctx, contestID); err != nil {
		s.logger.Error("Failed to cascade-delete questions", "contestId", contestID, "error", err)
		return false, fmt.Errorf("failed to delete contest questions: %w", err)
	} else if n > 0 {
		s.logger.Info("Deleted contest questions", "contestId", contestID, "count", n)
	}

	if n, err := s.submissionRepo.DeleteByContest(ctx, contestID); err != nil {
		s.logger.Error("Failed to cascade-delete submissions", "contestId", contestID, "error", err)
		return false, fmt.Errorf("failed to delete contest submissions: %w", err)
	} else if n > 0 {
		s.logger.Info("Deleted contest submissions", "contestId", contestID, "count", n)
	}

	if n, err := s.participantRepo.DeleteByContest(ctx, contestID); err != nil {
		s.logger.Error("Failed to cascade-delete participants", "contestId", contestID, "error", err)
		return false, fmt.Errorf("failed to delete contest participants: %w", err)
	} else if n > 0 {
		s.logger.Info("Deleted contest participants", "contestId", contestID, "count", n)
	}

	deleted, err := s.contestRepo.DeleteContest(ctx, contestID)
	if err != nil {
		return false, fmt.Errorf("failed to delete contest: %w", err)
	}

	s.logger.Info("Contest deleted", "contestId", contestID)
	return deleted, nil
}

// AddProblem appends a problem to the contest's ordered list.
func (s *ContestService) AddProblem(ctx context.Context, contestID uuid.UUID, problem domain.ContestProblem) (*domain.ContestProblem, error) {
	contest, err := s.contestRepo.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}

	if problem.ID == "" {
		problem.ID = uuid.New().String()
	}
	problem.Order = len(contest.Problems)
	problems := append(contest.Problems, problem)

	if err := s.contestRepo.SetProblems(ctx, contestID, problems); err != nil {
		return nil, fmt.Errorf("failed to add problem: %w", err)
	}

	s.logger.Info("Problem added to contest",
		"contestId", contestID, "problemId", problem.ID, "points", problem.Points)
	return &problem, nil
}

// RemoveProblem drops a problem and compacts the order sequence.
func (s *ContestService) RemoveProblem(ctx context.Context, contestID uuid.UUID, problemID string) (bool, error) {
	contest, err := s.contestRepo.GetContest(ctx, contestID)
	if err != nil {
		return false, err
	}

	problems := make([]domain.ContestProblem, 0, len(contest.Problems))
	found := false
	for _, p := range contest.Problems {
		if p.ID == problemID {
			found = true
			continue
		}
		p.Order = len(problems)
		problems = append(problems, p)
	}
	if !found {
		return false, nil
	}

	if err := s.contestRepo.SetProblems(ctx, contestID, problems); err != nil {
		return false, fmt.Errorf("failed to remove problem: %w", err)
	}

	s.logger.Info("Problem removed from contest", "contestId", contestID, "problemId", problemID)
	return true, nil
}

// UpdateProblem replaces a problem's fields in place, keeping its id and
// position.
func (s *ContestService) UpdateProblem(ctx context.Context, contestID uuid.UUID, problem domain.ContestProblem) (bool, error) {
	contest, err := s.contestRepo.GetContest(ctx, contestID)
	if err != nil {
		return false, err
	}

	found := false
	for i, p := range contest.Problems {
		if p.ID != problem.ID {
			continue
		}
		problem.Order = p.Order
		contest.Problems[i] = problem
		found = true
		break
	}
	if !found {
		return false, errs.ProblemNotFound
	}

	if err := s.contestRepo.SetProblems(ctx, contestID, contest.Problems); err != nil {
		return false, fmt.Errorf("failed to update problem: %w", err)
	}

	s.logger.Info("Problem updated", "contestId", contestID, "problemId", problem.ID)
	return true, nil
}

// GetProblems returns the contest's ordered problem list.
func (s *ContestService) GetProblems(ctx context.Context, contestID uuid.UUID) ([]domain.ContestProblem, error) {
	contest, err := s.contestRepo.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	return contest.Problems, nil
}

// RebuildMembership recomputes the contest's participant id projection
// from the participant store.
func (s *ContestService) RebuildMembership(ctx context.Context, contestID uuid.UUID) error {
	contest, err := s.contestRepo.GetContest(ctx, contestID)
	if err != nil {
		return err
	}

	participants, err := s.participantRepo.ListByContest(ctx, contestID)
	if err != nil {
		return fmt.Errorf("failed to list participants: %w", err)
	}

	contest.ParticipantIDs = make([]string, 0, len(participants))
	for _, p := range participants {
		contest.ParticipantIDs = append(contest.ParticipantIDs, p.UserID)
	}

	if err := s.contestRepo.SaveContest(ctx, contest); err != nil {
		return fmt.Errorf("failed to save rebuilt membership: %w", err)
	}
	s.logger.Info("Contest membership projection rebuilt",
		"contestId", contestID, "participants", len(contest.ParticipantIDs))
	return nil
}
