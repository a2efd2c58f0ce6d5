// Package participantrepository contains the PostgreSQL implementation of
// the participant repository.
package participantrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/domain"
	"gitlab.com/cse-2025.net/internal/static/errs"
)

// uniqueViolation is the pq error code raised by the unique index on
// (contest_id, user_id). Concurrent duplicate registrations hit this code
// and surface as errs.StorageConflict.
const uniqueViolation = "23505"

var _ secondary.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository implements the ParticipantRepository interface
// with PostgreSQL.
type ParticipantRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewParticipantRepository creates a new PostgreSQL participant repository.
func NewParticipantRepository(db *sqlx.DB, logger primary.Logger) *ParticipantRepository {
	return &ParticipantRepository{
		db:     db,
		logger: logger,
	}
}

type participantRow struct {
	ID                     uuid.UUID      `db:"id"`
	ContestID              uuid.UUID      `db:"contest_id"`
	UserID                 string         `db:"user_id"`
	RegistrationTime       time.Time      `db:"registration_time"`
	EnrollmentType         string         `db:"enrollment_type"`
	TotalScore             int            `db:"total_score"`
	TotalPenalty           int            `db:"total_penalty"`
	ProblemsAttempted      pq.StringArray `db:"problems_attempted"`
	ProblemsSolved         pq.StringArray `db:"problems_solved"`
	IsDisqualified         bool           `db:"is_disqualified"`
	DisqualificationReason sql.NullString `db:"disqualification_reason"`
	Rank                   sql.NullInt64  `db:"rank"`
	TerminationCause       string         `db:"termination_cause"`
}

func (row *participantRow) toDomain() *domain.Participant {
	participant := &domain.Participant{
		ID:                     row.ID,
		ContestID:              row.ContestID,
		UserID:                 row.UserID,
		RegistrationTime:       row.RegistrationTime,
		EnrollmentType:         domain.EnrollmentType(row.EnrollmentType),
		TotalScore:             row.TotalScore,
		TotalPenalty:           row.TotalPenalty,
		ProblemsAttempted:      []string(row.ProblemsAttempted),
		ProblemsSolved:         []string(row.ProblemsSolved),
		IsDisqualified:         row.IsDisqualified,
		DisqualificationReason: row.DisqualificationReason.String,
		TerminationCause:       domain.TerminationCause(row.TerminationCause),
	}
	if row.Rank.Valid {
		rank := int(row.Rank.Int64)
		participant.Rank = &rank
	}
	return participant
}

const selectColumns = `
	id, contest_id, user_id, registration_time, enrollment_type,
	total_score, total_penalty, problems_attempted, problems_solved,
	is_disqualified, disqualification_reason, rank, termination_cause
`

// CreateParticipant inserts a new enrollment row. A violation of the
// unique (contest_id, user_id) index returns errs.StorageConflict.
func (r *ParticipantRepository) CreateParticipant(ctx context.Context, participant *domain.Participant) error {
	query := `
		INSERT INTO contest_participants (
			id, contest_id, user_id, registration_time, enrollment_type,
			total_score, total_penalty, problems_attempted, problems_solved,
			is_disqualified, disqualification_reason, rank, termination_cause
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var rank interface{}
	if participant.Rank != nil {
		rank = *participant.Rank
	}

	_, err := r.db.ExecContext(
		ctx,
		query,
		participant.ID,
		participant.ContestID,
		participant.UserID,
		participant.RegistrationTime,
		string(participant.EnrollmentType),
		participant.TotalScore,
		participant.TotalPenalty,
		pq.StringArray(participant.ProblemsAttempted),
		pq.StringArray(participant.ProblemsSolved),
		participant.IsDisqualified,
		participant.DisqualificationReason,
		rank,
		string(participant.TerminationCause),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return errs.StorageConflict
		}
		r.logger.Error("Failed to create participant",
			"contestId", participant.ContestID, "userId", participant.UserID, "error", err)
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

// GetParticipant retrieves one enrollment by contest and user.
func (r *ParticipantRepository) GetParticipant(ctx context.Context, contestID uuid.UUID, userID string) (*domain.Participant, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM contest_participants
		WHERE contest_id = $1 AND user_id = $2
	`

	var row participantRow
	if err := r.db.GetContext(ctx, &row, query, contestID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return row.toDomain(), nil
}

// ListByContest retrieves all enrollments for a contest.
func (r *ParticipantRepository) ListByContest(ctx context.Context, contestID uuid.UUID) ([]*domain.Participant, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM contest_participants
		WHERE contest_id = $1
		ORDER BY registration_time ASC
	`

	var rows []participantRow
	if err := r.db.SelectContext(ctx, &rows, query, contestID); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return toDomainSlice(rows), nil
}

// ListByUser retrieves all enrollments of one user across contests.
func (r *ParticipantRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Participant, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM contest_participants
		WHERE user_id = $1
		ORDER BY registration_time DESC
	`

	var rows []participantRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user enrollments: %w", err)
	}
	return toDomainSlice(rows), nil
}

func toDomainSlice(rows []participantRow) []*domain.Participant {
	participants := make([]*domain.Participant, 0, len(rows))
	for i := range rows {
		participants = append(participants, rows[i].toDomain())
	}
	return participants
}

// UpdateAggregates writes the recomputed score fields in one statement.
func (r *ParticipantRepository) UpdateAggregates(ctx context.Context, contestID uuid.UUID, userID string, agg secondary.ParticipantAggregate) error {
	query := `
		UPDATE contest_participants
		SET total_score = $1,
		    total_penalty = $2,
		    problems_attempted = $3,
		    problems_solved = $4
		WHERE contest_id = $5 AND user_id = $6
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		agg.TotalScore,
		agg.TotalPenalty,
		pq.StringArray(agg.ProblemsAttempted),
		pq.StringArray(agg.ProblemsSolved),
		contestID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant aggregates: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.ParticipantNotFound
	}
	return nil
}

// UpdateRank stores a freshly computed rank.
func (r *ParticipantRepository) UpdateRank(ctx context.Context, contestID uuid.UUID, userID string, rank int) error {
	query := `
		UPDATE contest_participants
		SET rank = $1
		WHERE contest_id = $2 AND user_id = $3
	`

	result, err := r.db.ExecContext(ctx, query, rank, contestID, userID)
	if err != nil {
		return fmt.Errorf("failed to update rank: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.ParticipantNotFound
	}
	return nil
}

// UpdateTerminationCause stamps a per-participant cause.
func (r *ParticipantRepository) UpdateTerminationCause(ctx context.Context, contestID uuid.UUID, userID string, cause domain.TerminationCause) error {
	query := `
		UPDATE contest_participants
		SET termination_cause = $1
		WHERE contest_id = $2 AND user_id = $3
	`

	result, err := r.db.ExecContext(ctx, query, string(cause), contestID, userID)
	if err != nil {
		return fmt.Errorf("failed to update participant termination cause: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.ParticipantNotFound
	}
	return nil
}

// Disqualify flags the participant and records the reason. Scoring history
// is left untouched.
func (r *ParticipantRepository) Disqualify(ctx context.Context, contestID uuid.UUID, userID string, reason string) (bool, error) {
	query := `
		UPDATE contest_participants
		SET is_disqualified = TRUE, disqualification_reason = $1
		WHERE contest_id = $2 AND user_id = $3
	`

	result, err := r.db.ExecContext(ctx, query, reason, contestID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to disqualify participant: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read disqualify result: %w", err)
	}
	if n == 0 {
		return false, errs.ParticipantNotFound
	}
	return true, nil
}

// DeleteParticipant removes one enrollment.
func (r *ParticipantRepository) DeleteParticipant(ctx context.Context, contestID uuid.UUID, userID string) (bool, error) {
	query := `DELETE FROM contest_participants WHERE contest_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, contestID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete participant: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n > 0, nil
}

// DeleteByContest removes every enrollment of a contest, returning the
// number deleted.
func (r *ParticipantRepository) DeleteByContest(ctx context.Context, contestID uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contest_participants WHERE contest_id = $1`, contestID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete contest participants: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n, nil
}

// CountByContest counts enrollments for a contest.
func (r *ParticipantRepository) CountByContest(ctx context.Context, contestID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM contest_participants WHERE contest_id = $1`
	if err := r.db.GetContext(ctx, &count, query, contestID); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}
