// Package submissionrepository contains the PostgreSQL implementation of
// the submission repository.
package submissionrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/domain"
)

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository implements the SubmissionRepository interface with
// PostgreSQL. Rows are append-only; the seq bigserial column gives every
// attempt a stable position among equal timestamps.
type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewSubmissionRepository creates a new PostgreSQL submission repository.
func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

type submissionRow struct {
	ID             uuid.UUID     `db:"id"`
	Seq            int64         `db:"seq"`
	ContestID      uuid.UUID     `db:"contest_id"`
	ProblemID      string        `db:"problem_id"`
	UserID         string        `db:"user_id"`
	Status         string        `db:"status"`
	Points         sql.NullInt64 `db:"points"`
	RuntimeMS      int           `db:"runtime_ms"`
	MemoryKB       int           `db:"memory_kb"`
	Penalty        int           `db:"penalty"`
	SubmissionTime time.Time     `db:"submission_time"`
}

func (row *submissionRow) toDomain() *domain.Submission {
	submission := &domain.Submission{
		ID:             row.ID,
		Seq:            row.Seq,
		ContestID:      row.ContestID,
		ProblemID:      row.ProblemID,
		UserID:         row.UserID,
		Status:         domain.VerdictStatus(row.Status),
		Runtime:        row.RuntimeMS,
		Memory:         row.MemoryKB,
		Penalty:        row.Penalty,
		SubmissionTime: row.SubmissionTime,
	}
	if row.Points.Valid {
		points := int(row.Points.Int64)
		submission.Points = &points
	}
	return submission
}

const selectColumns = `
	id, seq, contest_id, problem_id, user_id, status, points,
	runtime_ms, memory_kb, penalty, submission_time
`

// SaveSubmission appends a graded attempt. A redelivered id hits the
// primary key conflict and is dropped silently.
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, submission *domain.Submission) error {
	query := `
		INSERT INTO contest_submissions (
			id, contest_id, problem_id, user_id, status, points,
			runtime_ms, memory_kb, penalty, submission_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`

	var points interface{}
	if submission.Points != nil {
		points = *submission.Points
	}

	result, err := r.db.ExecContext(
		ctx,
		query,
		submission.ID,
		submission.ContestID,
		submission.ProblemID,
		submission.UserID,
		string(submission.Status),
		points,
		submission.Runtime,
		submission.Memory,
		submission.Penalty,
		submission.SubmissionTime,
	)
	if err != nil {
		r.logger.Error("Failed to save submission",
			"submissionId", submission.ID, "contestId", submission.ContestID, "error", err)
		return fmt.Errorf("failed to save submission: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		r.logger.Debug("Duplicate submission id ignored", "submissionId", submission.ID)
	}
	return nil
}

// GetSubmission retrieves one submission by id.
func (r *SubmissionRepository) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	query := `SELECT ` + selectColumns + ` FROM contest_submissions WHERE id = $1`

	var row submissionRow
	if err := r.db.GetContext(ctx, &row, query, submissionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return row.toDomain(), nil
}

// ListByContest retrieves a contest's submissions in stable time order.
func (r *SubmissionRepository) ListByContest(ctx context.Context, contestID uuid.UUID) ([]*domain.Submission, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM contest_submissions
		WHERE contest_id = $1
		ORDER BY submission_time ASC, seq ASC
	`

	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query, contestID); err != nil {
		return nil, fmt.Errorf("failed to list contest submissions: %w", err)
	}
	return toDomainSlice(rows), nil
}

// ListByParticipant retrieves one user's submissions in a contest in
// stable time order.
func (r *SubmissionRepository) ListByParticipant(ctx context.Context, contestID uuid.UUID, userID string) ([]*domain.Submission, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM contest_submissions
		WHERE contest_id = $1 AND user_id = $2
		ORDER BY submission_time ASC, seq ASC
	`

	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query, contestID, userID); err != nil {
		return nil, fmt.Errorf("failed to list participant submissions: %w", err)
	}
	return toDomainSlice(rows), nil
}

// ListByProblem retrieves every attempt at one problem of a contest.
func (r *SubmissionRepository) ListByProblem(ctx context.Context, contestID uuid.UUID, problemID string) ([]*domain.Submission, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM contest_submissions
		WHERE contest_id = $1 AND problem_id = $2
		ORDER BY submission_time ASC, seq ASC
	`

	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query, contestID, problemID); err != nil {
		return nil, fmt.Errorf("failed to list problem submissions: %w", err)
	}
	return toDomainSlice(rows), nil
}

// CountByContest counts submissions of a contest.
func (r *SubmissionRepository) CountByContest(ctx context.Context, contestID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM contest_submissions WHERE contest_id = $1`
	if err := r.db.GetContext(ctx, &count, query, contestID); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

// DeleteByContest removes every submission of a contest.
func (r *SubmissionRepository) DeleteByContest(ctx context.Context, contestID uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contest_submissions WHERE contest_id = $1`, contestID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete contest submissions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n, nil
}

func toDomainSlice(rows []submissionRow) []*domain.Submission {
	submissions := make([]*domain.Submission, 0, len(rows))
	for i := range rows {
		submissions = append(submissions, rows[i].toDomain())
	}
	return submissions
}
