// Package contestrepository contains the PostgreSQL implementation of the
// contest repository.
package contestrepository

import (
	"context"
	"database/sql"
	"encoding/json"
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
	querybuilder "gitlab.com/cse-2025.net/internal/utils"
)

var _ secondary.ContestRepository = (*ContestRepository)(nil)

// ContestRepository implements the ContestRepository interface with
// PostgreSQL. The problem list and announcements are stored as JSON
// documents on the contest row; the participant id projection is a text
// array.
type ContestRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewContestRepository creates a new PostgreSQL contest repository.
func NewContestRepository(db *sqlx.DB, logger primary.Logger) *ContestRepository {
	return &ContestRepository{
		db:     db,
		logger: logger,
	}
}

type contestRow struct {
	ID               uuid.UUID      `db:"id"`
	Title            string         `db:"title"`
	Description      string         `db:"description"`
	Visibility       string         `db:"visibility"`
	StartTime        time.Time      `db:"start_time"`
	EndTime          time.Time      `db:"end_time"`
	DurationMinutes  int            `db:"duration_minutes"`
	TerminationCause string         `db:"termination_cause"`
	Problems         []byte         `db:"problems"`
	Participants     pq.StringArray `db:"participants"`
	Announcements    []byte         `db:"announcements"`
	CreatedBy        string         `db:"created_by"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (r *ContestRepository) toDomain(row *contestRow) (*domain.Contest, error) {
	contest := &domain.Contest{
		ID:               row.ID,
		Title:            row.Title,
		Description:      row.Description,
		Visibility:       row.Visibility,
		StartTime:        row.StartTime,
		EndTime:          row.EndTime,
		DurationMinutes:  row.DurationMinutes,
		TerminationCause: domain.TerminationCause(row.TerminationCause),
		ParticipantIDs:   []string(row.Participants),
		CreatedBy:        row.CreatedBy,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if len(row.Problems) > 0 {
		if err := json.Unmarshal(row.Problems, &contest.Problems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal contest problems: %w", err)
		}
	}
	if len(row.Announcements) > 0 {
		if err := json.Unmarshal(row.Announcements, &contest.Announcements); err != nil {
			return nil, fmt.Errorf("failed to unmarshal announcements: %w", err)
		}
	}
	return contest, nil
}

// SaveContest inserts or fully replaces a contest.
func (r *ContestRepository) SaveContest(ctx context.Context, contest *domain.Contest) error {
	problemsJSON, err := json.Marshal(contest.Problems)
	if err != nil {
		r.logger.Error("Failed to marshal contest problems", "error", err)
		return fmt.Errorf("failed to marshal contest problems: %w", err)
	}
	announcementsJSON, err := json.Marshal(contest.Announcements)
	if err != nil {
		r.logger.Error("Failed to marshal announcements", "error", err)
		return fmt.Errorf("failed to marshal announcements: %w", err)
	}

	query := `
		INSERT INTO contests (
			id, title, description, visibility, start_time, end_time,
			duration_minutes, termination_cause, problems, participants,
			announcements, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			visibility = EXCLUDED.visibility,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			duration_minutes = EXCLUDED.duration_minutes,
			termination_cause = EXCLUDED.termination_cause,
			problems = EXCLUDED.problems,
			participants = EXCLUDED.participants,
			announcements = EXCLUDED.announcements,
			updated_at = now()
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		contest.ID,
		contest.Title,
		contest.Description,
		contest.Visibility,
		contest.StartTime,
		contest.EndTime,
		contest.DurationMinutes,
		string(contest.TerminationCause),
		problemsJSON,
		pq.StringArray(contest.ParticipantIDs),
		announcementsJSON,
		contest.CreatedBy,
		contest.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save contest", "contestId", contest.ID, "error", err)
		return fmt.Errorf("failed to save contest: %w", err)
	}
	return nil
}

// GetContest retrieves a contest by id.
func (r *ContestRepository) GetContest(ctx context.Context, contestID uuid.UUID) (*domain.Contest, error) {
	query := `
		SELECT id, title, description, visibility, start_time, end_time,
		       duration_minutes, termination_cause, problems, participants,
		       announcements, created_by, created_at, updated_at
		FROM contests WHERE id = $1
	`

	var row contestRow
	if err := r.db.GetContext(ctx, &row, query, contestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ContestNotFound
		}
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}
	return r.toDomain(&row)
}

// ListContests retrieves contests matching the filter, newest first.
func (r *ContestRepository) ListContests(ctx context.Context, filter secondary.ContestFilter) ([]*domain.Contest, error) {
	contestTbl := domain.GetContestTable()
	qb := querybuilder.NewQueryBuilder("public").
		Select(
			contestTbl.ID,
			contestTbl.Title,
			contestTbl.Description,
			contestTbl.Visibility,
			contestTbl.StartTime,
			contestTbl.EndTime,
			contestTbl.DurationMinutes,
			contestTbl.TerminationCause,
			contestTbl.Problems,
			contestTbl.Participants,
			contestTbl.Announcements,
			contestTbl.CreatedBy,
			contestTbl.CreatedAt,
			contestTbl.UpdatedAt,
		).
		From(contestTbl.TableName()).
		OrderBy(contestTbl.CreatedAt, false)
	if filter.Visibility != "" {
		qb = qb.Where(fmt.Sprintf("%s = ?", contestTbl.Visibility), filter.Visibility)
	}
	if filter.EndedOnly {
		qb = qb.And(fmt.Sprintf("%s <> ''", contestTbl.TerminationCause))
	}

	query, args := qb.Build()

	var rows []contestRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list contests: %w", err)
	}
	return r.toDomainSlice(rows)
}

// ListExpiredContests retrieves contests whose end time has passed.
func (r *ContestRepository) ListExpiredContests(ctx context.Context, now time.Time) ([]*domain.Contest, error) {
	query := `
		SELECT id, title, description, visibility, start_time, end_time,
		       duration_minutes, termination_cause, problems, participants,
		       announcements, created_by, created_at, updated_at
		FROM contests WHERE end_time < $1
	`

	var rows []contestRow
	if err := r.db.SelectContext(ctx, &rows, query, now); err != nil {
		return nil, fmt.Errorf("failed to list expired contests: %w", err)
	}
	return r.toDomainSlice(rows)
}

func (r *ContestRepository) toDomainSlice(rows []contestRow) ([]*domain.Contest, error) {
	contests := make([]*domain.Contest, 0, len(rows))
	for i := range rows {
		contest, err := r.toDomain(&rows[i])
		if err != nil {
			// One corrupt document should not hide every other contest.
			r.logger.Error("Skipping undecodable contest row", "contestId", rows[i].ID, "error", err)
			continue
		}
		contests = append(contests, contest)
	}
	return contests, nil
}

// UpdateTerminationCause sets the contest-level cause.
func (r *ContestRepository) UpdateTerminationCause(ctx context.Context, contestID uuid.UUID, cause domain.TerminationCause) error {
	query := `UPDATE contests SET termination_cause = $1, updated_at = now() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, string(cause), contestID)
	if err != nil {
		return fmt.Errorf("failed to update termination cause: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.ContestNotFound
	}
	return nil
}

// AddParticipantID appends a user id to the membership projection unless
// already present.
func (r *ContestRepository) AddParticipantID(ctx context.Context, contestID uuid.UUID, userID string) error {
	query := `
		UPDATE contests
		SET participants = array_append(participants, $1), updated_at = now()
		WHERE id = $2 AND NOT ($1 = ANY(participants))
	`
	if _, err := r.db.ExecContext(ctx, query, userID, contestID); err != nil {
		return fmt.Errorf("failed to add participant id: %w", err)
	}
	return nil
}

// RemoveParticipantID drops a user id from the membership projection.
func (r *ContestRepository) RemoveParticipantID(ctx context.Context, contestID uuid.UUID, userID string) error {
	query := `
		UPDATE contests
		SET participants = array_remove(participants, $1), updated_at = now()
		WHERE id = $2
	`
	if _, err := r.db.ExecContext(ctx, query, userID, contestID); err != nil {
		return fmt.Errorf("failed to remove participant id: %w", err)
	}
	return nil
}

// SetProblems replaces the ordered problem list.
func (r *ContestRepository) SetProblems(ctx context.Context, contestID uuid.UUID, problems []domain.ContestProblem) error {
	problemsJSON, err := json.Marshal(problems)
	if err != nil {
		return fmt.Errorf("failed to marshal contest problems: %w", err)
	}

	query := `UPDATE contests SET problems = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, problemsJSON, contestID)
	if err != nil {
		return fmt.Errorf("failed to set contest problems: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.ContestNotFound
	}
	return nil
}

// AddAnnouncement appends one announcement to the contest's JSON list.
func (r *ContestRepository) AddAnnouncement(ctx context.Context, contestID uuid.UUID, announcement domain.Announcement) error {
	announcementJSON, err := json.Marshal(announcement)
	if err != nil {
		return fmt.Errorf("failed to marshal announcement: %w", err)
	}

	query := `
		UPDATE contests
		SET announcements = announcements || $1::jsonb, updated_at = now()
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, announcementJSON, contestID)
	if err != nil {
		return fmt.Errorf("failed to add announcement: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.ContestNotFound
	}
	return nil
}

// DeleteContest removes the contest row.
func (r *ContestRepository) DeleteContest(ctx context.Context, contestID uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contests WHERE id = $1`, contestID)
	if err != nil {
		return false, fmt.Errorf("failed to delete contest: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n > 0, nil
}
