// Package questionrepository contains the PostgreSQL implementation of
// the question repository.
package questionrepository

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
	"gitlab.com/cse-2025.net/internal/static/errs"
	querybuilder "gitlab.com/cse-2025.net/internal/utils"
)

var _ secondary.QuestionRepository = (*QuestionRepository)(nil)

// QuestionRepository implements the QuestionRepository interface with
// PostgreSQL.
type QuestionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewQuestionRepository creates a new PostgreSQL question repository.
func NewQuestionRepository(db *sqlx.DB, logger primary.Logger) *QuestionRepository {
	return &QuestionRepository{
		db:     db,
		logger: logger,
	}
}

type questionRow struct {
	ID         uuid.UUID      `db:"id"`
	ContestID  uuid.UUID      `db:"contest_id"`
	UserID     string         `db:"user_id"`
	ProblemID  sql.NullString `db:"problem_id"`
	Question   string         `db:"question"`
	Answer     sql.NullString `db:"answer"`
	AnsweredBy sql.NullString `db:"answered_by"`
	AnsweredAt sql.NullTime   `db:"answered_at"`
	CreatedAt  time.Time      `db:"created_at"`
	Status     string         `db:"status"`
	IsPublic   bool           `db:"is_public"`
}

func (row *questionRow) toDomain() *domain.Question {
	question := &domain.Question{
		ID:         row.ID,
		ContestID:  row.ContestID,
		UserID:     row.UserID,
		ProblemID:  row.ProblemID.String,
		Question:   row.Question,
		Answer:     row.Answer.String,
		AnsweredBy: row.AnsweredBy.String,
		Timestamp:  row.CreatedAt,
		Status:     domain.QuestionStatus(row.Status),
		IsPublic:   row.IsPublic,
	}
	if row.AnsweredAt.Valid {
		answeredAt := row.AnsweredAt.Time
		question.AnsweredAt = &answeredAt
	}
	return question
}

const selectColumns = `
	id, contest_id, user_id, problem_id, question, answer,
	answered_by, answered_at, created_at, status, is_public
`

// SaveQuestion inserts a new question.
func (r *QuestionRepository) SaveQuestion(ctx context.Context, question *domain.Question) error {
	query := `
		INSERT INTO contest_questions (
			id, contest_id, user_id, problem_id, question,
			created_at, status, is_public
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var problemID interface{}
	if question.ProblemID != "" {
		problemID = question.ProblemID
	}

	_, err := r.db.ExecContext(
		ctx,
		query,
		question.ID,
		question.ContestID,
		question.UserID,
		problemID,
		question.Question,
		question.Timestamp,
		string(question.Status),
		question.IsPublic,
	)
	if err != nil {
		r.logger.Error("Failed to save question",
			"questionId", question.ID, "contestId", question.ContestID, "error", err)
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}

// GetQuestion retrieves one question by id.
func (r *QuestionRepository) GetQuestion(ctx context.Context, questionID uuid.UUID) (*domain.Question, error) {
	query := `SELECT ` + selectColumns + ` FROM contest_questions WHERE id = $1`

	var row questionRow
	if err := r.db.GetContext(ctx, &row, query, questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.QuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return row.toDomain(), nil
}

// AttachAnswer records an answer. The status guard in the WHERE clause
// makes the pending to answered flip one-way even under concurrent
// answer attempts.
func (r *QuestionRepository) AttachAnswer(ctx context.Context, questionID uuid.UUID, answer, answeredBy string) error {
	query := `
		UPDATE contest_questions
		SET answer = $1, answered_by = $2, status = $3, answered_at = now()
		WHERE id = $4 AND status = $5
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		answer,
		answeredBy,
		string(domain.QuestionAnswered),
		questionID,
		string(domain.QuestionPending),
	)
	if err != nil {
		return fmt.Errorf("failed to attach answer: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read answer result: %w", err)
	}
	if n == 0 {
		// The row is either missing or already answered; disambiguate.
		if _, err := r.GetQuestion(ctx, questionID); err != nil {
			return err
		}
		return errs.QuestionAlreadyAnswered
	}
	return nil
}

// ListByContest retrieves a contest's questions, newest first.
func (r *QuestionRepository) ListByContest(ctx context.Context, contestID uuid.UUID, publicOnly bool) ([]*domain.Question, error) {
	questionTbl := domain.GetQuestionTable()
	qb := querybuilder.NewQueryBuilder("public").
		Select(
			questionTbl.ID,
			questionTbl.ContestID,
			questionTbl.UserID,
			questionTbl.ProblemID,
			questionTbl.Question,
			questionTbl.Answer,
			questionTbl.AnsweredBy,
			questionTbl.AnsweredAt,
			questionTbl.Timestamp,
			questionTbl.Status,
			questionTbl.IsPublic,
		).
		From(questionTbl.TableName()).
		Where(fmt.Sprintf("%s = ?", questionTbl.ContestID), contestID).
		OrderBy(questionTbl.Timestamp, false)
	if publicOnly {
		qb = qb.And(fmt.Sprintf("%s = TRUE", questionTbl.IsPublic))
	}

	query, args := qb.Build()

	var rows []questionRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, rows[i].toDomain())
	}
	return questions, nil
}

// DeleteByContest removes every question of a contest.
func (r *QuestionRepository) DeleteByContest(ctx context.Context, contestID uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contest_questions WHERE contest_id = $1`, contestID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete contest questions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n, nil
}
