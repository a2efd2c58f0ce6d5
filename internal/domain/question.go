package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionStatus flips pending -> answered exactly once; there is no
// transition back.
type QuestionStatus string

const (
	QuestionPending  QuestionStatus = "pending"
	QuestionAnswered QuestionStatus = "answered"
)

// Question is one Q&A entry raised by a participant during a contest.
// Questions never interact with scoring.
type Question struct {
	ID         uuid.UUID
	ContestID  uuid.UUID
	UserID     string
	ProblemID  string
	Question   string
	Answer     string
	AnsweredBy string
	AnsweredAt *time.Time
	Timestamp  time.Time
	Status     QuestionStatus
	IsPublic   bool
}

func NewQuestion(contestID uuid.UUID, userID, problemID, text string, isPublic bool) *Question {
	return &Question{
		ID:        uuid.New(),
		ContestID: contestID,
		UserID:    userID,
		ProblemID: problemID,
		Question:  text,
		Timestamp: time.Now(),
		Status:    QuestionPending,
		IsPublic:  isPublic,
	}
}

type QuestionTable struct {
	ID         string
	ContestID  string
	UserID     string
	ProblemID  string
	Question   string
	Answer     string
	AnsweredBy string
	AnsweredAt string
	Timestamp  string
	Status     string
	IsPublic   string
}

func GetQuestionTable() QuestionTable {
	return QuestionTable{
		ID:         "id",
		ContestID:  "contest_id",
		UserID:     "user_id",
		ProblemID:  "problem_id",
		Question:   "question",
		Answer:     "answer",
		AnsweredBy: "answered_by",
		AnsweredAt: "answered_at",
		Timestamp:  "created_at",
		Status:     "status",
		IsPublic:   "is_public",
	}
}

func (QuestionTable) TableName() string {
	return "contest_questions"
}
