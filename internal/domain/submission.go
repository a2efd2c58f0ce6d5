package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VerdictStatus is the closed set of outcomes the external judge can
// report. Verdicts are parsed into this set at the ingestion boundary so a
// typo in an upstream payload fails loudly instead of silently scoring as
// zero.
type VerdictStatus string

const (
	StatusAccepted          VerdictStatus = "ACCEPTED"
	StatusWrongAnswer       VerdictStatus = "WRONG_ANSWER"
	StatusRuntimeError      VerdictStatus = "RUNTIME_ERROR"
	StatusTimeLimitExceeded VerdictStatus = "TIME_LIMIT_EXCEEDED"
	StatusPending           VerdictStatus = "PENDING"
)

// ParseVerdictStatus maps an upstream status string onto the closed verdict
// set. Matching is case-insensitive because the judge callbacks are not
// consistent about casing.
func ParseVerdictStatus(s string) (VerdictStatus, error) {
	switch VerdictStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusAccepted:
		return StatusAccepted, nil
	case StatusWrongAnswer:
		return StatusWrongAnswer, nil
	case StatusRuntimeError:
		return StatusRuntimeError, nil
	case StatusTimeLimitExceeded:
		return StatusTimeLimitExceeded, nil
	case StatusPending:
		return StatusPending, nil
	}
	return "", fmt.Errorf("unknown verdict status %q", s)
}

// Accepted reports whether the verdict counts toward a participant's score.
func (s VerdictStatus) Accepted() bool {
	return s == StatusAccepted
}

// Verdict is the already-graded outcome handed over by the judge. Points is
// nil when the judge reports only a status; the scoring rule then falls
// back to the contest's per-problem maximum.
type Verdict struct {
	Status  VerdictStatus
	Points  *int
	Runtime int
	Memory  int
	Penalty int
}

// Submission is one immutable graded attempt at one problem. The engine
// never edits a submission after it is written; the Seq column assigned by
// the store gives submissions a stable total order even when two arrive on
// the same millisecond.
type Submission struct {
	ID             uuid.UUID
	Seq            int64
	ContestID      uuid.UUID
	ProblemID      string
	UserID         string
	Status         VerdictStatus
	Points         *int
	Runtime        int
	Memory         int
	SubmissionTime time.Time
	Penalty        int
}

// NewSubmission builds a submission record for a verdict. The caller may
// pass uuid.Nil to have an id assigned, or a fixed id when the judge
// callback carries one so redelivery stays idempotent.
func NewSubmission(id uuid.UUID, contestID uuid.UUID, problemID, userID string, verdict Verdict) *Submission {
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Submission{
		ID:             id,
		ContestID:      contestID,
		ProblemID:      problemID,
		UserID:         userID,
		Status:         verdict.Status,
		Points:         verdict.Points,
		Runtime:        verdict.Runtime,
		Memory:         verdict.Memory,
		SubmissionTime: time.Now(),
		Penalty:        verdict.Penalty,
	}
}

type SubmissionTable struct {
	ID             string
	Seq            string
	ContestID      string
	ProblemID      string
	UserID         string
	Status         string
	Points         string
	Runtime        string
	Memory         string
	SubmissionTime string
	Penalty        string
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:             "id",
		Seq:            "seq",
		ContestID:      "contest_id",
		ProblemID:      "problem_id",
		UserID:         "user_id",
		Status:         "status",
		Points:         "points",
		Runtime:        "runtime_ms",
		Memory:         "memory_kb",
		SubmissionTime: "submission_time",
		Penalty:        "penalty",
	}
}

func (SubmissionTable) TableName() string {
	return "contest_submissions"
}
