package scoreboard

import "time"

// RecordSubmissionRequest represents a graded verdict delivered by the
// judge callback
type RecordSubmissionRequest struct {
	SubmissionID string `json:"submission_id"`
	ProblemID    string `json:"problem_id"`
	UserID       string `json:"user_id"`
	Status       string `json:"status"`
	Points       *int   `json:"points"`
	Runtime      int    `json:"runtime_ms"`
	Memory       int    `json:"memory_kb"`
	Penalty      int    `json:"penalty"`
}

// SubmissionResponse represents a recorded submission
type SubmissionResponse struct {
	SubmissionID string    `json:"submission_id"`
	ContestID    string    `json:"contest_id"`
	ProblemID    string    `json:"problem_id"`
	UserID       string    `json:"user_id"`
	Status       string    `json:"status"`
	RecordedAt   time.Time `json:"recorded_at"`
}
