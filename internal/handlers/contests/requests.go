package contests

import (
	"time"

	"gitlab.com/cse-2025.net/internal/domain"
)

// CreateContestRequest represents a request to create a contest
type CreateContestRequest struct {
	Title           string                  `json:"title"`
	Description     string                  `json:"description"`
	Visibility      string                  `json:"visibility"`
	StartTime       time.Time               `json:"start_time"`
	DurationMinutes int                     `json:"duration_minutes"`
	Problems        []domain.ContestProblem `json:"problems"`
}

// ProblemRequest represents a request to add or update a contest problem
type ProblemRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Points      int    `json:"points"`
	TimeLimit   int    `json:"time_limit"`
	MemoryLimit int    `json:"memory_limit"`
}

// AnnouncementRequest represents a request to broadcast an announcement
type AnnouncementRequest struct {
	Message  string `json:"message"`
	Priority string `json:"priority"`
}
