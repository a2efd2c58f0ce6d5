package domain

import "time"

// LeaderboardEntry is one ranked row of the recomputed leaderboard. Ranks
// within one generation pass are strictly sequential 1..N; shared ranks are
// deliberately not produced.
type LeaderboardEntry struct {
	Rank             int              `json:"rank"`
	UserID           string           `json:"user_id"`
	UserName         string           `json:"user_name"`
	TotalScore       int              `json:"total_score"`
	TotalPenalty     int              `json:"total_penalty"`
	ProblemsSolved   int              `json:"problems_solved"`
	Submissions      int              `json:"submissions"`
	LastSubmission   *time.Time       `json:"last_submission,omitempty"`
	ProblemScores    map[string]int   `json:"problem_scores"`
	IsDisqualified   bool             `json:"is_disqualified"`
	TerminationCause TerminationCause `json:"termination_cause,omitempty"`
}

// SweepResult reports the outcome of one pass over expired contests.
type SweepResult struct {
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// ProblemStatistics aggregates attempt counts for one contest problem.
type ProblemStatistics struct {
	ProblemID           string `json:"problem_id"`
	TotalAttempts       int    `json:"total_attempts"`
	SuccessfulSolutions int    `json:"successful_solutions"`
}

// ContestAnalytics is the roll-up view for contest administrators.
type ContestAnalytics struct {
	ContestID         string              `json:"contest_id"`
	TotalParticipants int                 `json:"total_participants"`
	TotalSubmissions  int                 `json:"total_submissions"`
	ProblemStatistics []ProblemStatistics `json:"problem_statistics"`
}
