package domain

import (
	"time"

	"github.com/google/uuid"
)

// TerminationCause records why a contest is no longer active.
type TerminationCause string

const (
	// CauseNone means the contest has not been terminated.
	CauseNone TerminationCause = ""
	// CauseManuallyEnded means an administrator stopped the contest.
	CauseManuallyEnded TerminationCause = "MANUALLY_ENDED"
	// CauseTimeExpired means the contest ran past its end time.
	CauseTimeExpired TerminationCause = "TIME_EXPIRED"
)

// AnnouncementPriority marks how urgently an announcement should surface.
type AnnouncementPriority string

const (
	PriorityLow    AnnouncementPriority = "low"
	PriorityMedium AnnouncementPriority = "medium"
	PriorityHigh   AnnouncementPriority = "high"
)

// ContestProblem is one problem slot in a contest. Points is the
// authoritative per-problem maximum used by the scoring rule.
type ContestProblem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Points      int    `json:"points"`
	Order       int    `json:"order"`
	TimeLimit   int    `json:"time_limit,omitempty"`
	MemoryLimit int    `json:"memory_limit,omitempty"`
}

// Announcement is a broadcast message attached to a contest.
type Announcement struct {
	ID        string               `json:"id"`
	Message   string               `json:"message"`
	Timestamp time.Time            `json:"timestamp"`
	Priority  AnnouncementPriority `json:"priority"`
}

// Contest is a timed competition with a fixed problem set and enrollment.
// ParticipantIDs is a denormalized projection of the participant records
// kept for fast membership checks; the participant store stays the source
// of truth.
type Contest struct {
	ID               uuid.UUID
	Title            string
	Description      string
	Visibility       string
	StartTime        time.Time
	EndTime          time.Time
	DurationMinutes  int
	TerminationCause TerminationCause
	Problems         []ContestProblem
	ParticipantIDs   []string
	Announcements    []Announcement
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewContest creates a contest with the time window derived from the start
// time and duration.
func NewContest(title, description, visibility, createdBy string, startTime time.Time, durationMinutes int) *Contest {
	now := time.Now()
	return &Contest{
		ID:               uuid.New(),
		Title:            title,
		Description:      description,
		Visibility:       visibility,
		StartTime:        startTime,
		EndTime:          startTime.Add(time.Duration(durationMinutes) * time.Minute),
		DurationMinutes:  durationMinutes,
		TerminationCause: CauseNone,
		Problems:         []ContestProblem{},
		ParticipantIDs:   []string{},
		Announcements:    []Announcement{},
		CreatedBy:        createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Active reports whether the contest is still running: no termination cause
// recorded and the clock has not passed the end time.
func (c *Contest) Active(now time.Time) bool {
	return c.TerminationCause == CauseNone && !now.After(c.EndTime)
}

type ContestTable struct {
	ID               string
	Title            string
	Description      string
	Visibility       string
	StartTime        string
	EndTime          string
	DurationMinutes  string
	TerminationCause string
	Problems         string
	Participants     string
	Announcements    string
	CreatedBy        string
	CreatedAt        string
	UpdatedAt        string
}

func GetContestTable() ContestTable {
	return ContestTable{
		ID:               "id",
		Title:            "title",
		Description:      "description",
		Visibility:       "visibility",
		StartTime:        "start_time",
		EndTime:          "end_time",
		DurationMinutes:  "duration_minutes",
		TerminationCause: "termination_cause",
		Problems:         "problems",
		Participants:     "participants",
		Announcements:    "announcements",
		CreatedBy:        "created_by",
		CreatedAt:        "created_at",
		UpdatedAt:        "updated_at",
	}
}

func (ContestTable) TableName() string {
	return "contests"
}
