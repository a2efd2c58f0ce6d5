package domain

import (
	"time"

	"github.com/google/uuid"
)

// EnrollmentType tracks how a participant joined a contest.
type EnrollmentType string

const (
	EnrollmentAdmin EnrollmentType = "admin"
	EnrollmentSelf  EnrollmentType = "self"
)

// Participant is the per-user, per-contest aggregate scoring record. One
// participant exists per (ContestID, UserID) pair, enforced by a unique
// index at the storage layer. TotalScore, ProblemsAttempted and
// ProblemsSolved are always re-derivable from the submission log.
type Participant struct {
	ID                     uuid.UUID
	ContestID              uuid.UUID
	UserID                 string
	RegistrationTime       time.Time
	EnrollmentType         EnrollmentType
	TotalScore             int
	TotalPenalty           int
	ProblemsAttempted      []string
	ProblemsSolved         []string
	IsDisqualified         bool
	DisqualificationReason string
	// Rank is only valid immediately after a ranking pass; treat it as
	// stale otherwise.
	Rank             *int
	TerminationCause TerminationCause
}

// NewParticipant creates an enrollment record with zeroed aggregates.
func NewParticipant(contestID uuid.UUID, userID string, enrollmentType EnrollmentType) *Participant {
	return &Participant{
		ID:                uuid.New(),
		ContestID:         contestID,
		UserID:            userID,
		RegistrationTime:  time.Now(),
		EnrollmentType:    enrollmentType,
		ProblemsAttempted: []string{},
		ProblemsSolved:    []string{},
		TerminationCause:  CauseNone,
	}
}

// UserProfile is the minimal projection the engine reads from the external
// user directory when rendering display names.
type UserProfile struct {
	ID        string `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Email     string `db:"email"`
}

// DisplayName joins the profile's name fields, falling back to the email
// and finally the raw id.
func (u *UserProfile) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		name = u.Email
	}
	if name == "" {
		name = u.ID
	}
	return name
}

type ParticipantTable struct {
	ID                     string
	ContestID              string
	UserID                 string
	RegistrationTime       string
	EnrollmentType         string
	TotalScore             string
	TotalPenalty           string
	ProblemsAttempted      string
	ProblemsSolved         string
	IsDisqualified         string
	DisqualificationReason string
	Rank                   string
	TerminationCause       string
}

func GetParticipantTable() ParticipantTable {
	return ParticipantTable{
		ID:                     "id",
		ContestID:              "contest_id",
		UserID:                 "user_id",
		RegistrationTime:       "registration_time",
		EnrollmentType:         "enrollment_type",
		TotalScore:             "total_score",
		TotalPenalty:           "total_penalty",
		ProblemsAttempted:      "problems_attempted",
		ProblemsSolved:         "problems_solved",
		IsDisqualified:         "is_disqualified",
		DisqualificationReason: "disqualification_reason",
		Rank:                   "rank",
		TerminationCause:       "termination_cause",
	}
}

func (ParticipantTable) TableName() string {
	return "contest_participants"
}
