package participants

// RegisterRequest represents a request to enroll a user in a contest
type RegisterRequest struct {
	UserID         string `json:"user_id"`
	EnrollmentType string `json:"enrollment_type"`
}

// DisqualifyRequest represents a request to disqualify a participant
type DisqualifyRequest struct {
	Reason string `json:"reason"`
}
