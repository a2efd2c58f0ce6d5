package questions

// SubmitQuestionRequest represents a participant question
type SubmitQuestionRequest struct {
	ProblemID string `json:"problem_id"`
	Question  string `json:"question"`
	IsPublic  bool   `json:"is_public"`
}

// AnswerQuestionRequest represents an answer to a pending question
type AnswerQuestionRequest struct {
	Answer string `json:"answer"`
}
