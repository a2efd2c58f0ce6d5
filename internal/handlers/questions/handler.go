package questions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/services/qa"
	"gitlab.com/cse-2025.net/internal/domain"
	"gitlab.com/cse-2025.net/internal/handlers"
	"gitlab.com/cse-2025.net/internal/static/errs"
)

// QuestionHandler handles contest Q&A API requests
type QuestionHandler struct {
	qaService qa.IQAService
	logger    primary.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(qaService qa.IQAService, logger primary.Logger) *QuestionHandler {
	return &QuestionHandler{
		qaService: qaService,
		logger:    logger,
	}
}

// RegisterRoutes registers the API routes for QuestionHandler
func (h *QuestionHandler) RegisterRoutes(router *mux.Router, admin func(http.Handler) http.Handler) {
	router.HandleFunc("/api/contests/{contestId}/questions", h.SubmitQuestion).Methods("POST")
	router.HandleFunc("/api/contests/{contestId}/questions", h.GetContestQuestions).Methods("GET")

	router.Handle("/api/questions/{questionId}/answer",
		admin(http.HandlerFunc(h.AnswerQuestion))).Methods("POST")
}

// SubmitQuestion handles question submission requests
func (h *QuestionHandler) SubmitQuestion(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(mux.Vars(r)["contestId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	var req SubmitQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		handlers.ResponseError(w, "Question text is required", http.StatusBadRequest)
		return
	}

	payload, _ := handlers.PayloadFromContext(r.Context())

	question, err := h.qaService.SubmitQuestion(r.Context(), contestID, payload.UserID, req.ProblemID, req.Question, req.IsPublic)
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to submit question", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to submit question", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusCreated, question)
}

// AnswerQuestion handles answer requests
func (h *QuestionHandler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := uuid.Parse(mux.Vars(r)["questionId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid question id", http.StatusBadRequest)
		return
	}

	var req AnswerQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	payload, _ := handlers.PayloadFromContext(r.Context())

	answered, err := h.qaService.AnswerQuestion(r.Context(), questionID, req.Answer, payload.UserID)
	if err != nil {
		switch {
		case errors.Is(err, errs.QuestionNotFound):
			handlers.ResponseError(w, "Question not found", http.StatusNotFound)
		case errors.Is(err, errs.QuestionAlreadyAnswered):
			handlers.ResponseError(w, err.Error(), http.StatusConflict)
		default:
			h.logger.Error("Failed to answer question", "questionId", questionID, "error", err)
			handlers.ResponseError(w, "Failed to answer question", http.StatusInternalServerError)
		}
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string]bool{"answered": answered})
}

// GetContestQuestions handles question listing requests
func (h *QuestionHandler) GetContestQuestions(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(mux.Vars(r)["contestId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	// Non-admin callers only see public questions.
	payload, _ := handlers.PayloadFromContext(r.Context())
	publicOnly := !payload.IsAdmin()

	questions, err := h.qaService.GetContestQuestions(r.Context(), contestID, publicOnly)
	if err != nil {
		h.logger.Error("Failed to list questions", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to list questions", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string][]*domain.Question{"questions": questions})
}
