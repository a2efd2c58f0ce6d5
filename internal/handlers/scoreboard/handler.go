package scoreboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/services/leaderboard"
	"gitlab.com/cse-2025.net/internal/core/services/scoring"
	"gitlab.com/cse-2025.net/internal/domain"
	"gitlab.com/cse-2025.net/internal/handlers"
	"gitlab.com/cse-2025.net/internal/static/errs"
)

// ScoreboardHandler handles submission ingestion and leaderboard API
// requests
type ScoreboardHandler struct {
	scoringService     scoring.IScoringService
	leaderboardService leaderboard.ILeaderboardService
	logger             primary.Logger
}

// NewScoreboardHandler creates a new scoreboard handler
func NewScoreboardHandler(
	scoringService scoring.IScoringService,
	leaderboardService leaderboard.ILeaderboardService,
	logger primary.Logger,
) *ScoreboardHandler {
	return &ScoreboardHandler{
		scoringService:     scoringService,
		leaderboardService: leaderboardService,
		logger:             logger,
	}
}

// RegisterRoutes registers the API routes for ScoreboardHandler
func (h *ScoreboardHandler) RegisterRoutes(router *mux.Router, admin func(http.Handler) http.Handler) {
	router.HandleFunc("/api/contests/{contestId}/submissions", h.RecordSubmission).Methods("POST")
	router.HandleFunc("/api/contests/{contestId}/submissions", h.GetContestSubmissions).Methods("GET")
	router.HandleFunc("/api/contests/{contestId}/submissions/{userId}", h.GetParticipantSubmissions).Methods("GET")
	router.HandleFunc("/api/contests/{contestId}/leaderboard", h.GetLeaderboard).Methods("GET")
	router.HandleFunc("/api/contests/{contestId}/analytics", h.GetAnalytics).Methods("GET")

	router.Handle("/api/contests/{contestId}/rankings/refresh",
		admin(http.HandlerFunc(h.RefreshRankings))).Methods("POST")
}

// RecordSubmission handles judge verdict callbacks
func (h *ScoreboardHandler) RecordSubmission(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(mux.Vars(r)["contestId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	var req RecordSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	status, err := domain.ParseVerdictStatus(req.Status)
	if err != nil {
		handlers.ResponseError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// An absent submission id still records; the engine assigns one.
	submissionID := uuid.Nil
	if req.SubmissionID != "" {
		submissionID, err = uuid.Parse(req.SubmissionID)
		if err != nil {
			handlers.ResponseError(w, "Invalid submission id", http.StatusBadRequest)
			return
		}
	}

	submission, err := h.scoringService.RecordSubmission(r.Context(), submissionID, contestID, req.ProblemID, req.UserID, domain.Verdict{
		Status:  status,
		Points:  req.Points,
		Runtime: req.Runtime,
		Memory:  req.Memory,
		Penalty: req.Penalty,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ContestNotFound):
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
		case errors.Is(err, errs.ParticipantNotFound):
			handlers.ResponseError(w, "Participant not found", http.StatusNotFound)
		default:
			h.logger.Error("Failed to record submission",
				"contestId", contestID, "userId", req.UserID, "error", err)
			handlers.ResponseError(w, "Failed to record submission", http.StatusInternalServerError)
		}
		return
	}

	handlers.ResponseWithJson(w, http.StatusCreated, SubmissionResponse{
		SubmissionID: submission.ID.String(),
		ContestID:    submission.ContestID.String(),
		ProblemID:    submission.ProblemID,
		UserID:       submission.UserID,
		Status:       string(submission.Status),
		RecordedAt:   submission.SubmissionTime,
	})
}

// GetContestSubmissions handles contest-wide submission listing requests
func (h *ScoreboardHandler) GetContestSubmissions(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(mux.Vars(r)["contestId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	submissions, err := h.scoringService.GetContestSubmissions(r.Context(), contestID)
	if err != nil {
		h.logger.Error("Failed to list submissions", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to list submissions", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string][]*domain.Submission{"submissions": submissions})
}

// GetParticipantSubmissions handles per-user submission listing requests
func (h *ScoreboardHandler) GetParticipantSubmissions(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(mux.Vars(r)["contestId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}
	userID := mux.Vars(r)["userId"]

	submissions, err := h.scoringService.GetParticipantSubmissions(r.Context(), contestID, userID)
	if err != nil {
		h.logger.Error("Failed to list participant submissions",
			"contestId", contestID, "userId", userID, "error", err)
		handlers.ResponseError(w, "Failed to list submissions", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string][]*domain.Submission{"submissions": submissions})
}

// GetLeaderboard handles leaderboard requests
func (h *ScoreboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(mux.Vars(r)["contestId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	entries, err := h.leaderboardService.GenerateLeaderboard(r.Context(), contestID)
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to generate leaderboard", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to generate leaderboard", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string][]domain.LeaderboardEntry{"leaderboard": entries})
}

// GetAnalytics handles contest analytics requests
func (h *ScoreboardHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(mux.Vars(r)["contestId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	analytics, err := h.leaderboardService.GetAnalytics(r.Context(), contestID)
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to compute analytics", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to compute analytics", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, analytics)
}

// RefreshRankings handles administrative ranking persistence requests
func (h *ScoreboardHandler) RefreshRankings(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(mux.Vars(r)["contestId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	complete, err := h.leaderboardService.UpdateRankings(r.Context(), contestID)
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to refresh rankings", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to refresh rankings", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string]bool{"complete": complete})
}
