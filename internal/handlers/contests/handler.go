package contests

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/core/services/contest"
	"gitlab.com/cse-2025.net/internal/core/services/lifecycle"
	"gitlab.com/cse-2025.net/internal/core/services/qa"
	"gitlab.com/cse-2025.net/internal/domain"
	"gitlab.com/cse-2025.net/internal/handlers"
	"gitlab.com/cse-2025.net/internal/static/errs"
)

// ContestHandler handles contest API requests
type ContestHandler struct {
	contestService   contest.IContestService
	lifecycleService lifecycle.ILifecycleService
	qaService        qa.IQAService
	logger           primary.Logger
}

// NewContestHandler creates a new contest handler
func NewContestHandler(
	contestService contest.IContestService,
	lifecycleService lifecycle.ILifecycleService,
	qaService qa.IQAService,
	logger primary.Logger,
) *ContestHandler {
	return &ContestHandler{
		contestService:   contestService,
		lifecycleService: lifecycleService,
		qaService:        qaService,
		logger:           logger,
	}
}

// RegisterRoutes registers the API routes for ContestHandler
func (h *ContestHandler) RegisterRoutes(router *mux.Router, admin func(http.Handler) http.Handler) {
	router.HandleFunc("/api/contests", h.ListContests).Methods("GET")
	router.HandleFunc("/api/contests/{contestId}", h.GetContest).Methods("GET")
	router.HandleFunc("/api/contests/{contestId}/problems", h.GetProblems).Methods("GET")
	router.HandleFunc("/api/contests/{contestId}/announcements", h.GetAnnouncements).Methods("GET")

	router.Handle("/api/contests", admin(http.HandlerFunc(h.CreateContest))).Methods("POST")
	router.Handle("/api/contests/{contestId}", admin(http.HandlerFunc(h.DeleteContest))).Methods("DELETE")
	router.Handle("/api/contests/{contestId}/end", admin(http.HandlerFunc(h.EndContest))).Methods("POST")
	router.Handle("/api/contests/{contestId}/problems", admin(http.HandlerFunc(h.AddProblem))).Methods("POST")
	router.Handle("/api/contests/{contestId}/problems/{problemId}", admin(http.HandlerFunc(h.UpdateProblem))).Methods("PUT")
	router.Handle("/api/contests/{contestId}/problems/{problemId}", admin(http.HandlerFunc(h.RemoveProblem))).Methods("DELETE")
	router.Handle("/api/contests/{contestId}/announcements", admin(http.HandlerFunc(h.AddAnnouncement))).Methods("POST")
}

func contestIDFromRequest(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["contestId"])
}

// CreateContest handles contest creation requests
func (h *ContestHandler) CreateContest(w http.ResponseWriter, r *http.Request) {
	var req CreateContestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	createdBy := ""
	if payload, ok := handlers.PayloadFromContext(r.Context()); ok {
		createdBy = payload.UserID
	}

	created, err := h.contestService.CreateContest(r.Context(), contest.CreateContestInput{
		Title:           req.Title,
		Description:     req.Description,
		Visibility:      req.Visibility,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		CreatedBy:       createdBy,
		Problems:        req.Problems,
	})
	if err != nil {
		h.logger.Error("Failed to create contest", "error", err)
		handlers.ResponseError(w, "Failed to create contest", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusCreated, created)
}

// ListContests handles contest listing requests
func (h *ContestHandler) ListContests(w http.ResponseWriter, r *http.Request) {
	filter := secondary.ContestFilter{
		Visibility: r.URL.Query().Get("visibility"),
		EndedOnly:  r.URL.Query().Get("ended") == "true",
	}

	contests, err := h.contestService.ListContests(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list contests", "error", err)
		handlers.ResponseError(w, "Failed to list contests", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string][]*domain.Contest{"contests": contests})
}

// GetContest handles single contest retrieval requests
func (h *ContestHandler) GetContest(w http.ResponseWriter, r *http.Request) {
	contestID, err := contestIDFromRequest(r)
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	found, err := h.contestService.GetContest(r.Context(), contestID)
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get contest", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to get contest", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, found)
}

// DeleteContest handles contest deletion requests
func (h *ContestHandler) DeleteContest(w http.ResponseWriter, r *http.Request) {
	contestID, err := contestIDFromRequest(r)
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	deleted, err := h.contestService.DeleteContest(r.Context(), contestID)
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to delete contest", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to delete contest", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// EndContest handles manual contest termination requests
func (h *ContestHandler) EndContest(w http.ResponseWriter, r *http.Request) {
	contestID, err := contestIDFromRequest(r)
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	ended, err := h.lifecycleService.EndManually(r.Context(), contestID)
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to end contest", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to end contest", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string]bool{"ended": ended})
}

// GetProblems handles problem listing requests
func (h *ContestHandler) GetProblems(w http.ResponseWriter, r *http.Request) {
	contestID, err := contestIDFromRequest(r)
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	problems, err := h.contestService.GetProblems(r.Context(), contestID)
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get problems", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to get problems", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string][]domain.ContestProblem{"problems": problems})
}

// AddProblem handles problem creation requests
func (h *ContestHandler) AddProblem(w http.ResponseWriter, r *http.Request) {
	contestID, err := contestIDFromRequest(r)
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	var req ProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	problem, err := h.contestService.AddProblem(r.Context(), contestID, domain.ContestProblem{
		ID:          req.ID,
		Title:       req.Title,
		Points:      req.Points,
		TimeLimit:   req.TimeLimit,
		MemoryLimit: req.MemoryLimit,
	})
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to add problem", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to add problem", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusCreated, problem)
}

// UpdateProblem handles problem update requests
func (h *ContestHandler) UpdateProblem(w http.ResponseWriter, r *http.Request) {
	contestID, err := contestIDFromRequest(r)
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	var req ProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	req.ID = mux.Vars(r)["problemId"]

	updated, err := h.contestService.UpdateProblem(r.Context(), contestID, domain.ContestProblem{
		ID:          req.ID,
		Title:       req.Title,
		Points:      req.Points,
		TimeLimit:   req.TimeLimit,
		MemoryLimit: req.MemoryLimit,
	})
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) || errors.Is(err, errs.ProblemNotFound) {
			handlers.ResponseError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to update problem", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to update problem", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string]bool{"updated": updated})
}

// RemoveProblem handles problem removal requests
func (h *ContestHandler) RemoveProblem(w http.ResponseWriter, r *http.Request) {
	contestID, err := contestIDFromRequest(r)
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	removed, err := h.contestService.RemoveProblem(r.Context(), contestID, mux.Vars(r)["problemId"])
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to remove problem", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to remove problem", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string]bool{"removed": removed})
}

// AddAnnouncement handles announcement broadcast requests
func (h *ContestHandler) AddAnnouncement(w http.ResponseWriter, r *http.Request) {
	contestID, err := contestIDFromRequest(r)
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	var req AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	added, err := h.qaService.AddAnnouncement(r.Context(), contestID, req.Message, domain.AnnouncementPriority(req.Priority))
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to add announcement", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to add announcement", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusCreated, map[string]bool{"added": added})
}

// GetAnnouncements handles announcement listing requests
func (h *ContestHandler) GetAnnouncements(w http.ResponseWriter, r *http.Request) {
	contestID, err := contestIDFromRequest(r)
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	announcements, err := h.qaService.GetAnnouncements(r.Context(), contestID)
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get announcements", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to get announcements", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string][]domain.Announcement{"announcements": announcements})
}
