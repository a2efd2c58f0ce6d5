package participants

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/services/registration"
	"gitlab.com/cse-2025.net/internal/domain"
	"gitlab.com/cse-2025.net/internal/handlers"
	"gitlab.com/cse-2025.net/internal/static/errs"
)

// ParticipantHandler handles enrollment API requests
type ParticipantHandler struct {
	registrationService registration.IRegistrationService
	logger              primary.Logger
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(registrationService registration.IRegistrationService, logger primary.Logger) *ParticipantHandler {
	return &ParticipantHandler{
		registrationService: registrationService,
		logger:              logger,
	}
}

// RegisterRoutes registers the API routes for ParticipantHandler
func (h *ParticipantHandler) RegisterRoutes(router *mux.Router, admin func(http.Handler) http.Handler) {
	router.HandleFunc("/api/contests/{contestId}/participants", h.Register).Methods("POST")
	router.HandleFunc("/api/contests/{contestId}/participants", h.ListParticipants).Methods("GET")
	router.HandleFunc("/api/contests/{contestId}/participants/{userId}", h.Unregister).Methods("DELETE")
	router.HandleFunc("/api/users/{userId}/enrollments", h.GetUserEnrollments).Methods("GET")

	router.Handle("/api/contests/{contestId}/participants/{userId}/disqualify",
		admin(http.HandlerFunc(h.Disqualify))).Methods("POST")
}

// Register handles enrollment requests. Self registration uses the token
// subject; admin tokens may enroll any user id.
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(mux.Vars(r)["contestId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	payload, _ := handlers.PayloadFromContext(r.Context())
	enrollmentType := domain.EnrollmentSelf
	userID := payload.UserID
	if req.EnrollmentType == string(domain.EnrollmentAdmin) {
		if !payload.IsAdmin() {
			handlers.ResponseError(w, "Admin privileges required", http.StatusForbidden)
			return
		}
		enrollmentType = domain.EnrollmentAdmin
		userID = req.UserID
	}
	if userID == "" {
		handlers.ResponseError(w, "Missing user id", http.StatusBadRequest)
		return
	}

	participant, err := h.registrationService.Register(r.Context(), contestID, userID, enrollmentType)
	if err != nil {
		switch {
		case errors.Is(err, errs.AlreadyRegistered):
			handlers.ResponseError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, errs.ContestNotFound):
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
		default:
			h.logger.Error("Failed to register participant",
				"contestId", contestID, "userId", userID, "error", err)
			handlers.ResponseError(w, "Failed to register participant", http.StatusInternalServerError)
		}
		return
	}

	handlers.ResponseWithJson(w, http.StatusCreated, participant)
}

// Unregister handles enrollment removal requests
func (h *ParticipantHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(mux.Vars(r)["contestId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}
	userID := mux.Vars(r)["userId"]

	payload, _ := handlers.PayloadFromContext(r.Context())
	if payload.UserID != userID && !payload.IsAdmin() {
		handlers.ResponseError(w, "Cannot unregister another user", http.StatusForbidden)
		return
	}

	removed, err := h.registrationService.Unregister(r.Context(), contestID, userID)
	if err != nil {
		h.logger.Error("Failed to unregister participant",
			"contestId", contestID, "userId", userID, "error", err)
		handlers.ResponseError(w, "Failed to unregister participant", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string]bool{"removed": removed})
}

// Disqualify handles disqualification requests
func (h *ParticipantHandler) Disqualify(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(mux.Vars(r)["contestId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}
	userID := mux.Vars(r)["userId"]

	var req DisqualifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	disqualified, err := h.registrationService.Disqualify(r.Context(), contestID, userID, req.Reason)
	if err != nil {
		if errors.Is(err, errs.ParticipantNotFound) {
			handlers.ResponseError(w, "Participant not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to disqualify participant",
			"contestId", contestID, "userId", userID, "error", err)
		handlers.ResponseError(w, "Failed to disqualify participant", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string]bool{"disqualified": disqualified})
}

// ListParticipants handles participant listing requests
func (h *ParticipantHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	contestID, err := uuid.Parse(mux.Vars(r)["contestId"])
	if err != nil {
		handlers.ResponseError(w, "Invalid contest id", http.StatusBadRequest)
		return
	}

	participants, err := h.registrationService.ListParticipants(r.Context(), contestID)
	if err != nil {
		if errors.Is(err, errs.ContestNotFound) {
			handlers.ResponseError(w, "Contest not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to list participants", "contestId", contestID, "error", err)
		handlers.ResponseError(w, "Failed to list participants", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK,
		map[string][]registration.EnrolledParticipant{"participants": participants})
}

// GetUserEnrollments handles cross-contest enrollment listing requests
func (h *ParticipantHandler) GetUserEnrollments(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	enrollments, err := h.registrationService.GetUserEnrollments(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get user enrollments", "userId", userID, "error", err)
		handlers.ResponseError(w, "Failed to get user enrollments", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK,
		map[string][]*domain.Participant{"enrollments": enrollments})
}
