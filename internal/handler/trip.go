package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sevillaa/Travel-bros/internal/model"
	"github.com/sevillaa/Travel-bros/internal/service"
)

// TripHandler maps the trip/participant HTTP surface onto the service
// layer. Handlers only parse requests and write responses; every rule
// lives in the service.
type TripHandler struct {
	service *service.TripService
	logger  *slog.Logger
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(svc *service.TripService, logger *slog.Logger) *TripHandler {
	return &TripHandler{service: svc, logger: logger}
}

type createTripRequest struct {
	VotingDate    string   `json:"votingDate"`
	Participants  []string `json:"participants"`
	MaxYesPerUser *int     `json:"maxYesPerUser"`
	MaxNoPerUser  *int     `json:"maxNoPerUser"`
}

type createTripResponse struct {
	OK   bool        `json:"ok"`
	Code string      `json:"code"`
	Trip *model.Trip `json:"trip"`
}

type tripResponse struct {
	OK   bool        `json:"ok"`
	Trip *model.Trip `json:"trip"`
}

type joinRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	ChoicesYes []string `json:"choicesYes"`
	ChoicesNo  []string `json:"choicesNo"`
}

type joinResponse struct {
	OK            bool        `json:"ok"`
	Trip          *model.Trip `json:"trip"`
	ParticipantID string      `json:"participantId"`
}

type updateParticipantRequest struct {
	ChoicesYes []string `json:"choicesYes"`
	ChoicesNo  []string `json:"choicesNo"`
	Name       string   `json:"name"`
}

type updateParticipantResponse struct {
	OK          bool               `json:"ok"`
	Trip        *model.Trip        `json:"trip"`
	Participant *model.Participant `json:"participant"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type userTripsResponse struct {
	OK    bool                `json:"ok"`
	Trips []model.TripSummary `json:"trips"`
}

// HandleCreate handles POST /api/trips.
func (h *TripHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create trip JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid JSON body"})
		return
	}

	trip, err := h.service.Create(r.Context(), req.VotingDate, req.Participants, req.MaxYesPerUser, req.MaxNoPerUser)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createTripResponse{OK: true, Code: trip.Code, Trip: trip})
}

// HandleGetByCode handles GET /api/trips/{code}.
func (h *TripHandler) HandleGetByCode(w http.ResponseWriter, r *http.Request) {
	trip, err := h.service.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tripResponse{OK: true, Trip: trip})
}

// HandleJoin handles POST /api/trips/{code}/join.
func (h *TripHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid join JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid JSON body"})
		return
	}

	trip, participantID, err := h.service.Join(r.Context(), r.PathValue("code"),
		req.Name, req.Email, req.ChoicesYes, req.ChoicesNo)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, joinResponse{OK: true, Trip: trip, ParticipantID: participantID})
}

// HandleUpdateParticipant handles PUT /api/trips/{code}/participants/{participantId}.
func (h *TripHandler) HandleUpdateParticipant(w http.ResponseWriter, r *http.Request) {
	var req updateParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid update JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid JSON body"})
		return
	}

	trip, participant, err := h.service.UpdateParticipant(r.Context(), r.PathValue("code"),
		r.PathValue("participantId"), req.ChoicesYes, req.ChoicesNo, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updateParticipantResponse{OK: true, Trip: trip, Participant: participant})
}

// HandleRemoveParticipant handles DELETE /api/trips/{code}/participants/{participantId}.
func (h *TripHandler) HandleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveParticipant(r.Context(), r.PathValue("code"), r.PathValue("participantId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// HandleTripsForEmail handles GET /api/users/{email}/trips.
// Always 200; an unknown email simply returns an empty list.
func (h *TripHandler) HandleTripsForEmail(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.TripsForEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userTripsResponse{OK: true, Trips: summaries})
}
