package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/parlorgames/mysteryparty/internal/api/middleware"
	"github.com/parlorgames/mysteryparty/internal/api/request"
	"github.com/parlorgames/mysteryparty/internal/api/response"
	"github.com/parlorgames/mysteryparty/internal/events"
	"github.com/parlorgames/mysteryparty/internal/services/admission"
	"github.com/parlorgames/mysteryparty/internal/services/party"
)

// JoinHandler handles invite code redemption and declining
type JoinHandler struct {
	admissionController *admission.Controller
	partyController     *party.Controller
	broadcaster         *events.Broadcaster
}

// NewJoinHandler creates a new join handler
func NewJoinHandler(admissionController *admission.Controller, partyController *party.Controller, hub *events.Hub, logger *slog.Logger) *JoinHandler {
	var broadcaster *events.Broadcaster
	if hub != nil {
		broadcaster = events.NewBroadcaster(hub, logger)
	}
	return &JoinHandler{
		admissionController: admissionController,
		partyController:     partyController,
		broadcaster:         broadcaster,
	}
}

// Join handles POST /api/v1/join
func (h *JoinHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.InviteCode == "" {
		WriteError(w, NewInvalidRequestError("invite_code is required"))
		return
	}

	p, err := h.admissionController.JoinParty(r.Context(), user.ID, req.InviteCode)
	if err != nil {
		WriteError(w, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastRosterChanged(p)
	}

	response.JSON(w, http.StatusOK, response.PartyFromModel(p, false))
}

// Decline handles POST /api/v1/invites/{code}/decline
func (h *JoinHandler) Decline(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	if err := h.partyController.DeclineInvite(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
