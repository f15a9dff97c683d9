package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/parlorgames/mysteryparty/internal/api/middleware"
	"github.com/parlorgames/mysteryparty/internal/events"
	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/services/party"
)

// EventsHandler serves the per-party SSE stream
type EventsHandler struct {
	partyController *party.Controller
	hub             *events.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(partyController *party.Controller, hub *events.Hub) *EventsHandler {
	return &EventsHandler{
		partyController: partyController,
		hub:             hub,
	}
}

// Stream handles GET /api/v1/parties/{id}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.PartyID(mux.Vars(r)["id"])

	// Only the host and joined guests may listen
	p, err := h.partyController.GetParty(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if p.HostID != user.ID && !p.IsMember(user.ID) {
		WriteError(w, NewUnauthorizedError())
		return
	}

	h.hub.Stream(w, r, id, user.ID)
}
