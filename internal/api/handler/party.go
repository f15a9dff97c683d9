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
	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/services/party"
	"github.com/parlorgames/mysteryparty/internal/services/phase"
)

// PartyHandler handles party lifecycle and roster endpoints
type PartyHandler struct {
	partyController *party.Controller
	phaseAdvancer   *phase.Advancer
	broadcaster     *events.Broadcaster
}

// NewPartyHandler creates a new party handler
func NewPartyHandler(partyController *party.Controller, phaseAdvancer *phase.Advancer, hub *events.Hub, logger *slog.Logger) *PartyHandler {
	var broadcaster *events.Broadcaster
	if hub != nil {
		broadcaster = events.NewBroadcaster(hub, logger)
	}
	return &PartyHandler{
		partyController: partyController,
		phaseAdvancer:   phaseAdvancer,
		broadcaster:     broadcaster,
	}
}

// getBroadcaster returns the broadcaster if available
func (h *PartyHandler) getBroadcaster() *events.Broadcaster {
	return h.broadcaster
}

// Create handles POST /api/v1/parties
func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.MysteryPackageID == "" {
		WriteError(w, NewInvalidRequestError("mystery_package_id is required"))
		return
	}
	if req.Title == "" {
		WriteError(w, NewInvalidRequestError("title is required"))
		return
	}

	p, err := h.partyController.CreateParty(r.Context(), user.ID, party.CreatePartyInput{
		MysteryPackageID: model.PackageID(req.MysteryPackageID),
		Title:            req.Title,
		Description:      req.Description,
		ScheduledDate:    req.ScheduledDate,
		Address:          req.Address,
		MaxGuests:        req.MaxGuests,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PartyFromModel(p, true))
}

// List handles GET /api/v1/parties
func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	parties, err := h.partyController.GetPartiesForHost(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.Party, len(parties))
	for i, p := range parties {
		out[i] = response.PartyFromModel(p, true)
	}
	response.JSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/parties/{id}
func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.PartyID(mux.Vars(r)["id"])

	p, err := h.partyController.GetParty(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PartyFromModel(p, p.HostID == user.ID))
}

// Publish handles POST /api/v1/parties/{id}/publish
func (h *PartyHandler) Publish(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.PartyID(mux.Vars(r)["id"])

	p, err := h.partyController.Publish(r.Context(), id, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		b.BroadcastPartyPublished(p)
	}

	response.JSON(w, http.StatusOK, response.PartyFromModel(p, true))
}

// Start handles POST /api/v1/parties/{id}/start
func (h *PartyHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.PartyID(mux.Vars(r)["id"])

	p, err := h.partyController.Start(r.Context(), id, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		b.BroadcastPartyStarted(p)
	}

	response.JSON(w, http.StatusOK, response.PartyFromModel(p, true))
}

// Cancel handles POST /api/v1/parties/{id}/cancel
func (h *PartyHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.PartyID(mux.Vars(r)["id"])

	p, err := h.partyController.Cancel(r.Context(), id, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		b.BroadcastPartyCancelled(p)
	}

	response.JSON(w, http.StatusOK, response.PartyFromModel(p, true))
}

// Advance handles POST /api/v1/parties/{id}/advance
func (h *PartyHandler) Advance(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.PartyID(mux.Vars(r)["id"])

	p, err := h.phaseAdvancer.AdvancePhase(r.Context(), id, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		if p.Status == model.PartyStatusCompleted {
			b.BroadcastPartyCompleted(p)
		} else {
			b.BroadcastPhaseAdvanced(p, h.phaseName(r, p))
		}
	}

	response.JSON(w, http.StatusOK, response.PartyFromModel(p, true))
}

// phaseName resolves the current phase's display name, best effort
func (h *PartyHandler) phaseName(r *http.Request, p *model.Party) string {
	pkg, err := h.partyController.GetPackage(r.Context(), p.MysteryPackageID)
	if err != nil || p.CurrentPhaseIndex >= pkg.PhaseCount() {
		return ""
	}
	return pkg.Phases[p.CurrentPhaseIndex].Name
}

// Accuse handles POST /api/v1/parties/{id}/accusations
func (h *PartyHandler) Accuse(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.PartyID(mux.Vars(r)["id"])

	var req request.AccuseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.AccusedCharacterID == "" {
		WriteError(w, NewInvalidRequestError("accused_character_id is required"))
		return
	}

	p, err := h.partyController.RecordAccusation(r.Context(), id, user.ID, req.AccusedCharacterID, req.Reasoning)
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil && p.GameState != nil && len(p.GameState.Accusations) > 0 {
		b.BroadcastAccusationMade(p, p.GameState.Accusations[len(p.GameState.Accusations)-1])
	}

	response.JSON(w, http.StatusCreated, response.PartyFromModel(p, p.HostID == user.ID))
}

// AddGuest handles POST /api/v1/parties/{id}/guests
func (h *PartyHandler) AddGuest(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.PartyID(mux.Vars(r)["id"])

	var req request.AddGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	guest, err := h.partyController.AddGuest(r.Context(), id, user.ID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		if p, err := h.partyController.GetParty(r.Context(), id); err == nil {
			b.BroadcastRosterChanged(p)
		}
	}

	response.JSON(w, http.StatusCreated, response.GuestFromModel(*guest, true))
}

// AssignCharacter handles POST /api/v1/parties/{id}/guests/{guestID}/character
func (h *PartyHandler) AssignCharacter(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	vars := mux.Vars(r)
	id := model.PartyID(vars["id"])
	guestID := model.GuestID(vars["guestID"])

	var req request.AssignCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.CharacterID == "" {
		WriteError(w, NewInvalidRequestError("character_id is required"))
		return
	}

	p, err := h.partyController.AssignCharacter(r.Context(), id, user.ID, guestID, req.CharacterID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		b.BroadcastRosterChanged(p)
	}

	response.JSON(w, http.StatusOK, response.PartyFromModel(p, true))
}
