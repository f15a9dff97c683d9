package events

import (
	"encoding/json"
	"log/slog"

	"github.com/parlorgames/mysteryparty/internal/model"
)

// Event names sent over the party stream
const (
	EventRosterChanged  = "roster-changed"
	EventPartyPublished = "party-published"
	EventPartyStarted   = "party-started"
	EventPhaseAdvanced  = "phase-advanced"
	EventAccusationMade = "accusation-made"
	EventPartyCompleted = "party-completed"
	EventPartyCancelled = "party-cancelled"
)

// Broadcaster pushes party updates to connected SSE clients as JSON
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// RosterEntry is the public view of a guest suitable for broadcast.
// Invite codes never leave the host's channel, so they are omitted.
type RosterEntry struct {
	GuestID     model.GuestID     `json:"guest_id"`
	Name        string            `json:"name"`
	Status      model.GuestStatus `json:"status"`
	CharacterID string            `json:"character_id,omitempty"`
}

type rosterPayload struct {
	PartyID   model.PartyID `json:"party_id"`
	Joined    int           `json:"joined"`
	MaxGuests int           `json:"max_guests"`
	Roster    []RosterEntry `json:"roster"`
}

type statusPayload struct {
	PartyID model.PartyID     `json:"party_id"`
	Status  model.PartyStatus `json:"status"`
}

type phasePayload struct {
	PartyID    model.PartyID `json:"party_id"`
	PhaseIndex int           `json:"phase_index"`
	PhaseName  string        `json:"phase_name"`
}

type accusationPayload struct {
	PartyID            model.PartyID `json:"party_id"`
	GuestID            model.GuestID `json:"guest_id"`
	AccusedCharacterID string        `json:"accused_character_id"`
}

// BroadcastRosterChanged notifies clients that the guest roster changed
func (b *Broadcaster) BroadcastRosterChanged(party *model.Party) {
	roster := make([]RosterEntry, len(party.Guests))
	for i, g := range party.Guests {
		roster[i] = RosterEntry{
			GuestID:     g.ID,
			Name:        g.Name,
			Status:      g.Status,
			CharacterID: g.CharacterID,
		}
	}

	b.broadcastJSON(party.ID, EventRosterChanged, rosterPayload{
		PartyID:   party.ID,
		Joined:    party.JoinedCount(),
		MaxGuests: party.MaxGuests,
		Roster:    roster,
	})
}

// BroadcastPartyPublished notifies clients that the party is open for joining
func (b *Broadcaster) BroadcastPartyPublished(party *model.Party) {
	b.broadcastStatus(party, EventPartyPublished)
}

// BroadcastPartyStarted notifies clients that the game is underway
func (b *Broadcaster) BroadcastPartyStarted(party *model.Party) {
	b.broadcastStatus(party, EventPartyStarted)
}

// BroadcastPhaseAdvanced notifies clients of the new current phase
func (b *Broadcaster) BroadcastPhaseAdvanced(party *model.Party, phaseName string) {
	b.broadcastJSON(party.ID, EventPhaseAdvanced, phasePayload{
		PartyID:    party.ID,
		PhaseIndex: party.CurrentPhaseIndex,
		PhaseName:  phaseName,
	})
}

// BroadcastAccusationMade notifies clients that a guest made an accusation
func (b *Broadcaster) BroadcastAccusationMade(party *model.Party, accusation model.Accusation) {
	b.broadcastJSON(party.ID, EventAccusationMade, accusationPayload{
		PartyID:            party.ID,
		GuestID:            accusation.GuestID,
		AccusedCharacterID: accusation.AccusedCharacterID,
	})
}

// BroadcastPartyCompleted notifies clients that the mystery is over
func (b *Broadcaster) BroadcastPartyCompleted(party *model.Party) {
	b.broadcastStatus(party, EventPartyCompleted)
}

// BroadcastPartyCancelled notifies clients that the host cancelled
func (b *Broadcaster) BroadcastPartyCancelled(party *model.Party) {
	b.broadcastStatus(party, EventPartyCancelled)
}

func (b *Broadcaster) broadcastStatus(party *model.Party, eventName string) {
	b.broadcastJSON(party.ID, eventName, statusPayload{
		PartyID: party.ID,
		Status:  party.Status,
	})
}

func (b *Broadcaster) broadcastJSON(partyID model.PartyID, eventName string, payload any) {
	if b.hub.SubscriberCount(partyID) == 0 {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("sse failed to encode payload",
			slog.String("party", string(partyID)),
			slog.String("event", eventName),
			slog.Any("error", err))
		return
	}
	b.hub.Publish(partyID, eventName, string(data))
}
