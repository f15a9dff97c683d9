package model

import "time"

// PartyID uniquely identifies a party
type PartyID string

// PartyStatus represents the lifecycle state of a party
type PartyStatus string

const (
	PartyStatusDraft      PartyStatus = "draft"       // Host is still setting up
	PartyStatusPlanned    PartyStatus = "planned"     // Published, guests may join
	PartyStatusInProgress PartyStatus = "in_progress" // Game underway, phases advancing
	PartyStatusCompleted  PartyStatus = "completed"   // Final phase advanced past
	PartyStatusCancelled  PartyStatus = "cancelled"   // Host cancelled before completion
)

// Party represents one scheduled play-through of a mystery package,
// owning its guest roster and (once started) its game state.
type Party struct {
	ID               PartyID
	HostID           UserID
	MysteryPackageID PackageID

	Title         string
	Description   string
	ScheduledDate time.Time
	Address       string // optional venue

	Status    PartyStatus
	MaxGuests int

	// Guests are owned by the party and deleted with it
	Guests []Guest

	// CurrentPhaseIndex is zero-based and never decreases.
	// Only meaningful once Status is in_progress or completed.
	CurrentPhaseIndex int

	// GameState is nil until the party starts
	GameState *GameState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// partyTransitions is the allowed status transition table
var partyTransitions = map[PartyStatus][]PartyStatus{
	PartyStatusDraft:      {PartyStatusPlanned, PartyStatusCancelled},
	PartyStatusPlanned:    {PartyStatusInProgress, PartyStatusCancelled},
	PartyStatusInProgress: {PartyStatusCompleted, PartyStatusCancelled},
	PartyStatusCompleted:  {},
	PartyStatusCancelled:  {},
}

// CanTransitionTo reports whether moving from the current status to target is legal
func (p *Party) CanTransitionTo(target PartyStatus) bool {
	for _, allowed := range partyTransitions[p.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the party has reached a final status
func (p *Party) IsTerminal() bool {
	return p.Status == PartyStatusCompleted || p.Status == PartyStatusCancelled
}

// IsJoinable reports whether guests may still be admitted.
// A party already underway does not admit new guests.
func (p *Party) IsJoinable() bool {
	return p.Status == PartyStatusDraft || p.Status == PartyStatusPlanned
}

// GuestByID returns the guest with the given id, or nil if not found
func (p *Party) GuestByID(id GuestID) *Guest {
	for i := range p.Guests {
		if p.Guests[i].ID == id {
			return &p.Guests[i]
		}
	}
	return nil
}

// GuestByInviteCode returns the guest holding the given code, or nil
func (p *Party) GuestByInviteCode(code InviteCode) *Guest {
	for i := range p.Guests {
		if p.Guests[i].InviteCode == code {
			return &p.Guests[i]
		}
	}
	return nil
}

// GuestForUser returns the guest row linked to the given user, or nil
func (p *Party) GuestForUser(userID UserID) *Guest {
	for i := range p.Guests {
		if p.Guests[i].UserID == userID {
			return &p.Guests[i]
		}
	}
	return nil
}

// IsMember reports whether any guest row, in any status, is linked to the user
func (p *Party) IsMember(userID UserID) bool {
	if userID == "" {
		return false
	}
	return p.GuestForUser(userID) != nil
}

// JoinedCount returns the number of guests that have joined
func (p *Party) JoinedCount() int {
	count := 0
	for i := range p.Guests {
		if p.Guests[i].Status == GuestStatusJoined {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the party, including guests and game state.
// Storage backends return clones so callers can only mutate a party through
// the transactional update path.
func (p *Party) Clone() *Party {
	clone := *p
	clone.Guests = make([]Guest, len(p.Guests))
	for i, g := range p.Guests {
		clone.Guests[i] = g
		if g.JoinedAt != nil {
			t := *g.JoinedAt
			clone.Guests[i].JoinedAt = &t
		}
		clone.Guests[i].Objectives = append([]Objective(nil), g.Objectives...)
		clone.Guests[i].Inventory = append([]InventoryItem(nil), g.Inventory...)
	}
	if p.GameState != nil {
		gs := *p.GameState
		gs.Evidence = append([]Evidence(nil), p.GameState.Evidence...)
		gs.Accusations = append([]Accusation(nil), p.GameState.Accusations...)
		gs.UnlockedSections = append([]GameSection(nil), p.GameState.UnlockedSections...)
		if p.GameState.PhaseEndTime != nil {
			t := *p.GameState.PhaseEndTime
			gs.PhaseEndTime = &t
		}
		if p.GameState.Solution != nil {
			sol := *p.GameState.Solution
			gs.Solution = &sol
		}
		clone.GameState = &gs
	}
	return &clone
}

// JoinedGuestIDs returns the ids of all joined guests, in roster order
func (p *Party) JoinedGuestIDs() []GuestID {
	var ids []GuestID
	for i := range p.Guests {
		if p.Guests[i].Status == GuestStatusJoined {
			ids = append(ids, p.Guests[i].ID)
		}
	}
	return ids
}
