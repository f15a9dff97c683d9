package model

import (
	"strings"
	"time"
)

// GuestID uniquely identifies a guest slot within a party
type GuestID string

// InviteCode is a single-use, human-enterable token granting one guest
// admission to a party. Stored upper-case; matching is case-insensitive.
type InviteCode string

// NormalizeInviteCode canonicalizes a human-entered code for lookup
func NormalizeInviteCode(raw string) InviteCode {
	return InviteCode(strings.ToUpper(strings.TrimSpace(raw)))
}

// GuestStatus represents a guest's response to their invitation
type GuestStatus string

const (
	GuestStatusInvited  GuestStatus = "invited"  // Slot created, code issued, not yet used
	GuestStatusJoined   GuestStatus = "joined"   // Code consumed, linked to a user
	GuestStatusDeclined GuestStatus = "declined" // Invitation turned down
)

// Guest represents a participant slot in a party, optionally linked
// to a registered user account.
type Guest struct {
	ID     GuestID
	UserID UserID // empty until the invite is used

	Name        string
	InviteCode  InviteCode // immutable once issued
	CharacterID string     // empty until the host assigns a character

	Status   GuestStatus
	JoinedAt *time.Time // set exactly once, on transition to joined

	// Both lists are append-only
	Objectives []Objective
	Inventory  []InventoryItem
}

// Objective is a task handed to a guest when a phase unlocks it
type Objective struct {
	Description string
	PhaseIndex  int // phase that delivered it
	Completed   bool
}

// InventoryItem is a prop or clue in a guest's possession
type InventoryItem struct {
	Name        string
	Description string
	PhaseIndex  int
}
