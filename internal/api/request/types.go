package request

import "time"

// CreateGuestRequest is the request body for creating a guest user
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreatePartyRequest is the request body for creating a party
type CreatePartyRequest struct {
	MysteryPackageID string    `json:"mystery_package_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	ScheduledDate    time.Time `json:"scheduled_date"`
	Address          string    `json:"address,omitempty"`
	MaxGuests        int       `json:"max_guests"`
}

// AddGuestRequest is the request body for adding a guest to the roster
type AddGuestRequest struct {
	Name string `json:"name"`
}

// AssignCharacterRequest is the request body for assigning a character
type AssignCharacterRequest struct {
	CharacterID string `json:"character_id"`
}

// AccuseRequest is the request body for recording an accusation
type AccuseRequest struct {
	AccusedCharacterID string `json:"accused_character_id"`
	Reasoning          string `json:"reasoning,omitempty"`
}

// JoinRequest is the request body for redeeming an invite code
type JoinRequest struct {
	InviteCode string `json:"invite_code"`
}
