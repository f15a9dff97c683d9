package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Party errors
	ErrPartyNotFound          = errors.New("party not found")
	ErrPartyFull              = errors.New("party is full")
	ErrPartyNotJoinable       = errors.New("party is not accepting guests")
	ErrAlreadyJoined          = errors.New("user has already joined this party")
	ErrInvalidStateTransition = errors.New("invalid party state transition")
	ErrNotHost                = errors.New("user is not the party host")
	ErrGuestNotFound          = errors.New("guest not found")
	ErrInvalidMaxGuests       = errors.New("max guests must be positive")
	ErrNotPartyMember         = errors.New("user is not a joined guest of this party")

	// Game state errors
	ErrSectionLocked = errors.New("section has not been unlocked yet")

	// Invite errors
	ErrInvalidInviteCode = errors.New("invalid invite code")

	// Mystery package errors
	ErrPackageNotFound  = errors.New("mystery package not found")
	ErrUnknownCharacter = errors.New("character not in mystery package")

	// Storage errors
	// ErrStoreContended means a transactional update kept losing races with
	// concurrent writers. Safe to retry.
	ErrStoreContended = errors.New("storage contention, retry")
)
