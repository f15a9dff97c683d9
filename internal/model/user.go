package model

import "time"

// UserID uniquely identifies a user account across the system
type UserID string

// User represents an authenticated person: a host or a joined guest
type User struct {
	ID          UserID
	DisplayName string
	IsGuest     bool // true for throwaway accounts created at join time
	CreatedAt   time.Time
}

// RegisteredUser extends User with authentication data.
// Stored separately so password hashes never travel with sessions.
type RegisteredUser struct {
	UserID       UserID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
