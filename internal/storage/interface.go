package storage

import (
	"context"

	"github.com/parlorgames/mysteryparty/internal/model"
)

// InviteRef locates the guest slot an invite code was issued for
type InviteRef struct {
	PartyID model.PartyID `json:"party_id"`
	GuestID model.GuestID `json:"guest_id"`
}

// Storage defines the interface for data persistence.
//
// UpdateParty is the linearization point for everything that mutates a
// party: implementations must apply fn to the current stored value and
// persist the result so that concurrent updates to the same party never
// interleave. Reads taken inside fn are therefore safe to base writes on.
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	DeleteUser(ctx context.Context, id model.UserID) error

	// Registered user operations
	SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error
	GetRegisteredUser(ctx context.Context, userID model.UserID) (*model.RegisteredUser, error)
	GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error)

	// Party operations
	SaveParty(ctx context.Context, party *model.Party) error
	GetParty(ctx context.Context, id model.PartyID) (*model.Party, error)
	DeleteParty(ctx context.Context, id model.PartyID) error
	GetPartiesForHost(ctx context.Context, hostID model.UserID) ([]*model.Party, error)

	// UpdateParty atomically applies fn to the stored party and persists
	// the result. A non-nil error from fn aborts the update and is
	// returned unchanged. Returns model.ErrPartyNotFound if the party
	// does not exist, and model.ErrStoreContended if the update kept
	// losing races with concurrent writers.
	UpdateParty(ctx context.Context, id model.PartyID, fn func(*model.Party) error) (*model.Party, error)

	// Invite code index operations. ResolveInvite is a pure lookup;
	// consumption is enforced on the guest record, not here.
	SaveInviteRef(ctx context.Context, code model.InviteCode, ref InviteRef) error
	ResolveInvite(ctx context.Context, code model.InviteCode) (InviteRef, error)
	InviteCodeExists(ctx context.Context, code model.InviteCode) (bool, error)
	DeleteInviteRef(ctx context.Context, code model.InviteCode) error

	// Mystery package operations (read-mostly reference data)
	SaveMysteryPackage(ctx context.Context, pkg *model.MysteryPackage) error
	GetMysteryPackage(ctx context.Context, id model.PackageID) (*model.MysteryPackage, error)
	ListMysteryPackages(ctx context.Context) ([]*model.MysteryPackage, error)
}
