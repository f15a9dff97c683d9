package admission

import (
	"context"
	"errors"
	"log/slog"

	"github.com/parlorgames/mysteryparty/internal/dependencies/clock"
	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/storage"
)

// Controller admits users into parties via invite codes. The whole
// join decision runs inside the party's transactional update so that
// concurrent joins against the same party are serialized: the roster
// can never exceed MaxGuests and a code can never be consumed twice.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new admission Controller
func NewController(store storage.Storage, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: store,
		clock:   clock,
		logger:  logger,
	}
}

// JoinParty redeems an invite code for the given user.
//
// Gate order: the code must resolve to a live guest slot, the party
// must still be accepting guests, the user must not already be a
// member, the code must be unconsumed, and the party must have a free
// seat. The first failing gate decides the error.
func (c *Controller) JoinParty(ctx context.Context, userID model.UserID, rawCode string) (*model.Party, error) {
	code := model.NormalizeInviteCode(rawCode)
	if code == "" {
		return nil, model.ErrInvalidInviteCode
	}

	ref, err := c.storage.ResolveInvite(ctx, code)
	if err != nil {
		return nil, err
	}

	updated, err := c.storage.UpdateParty(ctx, ref.PartyID, func(p *model.Party) error {
		guest := p.GuestByID(ref.GuestID)
		if guest == nil {
			return model.ErrInvalidInviteCode
		}
		if !p.IsJoinable() {
			return model.ErrPartyNotJoinable
		}
		if p.IsMember(userID) {
			return model.ErrAlreadyJoined
		}
		if guest.Status != model.GuestStatusInvited {
			return model.ErrInvalidInviteCode
		}
		if p.JoinedCount() >= p.MaxGuests {
			return model.ErrPartyFull
		}

		now := c.clock.Now()
		guest.Status = model.GuestStatusJoined
		guest.UserID = userID
		guest.JoinedAt = &now
		p.UpdatedAt = now
		return nil
	})
	if errors.Is(err, model.ErrPartyNotFound) {
		// A dangling invite ref must not reveal that the party existed
		return nil, model.ErrInvalidInviteCode
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("guest joined party",
		slog.String("party_id", string(updated.ID)),
		slog.String("guest_id", string(ref.GuestID)),
		slog.String("user_id", string(userID)),
		slog.Int("joined", updated.JoinedCount()),
		slog.Int("max_guests", updated.MaxGuests))
	return updated, nil
}
