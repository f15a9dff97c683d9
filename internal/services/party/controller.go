package party

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/parlorgames/mysteryparty/internal/dependencies/clock"
	"github.com/parlorgames/mysteryparty/internal/dependencies/random"
	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/services/mystery"
	"github.com/parlorgames/mysteryparty/internal/storage"
)

const (
	// InviteCodeLength is the length of generated invite codes
	InviteCodeLength = 6
	// InviteCodeAlphabet is the characters used in invite codes (avoid confusing chars)
	InviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Controller manages the party lifecycle and the host-side guest roster
type Controller struct {
	storage storage.Storage
	mystery *mystery.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new party Controller
func NewController(
	storage storage.Storage,
	mysteryService *mystery.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		mystery: mysteryService,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreatePartyInput is the host-supplied portion of a new party
type CreatePartyInput struct {
	MysteryPackageID model.PackageID
	Title            string
	Description      string
	ScheduledDate    time.Time
	Address          string
	MaxGuests        int
}

// CreateParty creates a new party in DRAFT owned by the given host
func (c *Controller) CreateParty(ctx context.Context, hostID model.UserID, input CreatePartyInput) (*model.Party, error) {
	if input.MaxGuests <= 0 {
		return nil, model.ErrInvalidMaxGuests
	}

	// The package must exist before a party can be scripted from it
	if _, err := c.mystery.GetPackage(ctx, input.MysteryPackageID); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	party := &model.Party{
		ID:               model.PartyID(uuid.NewString()),
		HostID:           hostID,
		MysteryPackageID: input.MysteryPackageID,
		Title:            input.Title,
		Description:      input.Description,
		ScheduledDate:    input.ScheduledDate,
		Address:          input.Address,
		Status:           model.PartyStatusDraft,
		MaxGuests:        input.MaxGuests,
		Guests:           []model.Guest{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := c.storage.SaveParty(ctx, party); err != nil {
		return nil, err
	}

	c.logger.Info("party created",
		slog.String("party_id", string(party.ID)),
		slog.String("host_id", string(hostID)),
		slog.String("package_id", string(input.MysteryPackageID)))
	return party, nil
}

// GetParty retrieves a party by ID
func (c *Controller) GetParty(ctx context.Context, id model.PartyID) (*model.Party, error) {
	return c.storage.GetParty(ctx, id)
}

// GetPackage retrieves a mystery package from the catalog
func (c *Controller) GetPackage(ctx context.Context, id model.PackageID) (*model.MysteryPackage, error) {
	return c.mystery.GetPackage(ctx, id)
}

// GetPartiesForHost lists the parties owned by a host
func (c *Controller) GetPartiesForHost(ctx context.Context, hostID model.UserID) ([]*model.Party, error) {
	return c.storage.GetPartiesForHost(ctx, hostID)
}

// Publish moves a party from DRAFT to PLANNED
func (c *Controller) Publish(ctx context.Context, id model.PartyID, requestingUser model.UserID) (*model.Party, error) {
	return c.storage.UpdateParty(ctx, id, func(p *model.Party) error {
		if p.HostID != requestingUser {
			return model.ErrNotHost
		}
		if !p.CanTransitionTo(model.PartyStatusPlanned) {
			return model.ErrInvalidStateTransition
		}
		p.Status = model.PartyStatusPlanned
		p.UpdatedAt = c.clock.Now()
		return nil
	})
}

// Start moves a party from PLANNED to IN_PROGRESS: the game state is
// initialised and the first phase of the package is applied.
func (c *Controller) Start(ctx context.Context, id model.PartyID, requestingUser model.UserID) (*model.Party, error) {
	current, err := c.storage.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}

	pkg, err := c.mystery.GetPackage(ctx, current.MysteryPackageID)
	if err != nil {
		return nil, err
	}

	updated, err := c.storage.UpdateParty(ctx, id, func(p *model.Party) error {
		if p.HostID != requestingUser {
			return model.ErrNotHost
		}
		if !p.CanTransitionTo(model.PartyStatusInProgress) {
			return model.ErrInvalidStateTransition
		}

		now := c.clock.Now()
		p.Status = model.PartyStatusInProgress
		p.CurrentPhaseIndex = 0
		p.GameState = &model.GameState{
			Evidence:         []model.Evidence{},
			Accusations:      []model.Accusation{},
			UnlockedSections: []model.GameSection{},
			PhaseStartTime:   now,
		}
		if pkg.Solution != nil {
			sol := *pkg.Solution
			p.GameState.Solution = &sol
		}
		p.ApplyPhase(pkg.Phases[0], 0, now)
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("party started",
		slog.String("party_id", string(id)),
		slog.Int("joined_guests", updated.JoinedCount()))
	return updated, nil
}

// Cancel moves a party to CANCELLED from any non-terminal status
func (c *Controller) Cancel(ctx context.Context, id model.PartyID, requestingUser model.UserID) (*model.Party, error) {
	return c.storage.UpdateParty(ctx, id, func(p *model.Party) error {
		if p.HostID != requestingUser {
			return model.ErrNotHost
		}
		if !p.CanTransitionTo(model.PartyStatusCancelled) {
			return model.ErrInvalidStateTransition
		}
		now := c.clock.Now()
		p.Status = model.PartyStatusCancelled
		if p.GameState != nil && p.GameState.PhaseEndTime == nil {
			p.GameState.PhaseEndTime = &now
		}
		p.UpdatedAt = now
		return nil
	})
}

// AddGuest adds a named guest slot to the roster and issues its invite
// code. Only the host may invite, and only before the party starts.
func (c *Controller) AddGuest(ctx context.Context, id model.PartyID, requestingUser model.UserID, name string) (*model.Guest, error) {
	code, err := c.generateInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	guestID := model.GuestID(uuid.NewString())
	if err := c.storage.SaveInviteRef(ctx, code, storage.InviteRef{
		PartyID: id,
		GuestID: guestID,
	}); err != nil {
		return nil, err
	}

	updated, err := c.storage.UpdateParty(ctx, id, func(p *model.Party) error {
		if p.HostID != requestingUser {
			return model.ErrNotHost
		}
		if !p.IsJoinable() {
			return model.ErrPartyNotJoinable
		}
		p.Guests = append(p.Guests, model.Guest{
			ID:         guestID,
			Name:       name,
			InviteCode: code,
			Status:     model.GuestStatusInvited,
		})
		p.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		// The code was indexed before the roster write; release it so a
		// failed invite does not reserve the slot forever.
		if delErr := c.storage.DeleteInviteRef(ctx, code); delErr != nil {
			c.logger.Warn("failed to release invite code",
				slog.String("party_id", string(id)),
				slog.Any("error", delErr))
		}
		return nil, err
	}

	guest := updated.GuestByID(guestID)
	c.logger.Info("guest invited",
		slog.String("party_id", string(id)),
		slog.String("guest_id", string(guestID)))
	return guest, nil
}

// AssignCharacter assigns a package character to a guest slot
func (c *Controller) AssignCharacter(ctx context.Context, id model.PartyID, requestingUser model.UserID, guestID model.GuestID, characterID string) (*model.Party, error) {
	current, err := c.storage.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}

	pkg, err := c.mystery.GetPackage(ctx, current.MysteryPackageID)
	if err != nil {
		return nil, err
	}
	if pkg.CharacterByID(characterID) == nil {
		return nil, model.ErrUnknownCharacter
	}

	return c.storage.UpdateParty(ctx, id, func(p *model.Party) error {
		if p.HostID != requestingUser {
			return model.ErrNotHost
		}
		guest := p.GuestByID(guestID)
		if guest == nil {
			return model.ErrGuestNotFound
		}
		guest.CharacterID = characterID
		p.UpdatedAt = c.clock.Now()
		return nil
	})
}

// RecordAccusation appends a guest's accusation to the game state. Only
// joined guests may accuse, only while the party is in progress, and
// only once the accusation section has unlocked.
func (c *Controller) RecordAccusation(ctx context.Context, id model.PartyID, requestingUser model.UserID, accusedCharacterID, reasoning string) (*model.Party, error) {
	current, err := c.storage.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}

	pkg, err := c.mystery.GetPackage(ctx, current.MysteryPackageID)
	if err != nil {
		return nil, err
	}
	if pkg.CharacterByID(accusedCharacterID) == nil {
		return nil, model.ErrUnknownCharacter
	}

	updated, err := c.storage.UpdateParty(ctx, id, func(p *model.Party) error {
		if p.Status != model.PartyStatusInProgress || p.GameState == nil {
			return model.ErrInvalidStateTransition
		}
		guest := p.GuestForUser(requestingUser)
		if guest == nil || guest.Status != model.GuestStatusJoined {
			return model.ErrNotPartyMember
		}
		if !p.GameState.HasUnlocked(model.SectionAccusation) {
			return model.ErrSectionLocked
		}
		p.GameState.Accusations = append(p.GameState.Accusations, model.Accusation{
			GuestID:            guest.ID,
			AccusedCharacterID: accusedCharacterID,
			Reasoning:          reasoning,
			MadeAt:             c.clock.Now(),
		})
		p.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("accusation recorded",
		slog.String("party_id", string(id)),
		slog.String("accused_character", accusedCharacterID))
	return updated, nil
}

// DeclineInvite marks the guest slot behind an invite code as DECLINED.
// Only a pending invitation can be declined; the code is spent either way.
func (c *Controller) DeclineInvite(ctx context.Context, rawCode string) error {
	code := model.NormalizeInviteCode(rawCode)
	ref, err := c.storage.ResolveInvite(ctx, code)
	if err != nil {
		return err
	}

	_, err = c.storage.UpdateParty(ctx, ref.PartyID, func(p *model.Party) error {
		guest := p.GuestByID(ref.GuestID)
		if guest == nil {
			return model.ErrInvalidInviteCode
		}
		if guest.Status != model.GuestStatusInvited {
			return model.ErrInvalidInviteCode
		}
		if p.IsTerminal() {
			return model.ErrPartyNotJoinable
		}
		guest.Status = model.GuestStatusDeclined
		p.UpdatedAt = c.clock.Now()
		return nil
	})
	if errors.Is(err, model.ErrPartyNotFound) {
		return model.ErrInvalidInviteCode
	}
	return err
}

func (c *Controller) generateInviteCode(ctx context.Context) (model.InviteCode, error) {
	for {
		code := model.InviteCode(c.random.String(InviteCodeLength, InviteCodeAlphabet))
		exists, err := c.storage.InviteCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}
