package phase

import (
	"context"
	"log/slog"

	"github.com/parlorgames/mysteryparty/internal/dependencies/clock"
	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/services/mystery"
	"github.com/parlorgames/mysteryparty/internal/storage"
)

// Advancer moves an in-progress party through the phases of its
// mystery package, one step at a time and never backwards. Advancing
// past the final phase completes the party.
type Advancer struct {
	storage storage.Storage
	mystery *mystery.Service
	clock   clock.Clock
	logger  *slog.Logger
}

// NewAdvancer creates a new phase Advancer
func NewAdvancer(store storage.Storage, mysteryService *mystery.Service, clock clock.Clock, logger *slog.Logger) *Advancer {
	return &Advancer{
		storage: store,
		mystery: mysteryService,
		clock:   clock,
		logger:  logger,
	}
}

// AdvancePhase steps the party to its next phase, applying that
// phase's objective, inventory and evidence templates and unlocking
// its sections. If the current phase is the last one, the party
// transitions to COMPLETED instead and the phase index is unchanged.
func (a *Advancer) AdvancePhase(ctx context.Context, id model.PartyID, requestingUser model.UserID) (*model.Party, error) {
	current, err := a.storage.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}

	// Package contents are immutable once loaded, so reading them
	// outside the party update cannot go stale.
	pkg, err := a.mystery.GetPackage(ctx, current.MysteryPackageID)
	if err != nil {
		return nil, err
	}

	updated, err := a.storage.UpdateParty(ctx, id, func(p *model.Party) error {
		if p.HostID != requestingUser {
			return model.ErrNotHost
		}
		if p.Status != model.PartyStatusInProgress {
			return model.ErrInvalidStateTransition
		}

		now := a.clock.Now()
		next := p.CurrentPhaseIndex + 1
		switch {
		case next < pkg.PhaseCount():
			p.CurrentPhaseIndex = next
			p.ApplyPhase(pkg.Phases[next], next, now)
		case next == pkg.PhaseCount():
			p.Status = model.PartyStatusCompleted
			if p.GameState != nil {
				p.GameState.PhaseEndTime = &now
			}
		default:
			return model.ErrInvalidStateTransition
		}
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("party phase advanced",
		slog.String("party_id", string(id)),
		slog.Int("phase_index", updated.CurrentPhaseIndex),
		slog.String("status", string(updated.Status)))
	return updated, nil
}
