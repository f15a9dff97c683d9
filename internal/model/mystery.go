package model

import "time"

// PackageID uniquely identifies a mystery package
type PackageID string

// MysteryPackage is the read-mostly script for a party: an ordered list
// of phases plus the cast of characters guests can be assigned.
type MysteryPackage struct {
	ID          PackageID
	Title       string
	Description string
	Characters  []Character
	Phases      []GamePhase

	// Solution is the authored answer key. It is copied into the
	// party's game state when play starts.
	Solution *Solution
}

// Character is a role a guest can play
type Character struct {
	ID          string
	Name        string
	Description string
}

// GamePhase is one ordered stage of the scripted mystery. Its templates
// describe what to deliver to guests when the phase becomes current.
type GamePhase struct {
	Name             string
	Instructions     string
	HostInstructions string

	ObjectiveTemplates []ObjectiveTemplate
	InventoryTemplates []InventoryTemplate
	EvidenceTemplates  []EvidenceTemplate

	// SectionsToUnlock is unioned into the party's unlocked set
	SectionsToUnlock []GameSection
}

// ObjectiveTemplate describes an objective to append to target guests.
// An empty TargetGuestIDs list targets all currently-joined guests.
type ObjectiveTemplate struct {
	Description    string
	TargetGuestIDs []GuestID
}

// InventoryTemplate describes an inventory item to hand to target guests
type InventoryTemplate struct {
	Name           string
	Description    string
	TargetGuestIDs []GuestID
}

// EvidenceTemplate describes evidence revealed to the whole party
type EvidenceTemplate struct {
	Title       string
	Description string
}

// ApplyPhase makes the given phase current: appends templated objectives
// and inventory to the resolved target guests, reveals the phase's
// evidence, unions its unlocked sections, and restarts the phase clock.
// Callers must run this inside the party's transactional update scope.
func (p *Party) ApplyPhase(phase GamePhase, phaseIndex int, now time.Time) {
	for _, tmpl := range phase.ObjectiveTemplates {
		for _, id := range tmpl.Targets(p) {
			guest := p.GuestByID(id)
			guest.Objectives = append(guest.Objectives, Objective{
				Description: tmpl.Description,
				PhaseIndex:  phaseIndex,
			})
		}
	}

	for _, tmpl := range phase.InventoryTemplates {
		for _, id := range tmpl.Targets(p) {
			guest := p.GuestByID(id)
			guest.Inventory = append(guest.Inventory, InventoryItem{
				Name:        tmpl.Name,
				Description: tmpl.Description,
				PhaseIndex:  phaseIndex,
			})
		}
	}

	if p.GameState != nil {
		for _, tmpl := range phase.EvidenceTemplates {
			p.GameState.Evidence = append(p.GameState.Evidence, Evidence{
				Title:       tmpl.Title,
				Description: tmpl.Description,
				PhaseIndex:  phaseIndex,
			})
		}
		p.GameState.UnlockSections(phase.SectionsToUnlock...)
		p.GameState.PhaseStartTime = now
	}
}

// CharacterByID finds a character by ID, or nil if absent
func (m *MysteryPackage) CharacterByID(id string) *Character {
	for i := range m.Characters {
		if m.Characters[i].ID == id {
			return &m.Characters[i]
		}
	}
	return nil
}

// PhaseCount returns the number of phases in the package
func (m *MysteryPackage) PhaseCount() int {
	return len(m.Phases)
}

// Targets resolves an objective template's target list against the party:
// an empty list means every currently-joined guest.
func (t ObjectiveTemplate) Targets(p *Party) []GuestID {
	return resolveTargets(t.TargetGuestIDs, p)
}

// Targets resolves an inventory template's target list against the party
func (t InventoryTemplate) Targets(p *Party) []GuestID {
	return resolveTargets(t.TargetGuestIDs, p)
}

func resolveTargets(targets []GuestID, p *Party) []GuestID {
	if len(targets) == 0 {
		return p.JoinedGuestIDs()
	}
	// Listed guests must still be joined to receive anything
	var resolved []GuestID
	for _, id := range targets {
		if g := p.GuestByID(id); g != nil && g.Status == GuestStatusJoined {
			resolved = append(resolved, id)
		}
	}
	return resolved
}
