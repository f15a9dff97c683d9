package model

import "time"

// GameSection identifies a progressively unlockable section of game state
type GameSection string

const (
	SectionObjectives GameSection = "objectives"
	SectionInventory  GameSection = "inventory"
	SectionEvidence   GameSection = "evidence"
	SectionAccusation GameSection = "accusation"
	SectionSolution   GameSection = "solution"
)

// Evidence is a clue revealed to the whole party
type Evidence struct {
	Title       string
	Description string
	PhaseIndex  int
}

// Accusation records a guest's accusation against a character
type Accusation struct {
	GuestID            GuestID
	AccusedCharacterID string
	Reasoning          string
	MadeAt             time.Time
}

// Solution is the host-authored answer key. It is never exposed to
// non-host guests through public contracts.
type Solution struct {
	CulpritCharacterID string
	Explanation        string
}

// GameState holds the mutable in-progress play data for a party.
// Evidence and accusations are append-only; unlocked sections never shrink.
type GameState struct {
	Evidence    []Evidence
	Accusations []Accusation

	PhaseStartTime time.Time
	PhaseEndTime   *time.Time

	UnlockedSections []GameSection

	Solution *Solution
}

// HasUnlocked reports whether the section has been unlocked
func (gs *GameState) HasUnlocked(section GameSection) bool {
	for _, s := range gs.UnlockedSections {
		if s == section {
			return true
		}
	}
	return false
}

// UnlockSections adds the given sections to the unlocked set.
// Already-unlocked sections are ignored, so the set only grows.
func (gs *GameState) UnlockSections(sections ...GameSection) {
	for _, s := range sections {
		if !gs.HasUnlocked(s) {
			gs.UnlockedSections = append(gs.UnlockedSections, s)
		}
	}
}
