package response

import (
	"time"

	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/services/auth"
)

// User represents a user in API responses
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:          string(u.ID),
		DisplayName: u.DisplayName,
		IsGuest:     u.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(&s.User),
		SessionToken: s.Token,
	}
}

// Objective represents a guest objective
type Objective struct {
	Description string `json:"description"`
	PhaseIndex  int    `json:"phase_index"`
	Completed   bool   `json:"completed"`
}

// InventoryItem represents an item held by a guest
type InventoryItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PhaseIndex  int    `json:"phase_index"`
}

// Guest represents a roster entry. InviteCode is only populated in
// views rendered for the party host.
type Guest struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id,omitempty"`
	Name        string          `json:"name"`
	InviteCode  string          `json:"invite_code,omitempty"`
	CharacterID string          `json:"character_id,omitempty"`
	Status      string          `json:"status"`
	JoinedAt    *time.Time      `json:"joined_at,omitempty"`
	Objectives  []Objective     `json:"objectives,omitempty"`
	Inventory   []InventoryItem `json:"inventory,omitempty"`
}

// GuestFromModel converts a model.Guest for the given audience
func GuestFromModel(g model.Guest, forHost bool) Guest {
	guest := Guest{
		ID:          string(g.ID),
		UserID:      string(g.UserID),
		Name:        g.Name,
		CharacterID: g.CharacterID,
		Status:      string(g.Status),
		JoinedAt:    g.JoinedAt,
	}
	if forHost {
		guest.InviteCode = string(g.InviteCode)
	}
	for _, o := range g.Objectives {
		guest.Objectives = append(guest.Objectives, Objective{
			Description: o.Description,
			PhaseIndex:  o.PhaseIndex,
			Completed:   o.Completed,
		})
	}
	for _, item := range g.Inventory {
		guest.Inventory = append(guest.Inventory, InventoryItem{
			Name:        item.Name,
			Description: item.Description,
			PhaseIndex:  item.PhaseIndex,
		})
	}
	return guest
}

// Evidence represents a revealed clue
type Evidence struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PhaseIndex  int    `json:"phase_index"`
}

// Accusation is a guest's recorded accusation against a character
type Accusation struct {
	GuestID            string    `json:"guest_id"`
	AccusedCharacterID string    `json:"accused_character_id"`
	Reasoning          string    `json:"reasoning,omitempty"`
	MadeAt             time.Time `json:"made_at"`
}

// Solution is the answer key, rendered for the host only
type Solution struct {
	CulpritCharacterID string `json:"culprit_character_id"`
	Explanation        string `json:"explanation,omitempty"`
}

// GameState represents in-progress play data
type GameState struct {
	Evidence         []Evidence   `json:"evidence"`
	Accusations      []Accusation `json:"accusations"`
	UnlockedSections []string     `json:"unlocked_sections"`
	PhaseStartTime   time.Time    `json:"phase_start_time"`
	PhaseEndTime     *time.Time   `json:"phase_end_time,omitempty"`
	Solution         *Solution    `json:"solution,omitempty"`
}

// GameStateFromModel converts a model.GameState for the given audience.
// Evidence and accusations are withheld until their sections unlock,
// and the solution is never shown to anyone but the host.
func GameStateFromModel(gs *model.GameState, forHost bool) *GameState {
	if gs == nil {
		return nil
	}

	out := &GameState{
		Evidence:         []Evidence{},
		Accusations:      []Accusation{},
		UnlockedSections: make([]string, len(gs.UnlockedSections)),
		PhaseStartTime:   gs.PhaseStartTime,
		PhaseEndTime:     gs.PhaseEndTime,
	}
	for i, s := range gs.UnlockedSections {
		out.UnlockedSections[i] = string(s)
	}

	if forHost || gs.HasUnlocked(model.SectionEvidence) {
		for _, e := range gs.Evidence {
			out.Evidence = append(out.Evidence, Evidence{
				Title:       e.Title,
				Description: e.Description,
				PhaseIndex:  e.PhaseIndex,
			})
		}
	}

	if forHost || gs.HasUnlocked(model.SectionAccusation) {
		for _, a := range gs.Accusations {
			out.Accusations = append(out.Accusations, Accusation{
				GuestID:            string(a.GuestID),
				AccusedCharacterID: a.AccusedCharacterID,
				Reasoning:          a.Reasoning,
				MadeAt:             a.MadeAt,
			})
		}
	}

	if forHost && gs.Solution != nil {
		out.Solution = &Solution{
			CulpritCharacterID: gs.Solution.CulpritCharacterID,
			Explanation:        gs.Solution.Explanation,
		}
	}

	return out
}

// Party represents a party in API responses
type Party struct {
	ID                string     `json:"id"`
	HostID            string     `json:"host_id"`
	MysteryPackageID  string     `json:"mystery_package_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	ScheduledDate     time.Time  `json:"scheduled_date"`
	Address           string     `json:"address,omitempty"`
	Status            string     `json:"status"`
	MaxGuests         int        `json:"max_guests"`
	JoinedCount       int        `json:"joined_count"`
	Guests            []Guest    `json:"guests"`
	CurrentPhaseIndex int        `json:"current_phase_index"`
	GameState         *GameState `json:"game_state,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// PartyFromModel converts a model.Party for the given audience
func PartyFromModel(p *model.Party, forHost bool) Party {
	guests := make([]Guest, len(p.Guests))
	for i, g := range p.Guests {
		guests[i] = GuestFromModel(g, forHost)
	}

	return Party{
		ID:                string(p.ID),
		HostID:            string(p.HostID),
		MysteryPackageID:  string(p.MysteryPackageID),
		Title:             p.Title,
		Description:       p.Description,
		ScheduledDate:     p.ScheduledDate,
		Address:           p.Address,
		Status:            string(p.Status),
		MaxGuests:         p.MaxGuests,
		JoinedCount:       p.JoinedCount(),
		Guests:            guests,
		CurrentPhaseIndex: p.CurrentPhaseIndex,
		GameState:         GameStateFromModel(p.GameState, forHost),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// Character represents a package character
type Character struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PackageSummary is the list view of a mystery package
type PackageSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PhaseCount  int    `json:"phase_count"`
	Characters  int    `json:"characters"`
}

// PackageSummaryFromModel converts a model.MysteryPackage to its list view
func PackageSummaryFromModel(pkg *model.MysteryPackage) PackageSummary {
	return PackageSummary{
		ID:          string(pkg.ID),
		Title:       pkg.Title,
		Description: pkg.Description,
		PhaseCount:  pkg.PhaseCount(),
		Characters:  len(pkg.Characters),
	}
}

// Phase is the public view of a package phase. Host instructions and
// the scripted templates stay server-side.
type Phase struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions,omitempty"`
}

// Package is the detail view of a mystery package
type Package struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Characters  []Character `json:"characters"`
	Phases      []Phase     `json:"phases"`
}

// PackageFromModel converts a model.MysteryPackage to its detail view
func PackageFromModel(pkg *model.MysteryPackage) Package {
	characters := make([]Character, len(pkg.Characters))
	for i, c := range pkg.Characters {
		characters[i] = Character{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		}
	}
	phases := make([]Phase, len(pkg.Phases))
	for i, ph := range pkg.Phases {
		phases[i] = Phase{
			Name:         ph.Name,
			Instructions: ph.Instructions,
		}
	}
	return Package{
		ID:          string(pkg.ID),
		Title:       pkg.Title,
		Description: pkg.Description,
		Characters:  characters,
		Phases:      phases,
	}
}
