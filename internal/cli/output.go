package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Party:
		o.printParty(v)
	case []Party:
		o.printPartyList(v)
	case Guest:
		o.printGuest(v)
	case []PackageSummary:
		o.printPackageList(v)
	case Package:
		o.printPackage(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// Guest response type
type Guest struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id,omitempty"`
	Name        string `json:"name"`
	InviteCode  string `json:"invite_code,omitempty"`
	CharacterID string `json:"character_id,omitempty"`
	Status      string `json:"status"`
}

// Evidence response type
type Evidence struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PhaseIndex  int    `json:"phase_index"`
}

// Accusation response type
type Accusation struct {
	GuestID            string    `json:"guest_id"`
	AccusedCharacterID string    `json:"accused_character_id"`
	Reasoning          string    `json:"reasoning,omitempty"`
	MadeAt             time.Time `json:"made_at"`
}

// GameState response type
type GameState struct {
	Evidence         []Evidence   `json:"evidence"`
	Accusations      []Accusation `json:"accusations"`
	UnlockedSections []string     `json:"unlocked_sections"`
	PhaseStartTime   time.Time    `json:"phase_start_time"`
	PhaseEndTime     *time.Time   `json:"phase_end_time,omitempty"`
}

// Party response type
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
}

// Character response type
type Character struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Phase response type
type Phase struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions,omitempty"`
}

// PackageSummary response type
type PackageSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	PhaseCount  int    `json:"phase_count"`
	Characters  int    `json:"characters"`
}

// Package response type
type Package struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Characters  []Character `json:"characters"`
	Phases      []Phase     `json:"phases"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	guestStr := "no"
	if u.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("User: %s (%s)\n", u.DisplayName, u.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printGuest(g Guest) {
	fmt.Printf("Guest: %s (%s)\n", g.Name, g.ID)
	fmt.Printf("Status: %s\n", g.Status)
	if g.InviteCode != "" {
		fmt.Printf("Invite Code: %s\n", g.InviteCode)
	}
	if g.CharacterID != "" {
		fmt.Printf("Character: %s\n", g.CharacterID)
	}
}

func (o *Output) printParty(p Party) {
	fmt.Printf("Party: %s (%s)\n", p.Title, p.ID)
	fmt.Printf("Package: %s\n", p.MysteryPackageID)
	fmt.Printf("Status: %s\n", p.Status)
	if !p.ScheduledDate.IsZero() {
		fmt.Printf("Scheduled: %s\n", p.ScheduledDate.Format("2006-01-02 15:04"))
	}
	if p.Address != "" {
		fmt.Printf("Address: %s\n", p.Address)
	}
	fmt.Printf("Capacity: %d/%d joined\n", p.JoinedCount, p.MaxGuests)

	if p.Status == "in_progress" || p.Status == "completed" {
		fmt.Printf("Phase: %d\n", p.CurrentPhaseIndex)
	}

	if len(p.Guests) > 0 {
		fmt.Printf("Guests (%d):\n", len(p.Guests))
		for _, g := range p.Guests {
			line := fmt.Sprintf("  - %s [%s]", g.Name, g.Status)
			if g.CharacterID != "" {
				line += fmt.Sprintf(" as %s", g.CharacterID)
			}
			if g.InviteCode != "" {
				line += fmt.Sprintf(" (code: %s)", g.InviteCode)
			}
			fmt.Println(line)
		}
	}

	if p.GameState != nil {
		if len(p.GameState.UnlockedSections) > 0 {
			fmt.Printf("Unlocked: %v\n", p.GameState.UnlockedSections)
		}
		if len(p.GameState.Evidence) > 0 {
			fmt.Println("Evidence:")
			for _, e := range p.GameState.Evidence {
				fmt.Printf("  - %s\n", e.Title)
			}
		}
		if len(p.GameState.Accusations) > 0 {
			fmt.Println("Accusations:")
			for _, a := range p.GameState.Accusations {
				fmt.Printf("  - %s accused by guest %s\n", a.AccusedCharacterID, a.GuestID)
			}
		}
	}
}

func (o *Output) printPartyList(parties []Party) {
	if len(parties) == 0 {
		fmt.Println("No parties")
		return
	}
	for _, p := range parties {
		fmt.Printf("%s  %s [%s] %d/%d joined\n", p.ID, p.Title, p.Status, p.JoinedCount, p.MaxGuests)
	}
}

func (o *Output) printPackageList(pkgs []PackageSummary) {
	if len(pkgs) == 0 {
		fmt.Println("No packages")
		return
	}
	for _, p := range pkgs {
		fmt.Printf("%s  %s (%d phases, %d characters)\n", p.ID, p.Title, p.PhaseCount, p.Characters)
	}
}

func (o *Output) printPackage(p Package) {
	fmt.Printf("Package: %s (%s)\n", p.Title, p.ID)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	fmt.Printf("Characters (%d):\n", len(p.Characters))
	for _, c := range p.Characters {
		fmt.Printf("  - %s (%s)\n", c.Name, c.ID)
	}
	fmt.Printf("Phases (%d):\n", len(p.Phases))
	for i, ph := range p.Phases {
		fmt.Printf("  %d. %s\n", i+1, ph.Name)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
