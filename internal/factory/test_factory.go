package factory

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/parlorgames/mysteryparty/internal/dependencies/mocks"
	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/services/auth"
	"github.com/parlorgames/mysteryparty/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestPackages loads a small mystery package catalog for testing
func (t *TestApp) LoadTestPackages(ctx context.Context) error {
	return t.MysteryService.LoadPackages(ctx, []model.MysteryPackage{
		{
			ID:          "manor",
			Title:       "Murder at Blackwood Manor",
			Description: "A storm, a locked study, and a dead industrialist.",
			Characters: []model.Character{
				{ID: "butler", Name: "Edmund the Butler", Description: "Loyal for thirty years, or so he says."},
				{ID: "heiress", Name: "Vivian Blackwood", Description: "Stands to inherit everything."},
				{ID: "doctor", Name: "Dr. Hale", Description: "The family physician with a gambling debt."},
			},
			Solution: &model.Solution{
				CulpritCharacterID: "doctor",
				Explanation:        "Dr. Hale needed the inheritance gone before his debts were called in.",
			},
			Phases: []model.GamePhase{
				{
					Name:         "Arrival",
					Instructions: "Introduce yourselves and settle in.",
					ObjectiveTemplates: []model.ObjectiveTemplate{
						{Description: "Learn every guest's connection to the victim"},
					},
					InventoryTemplates: []model.InventoryTemplate{
						{Name: "Invitation letter", Description: "Your personal summons to the manor"},
					},
					SectionsToUnlock: []model.GameSection{model.SectionObjectives, model.SectionInventory},
				},
				{
					Name:         "Investigation",
					Instructions: "The body has been found. Search for clues.",
					EvidenceTemplates: []model.EvidenceTemplate{
						{Title: "Broken pocket watch", Description: "Stopped at 11:47"},
					},
					SectionsToUnlock: []model.GameSection{model.SectionEvidence},
				},
				{
					Name:             "Accusations",
					Instructions:     "Make your case.",
					SectionsToUnlock: []model.GameSection{model.SectionAccusation, model.SectionSolution},
				},
			},
		},
	})
}
