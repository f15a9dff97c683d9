package admission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/parlorgames/mysteryparty/internal/dependencies/mocks"
	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/services/mystery"
	"github.com/parlorgames/mysteryparty/internal/services/party"
	"github.com/parlorgames/mysteryparty/internal/storage/memory"
	"github.com/parlorgames/mysteryparty/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	parties    *party.Controller
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context

	hostID model.UserID
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	logger := testutil.NopLogger()
	mysteryService := mystery.New(s.storage, logger)
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.parties = party.NewController(s.storage, mysteryService, s.clock, s.random, logger)
	s.controller = NewController(s.storage, s.clock, logger)
	s.ctx = context.Background()
	s.hostID = model.UserID("u_host")

	s.Require().NoError(mysteryService.LoadPackages(s.ctx, []model.MysteryPackage{{
		ID:         "manor",
		Title:      "Murder at the Manor",
		Characters: []model.Character{{ID: "butler", Name: "The Butler"}},
		Phases:     []model.GamePhase{{Name: "Arrival"}, {Name: "Dinner"}},
	}}))
}

// createParty creates a PLANNED party with the given capacity
func (s *ControllerSuite) createParty(maxGuests int) *model.Party {
	p, err := s.parties.CreateParty(s.ctx, s.hostID, party.CreatePartyInput{
		MysteryPackageID: "manor",
		Title:            "Saturday Mystery Night",
		ScheduledDate:    time.Date(2024, 6, 15, 19, 0, 0, 0, time.UTC),
		MaxGuests:        maxGuests,
	})
	s.Require().NoError(err)
	_, err = s.parties.Publish(s.ctx, p.ID, s.hostID)
	s.Require().NoError(err)
	return p
}

func (s *ControllerSuite) invite(partyID model.PartyID, name, code string) *model.Guest {
	s.random.QueueString(code)
	guest, err := s.parties.AddGuest(s.ctx, partyID, s.hostID, name)
	s.Require().NoError(err)
	return guest
}

func (s *ControllerSuite) TestJoinPartySucceeds() {
	p := s.createParty(4)
	guest := s.invite(p.ID, "Alice", "ABCD23")

	joined, err := s.controller.JoinParty(s.ctx, "u_alice", "ABCD23")
	s.Require().NoError(err)

	g := joined.GuestByID(guest.ID)
	s.Equal(model.GuestStatusJoined, g.Status)
	s.Equal(model.UserID("u_alice"), g.UserID)
	s.Require().NotNil(g.JoinedAt)
	s.Equal(s.clock.Now(), *g.JoinedAt)
	s.Equal(1, joined.JoinedCount())
}

func (s *ControllerSuite) TestJoinPartyNormalizesCode() {
	p := s.createParty(4)
	s.invite(p.ID, "Alice", "ABCD23")

	joined, err := s.controller.JoinParty(s.ctx, "u_alice", "  abcd23 ")
	s.Require().NoError(err)
	s.Equal(1, joined.JoinedCount())
}

func (s *ControllerSuite) TestJoinPartyAllowedWhileDraft() {
	p, err := s.parties.CreateParty(s.ctx, s.hostID, party.CreatePartyInput{
		MysteryPackageID: "manor",
		Title:            "Draft Night",
		MaxGuests:        4,
	})
	s.Require().NoError(err)
	s.invite(p.ID, "Alice", "ABCD23")

	joined, err := s.controller.JoinParty(s.ctx, "u_alice", "ABCD23")
	s.Require().NoError(err)
	s.Equal(1, joined.JoinedCount())
}

func (s *ControllerSuite) TestJoinPartyRejectsUnknownCode() {
	s.createParty(4)

	_, err := s.controller.JoinParty(s.ctx, "u_alice", "ZZZZZZ")
	s.ErrorIs(err, model.ErrInvalidInviteCode)
}

func (s *ControllerSuite) TestJoinPartyRejectsEmptyCode() {
	_, err := s.controller.JoinParty(s.ctx, "u_alice", "   ")
	s.ErrorIs(err, model.ErrInvalidInviteCode)
}

func (s *ControllerSuite) TestJoinPartyRejectsStartedParty() {
	p := s.createParty(4)
	s.invite(p.ID, "Alice", "ABCD23")
	_, err := s.parties.Start(s.ctx, p.ID, s.hostID)
	s.Require().NoError(err)

	_, err = s.controller.JoinParty(s.ctx, "u_alice", "ABCD23")
	s.ErrorIs(err, model.ErrPartyNotJoinable)
}

func (s *ControllerSuite) TestJoinPartyRejectsCancelledParty() {
	p := s.createParty(4)
	s.invite(p.ID, "Alice", "ABCD23")
	_, err := s.parties.Cancel(s.ctx, p.ID, s.hostID)
	s.Require().NoError(err)

	_, err = s.controller.JoinParty(s.ctx, "u_alice", "ABCD23")
	s.ErrorIs(err, model.ErrPartyNotJoinable)
}

func (s *ControllerSuite) TestJoinPartyRejectsSecondJoinBySameUser() {
	p := s.createParty(4)
	s.invite(p.ID, "Alice", "ABCD23")
	s.invite(p.ID, "Alice again", "EFGH45")

	_, err := s.controller.JoinParty(s.ctx, "u_alice", "ABCD23")
	s.Require().NoError(err)

	_, err = s.controller.JoinParty(s.ctx, "u_alice", "EFGH45")
	s.ErrorIs(err, model.ErrAlreadyJoined)
}

func (s *ControllerSuite) TestJoinPartyRejectsReplayOfConsumedCode() {
	p := s.createParty(4)
	s.invite(p.ID, "Alice", "ABCD23")

	_, err := s.controller.JoinParty(s.ctx, "u_alice", "ABCD23")
	s.Require().NoError(err)

	// A different user replaying the consumed code must not learn
	// anything beyond the code being unusable
	_, err = s.controller.JoinParty(s.ctx, "u_bob", "ABCD23")
	s.ErrorIs(err, model.ErrInvalidInviteCode)
}

func (s *ControllerSuite) TestJoinPartyRejectsDeclinedCode() {
	p := s.createParty(4)
	s.invite(p.ID, "Alice", "ABCD23")
	s.Require().NoError(s.parties.DeclineInvite(s.ctx, "ABCD23"))

	_, err := s.controller.JoinParty(s.ctx, "u_alice", "ABCD23")
	s.ErrorIs(err, model.ErrInvalidInviteCode)
}

func (s *ControllerSuite) TestJoinPartyRejectsWhenFull() {
	p := s.createParty(1)
	s.invite(p.ID, "Alice", "ABCD23")
	s.invite(p.ID, "Bob", "EFGH45")

	_, err := s.controller.JoinParty(s.ctx, "u_alice", "ABCD23")
	s.Require().NoError(err)

	_, err = s.controller.JoinParty(s.ctx, "u_bob", "EFGH45")
	s.ErrorIs(err, model.ErrPartyFull)
}

func (s *ControllerSuite) TestJoinPartyFullDoesNotConsumeCode() {
	p := s.createParty(1)
	s.invite(p.ID, "Alice", "ABCD23")
	guest := s.invite(p.ID, "Bob", "EFGH45")

	_, err := s.controller.JoinParty(s.ctx, "u_alice", "ABCD23")
	s.Require().NoError(err)
	_, err = s.controller.JoinParty(s.ctx, "u_bob", "EFGH45")
	s.Require().ErrorIs(err, model.ErrPartyFull)

	retrieved, err := s.storage.GetParty(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(model.GuestStatusInvited, retrieved.GuestByID(guest.ID).Status)
}

// TestConcurrentJoinsNeverOverbook races many joins against a small
// party and asserts exactly MaxGuests admissions with the rest turned
// away as full.
func (s *ControllerSuite) TestConcurrentJoinsNeverOverbook() {
	const capacity = 3
	const contenders = 20

	p := s.createParty(capacity)

	codes := make([]string, contenders)
	for i := range codes {
		codes[i] = fmt.Sprintf("GUEST%d", i)
		s.invite(p.ID, fmt.Sprintf("Guest %d", i), codes[i])
	}

	results := make([]error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := model.UserID(fmt.Sprintf("u_%d", i))
			_, results[i] = s.controller.JoinParty(s.ctx, userID, codes[i])
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range results {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, model.ErrPartyFull):
		default:
			s.FailNowf("unexpected join error", "%v", err)
		}
	}
	s.Equal(capacity, admitted)

	retrieved, err := s.storage.GetParty(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(capacity, retrieved.JoinedCount())
}
