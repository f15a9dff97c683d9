package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users           map[model.UserID]*model.User
	registeredUsers map[model.UserID]*model.RegisteredUser
	usernameIndex   map[string]model.UserID
	parties         map[model.PartyID]*model.Party
	inviteIndex     map[model.InviteCode]storage.InviteRef
	packages        map[model.PackageID]*model.MysteryPackage

	// partyLocks serializes UpdateParty per party
	partyLocksMu sync.Mutex
	partyLocks   map[model.PartyID]*sync.Mutex
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:           make(map[model.UserID]*model.User),
		registeredUsers: make(map[model.UserID]*model.RegisteredUser),
		usernameIndex:   make(map[string]model.UserID),
		parties:         make(map[model.PartyID]*model.Party),
		inviteIndex:     make(map[model.InviteCode]storage.InviteRef),
		packages:        make(map[model.PackageID]*model.MysteryPackage),
		partyLocks:      make(map[model.PartyID]*sync.Mutex),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

// Registered user operations

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *ru
	s.registeredUsers[ru.UserID] = &r
	s.usernameIndex[ru.Username] = ru.UserID
	return nil
}

func (s *Storage) GetRegisteredUser(ctx context.Context, userID model.UserID) (*model.RegisteredUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ru, ok := s.registeredUsers[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	r := *ru
	return &r, nil
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	ru, ok := s.registeredUsers[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	r := *ru
	return &r, nil
}

// Party operations

func (s *Storage) SaveParty(ctx context.Context, party *model.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties[party.ID] = party.Clone()
	return nil
}

func (s *Storage) GetParty(ctx context.Context, id model.PartyID) (*model.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	party, ok := s.parties[id]
	if !ok {
		return nil, model.ErrPartyNotFound
	}
	return party.Clone(), nil
}

func (s *Storage) DeleteParty(ctx context.Context, id model.PartyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	party, ok := s.parties[id]
	if !ok {
		return nil
	}
	// Guests cascade with the party, and their codes with them
	for i := range party.Guests {
		delete(s.inviteIndex, party.Guests[i].InviteCode)
	}
	delete(s.parties, id)
	return nil
}

func (s *Storage) GetPartiesForHost(ctx context.Context, hostID model.UserID) ([]*model.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var parties []*model.Party
	for _, p := range s.parties {
		if p.HostID == hostID {
			parties = append(parties, p.Clone())
		}
	}
	sort.Slice(parties, func(i, j int) bool {
		return parties[i].CreatedAt.Before(parties[j].CreatedAt)
	})
	return parties, nil
}

func (s *Storage) UpdateParty(ctx context.Context, id model.PartyID, fn func(*model.Party) error) (*model.Party, error) {
	lock := s.lockForParty(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	stored, ok := s.parties[id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrPartyNotFound
	}

	// Work on a copy so a failed fn leaves the stored party untouched
	party := stored.Clone()
	if err := fn(party); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.parties[id] = party
	s.mu.Unlock()

	return party.Clone(), nil
}

// lockForParty returns the mutex serializing updates to one party
func (s *Storage) lockForParty(id model.PartyID) *sync.Mutex {
	s.partyLocksMu.Lock()
	defer s.partyLocksMu.Unlock()
	lock, ok := s.partyLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.partyLocks[id] = lock
	}
	return lock
}

// Invite code index operations

func (s *Storage) SaveInviteRef(ctx context.Context, code model.InviteCode, ref storage.InviteRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inviteIndex[code] = ref
	return nil
}

func (s *Storage) ResolveInvite(ctx context.Context, code model.InviteCode) (storage.InviteRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.inviteIndex[code]
	if !ok {
		return storage.InviteRef{}, model.ErrInvalidInviteCode
	}
	return ref, nil
}

func (s *Storage) InviteCodeExists(ctx context.Context, code model.InviteCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.inviteIndex[code]
	return ok, nil
}

func (s *Storage) DeleteInviteRef(ctx context.Context, code model.InviteCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inviteIndex, code)
	return nil
}

// Mystery package operations

func (s *Storage) SaveMysteryPackage(ctx context.Context, pkg *model.MysteryPackage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *pkg
	s.packages[pkg.ID] = &p
	return nil
}

func (s *Storage) GetMysteryPackage(ctx context.Context, id model.PackageID) (*model.MysteryPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pkg, ok := s.packages[id]
	if !ok {
		return nil, model.ErrPackageNotFound
	}
	p := *pkg
	return &p, nil
}

func (s *Storage) ListMysteryPackages(ctx context.Context) ([]*model.MysteryPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pkgs []*model.MysteryPackage
	for _, pkg := range s.packages {
		p := *pkg
		pkgs = append(pkgs, &p)
	}
	sort.Slice(pkgs, func(i, j int) bool {
		return pkgs[i].ID < pkgs[j].ID
	})
	return pkgs, nil
}
