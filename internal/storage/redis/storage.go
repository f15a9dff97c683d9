package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Apply TTL only for throwaway guest accounts
	var ttl time.Duration
	if user.IsGuest {
		ttl = s.cfg.GuestUserTTL
	}

	return s.client.Set(ctx, userKey(user.ID), data, ttl).Err()
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	return s.client.Del(ctx, userKey(id)).Err()
}

// Registered user operations

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	data, err := json.Marshal(ru)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredUserKey(ru.UserID), data, 0)
	pipe.Set(ctx, usernameIndexKey(ru.Username), string(ru.UserID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredUser(ctx context.Context, userID model.UserID) (*model.RegisteredUser, error) {
	data, err := s.client.Get(ctx, registeredUserKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var ru model.RegisteredUser
	if err := json.Unmarshal(data, &ru); err != nil {
		return nil, err
	}
	return &ru, nil
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	userIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetRegisteredUser(ctx, model.UserID(userIDStr))
}

// Party operations

func (s *Storage) SaveParty(ctx context.Context, party *model.Party) error {
	data, err := json.Marshal(party)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + host index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, partyKey(party.ID), data, 0)
	pipe.SAdd(ctx, hostPartiesIndexKey(party.HostID), string(party.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetParty(ctx context.Context, id model.PartyID) (*model.Party, error) {
	data, err := s.client.Get(ctx, partyKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPartyNotFound
		}
		return nil, err
	}

	var party model.Party
	if err := json.Unmarshal(data, &party); err != nil {
		return nil, err
	}
	return &party, nil
}

func (s *Storage) DeleteParty(ctx context.Context, id model.PartyID) error {
	party, err := s.GetParty(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPartyNotFound) {
			return nil
		}
		return err
	}

	// Guests cascade with the party, and their invite codes with them
	pipe := s.client.Pipeline()
	for i := range party.Guests {
		pipe.Del(ctx, inviteKey(party.Guests[i].InviteCode))
	}
	pipe.Del(ctx, partyKey(id))
	pipe.SRem(ctx, hostPartiesIndexKey(party.HostID), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPartiesForHost(ctx context.Context, hostID model.UserID) ([]*model.Party, error) {
	ids, err := s.client.SMembers(ctx, hostPartiesIndexKey(hostID)).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Party{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = partyKey(model.PartyID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	parties := make([]*model.Party, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Party deleted but index not yet cleaned
		}
		var party model.Party
		if err := json.Unmarshal([]byte(val.(string)), &party); err != nil {
			continue // Skip invalid data
		}
		parties = append(parties, &party)
	}

	sort.Slice(parties, func(i, j int) bool {
		return parties[i].CreatedAt.Before(parties[j].CreatedAt)
	})
	return parties, nil
}

// UpdateParty applies fn inside an optimistic WATCH/MULTI transaction on
// the party key. If a concurrent writer changes the key between the read
// and the EXEC, the transaction fails and is retried; after
// cfg.MaxTxRetries failures it gives up with model.ErrStoreContended, so
// no partial update is ever observable.
func (s *Storage) UpdateParty(ctx context.Context, id model.PartyID, fn func(*model.Party) error) (*model.Party, error) {
	key := partyKey(id)

	var updated *model.Party
	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPartyNotFound
			}
			return err
		}

		var party model.Party
		if err := json.Unmarshal(data, &party); err != nil {
			return err
		}

		if err := fn(&party); err != nil {
			return err
		}

		out, err := json.Marshal(&party)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &party
		return nil
	}

	retries := s.cfg.MaxTxRetries
	if retries <= 0 {
		retries = DefaultConfig().MaxTxRetries
	}

	for attempt := 0; attempt < retries; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue // Lost the race, re-read and retry
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	return nil, model.ErrStoreContended
}

// Invite code index operations

func (s *Storage) SaveInviteRef(ctx context.Context, code model.InviteCode, ref storage.InviteRef) error {
	data, err := json.Marshal(ref)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, inviteKey(code), data, 0).Err()
}

func (s *Storage) ResolveInvite(ctx context.Context, code model.InviteCode) (storage.InviteRef, error) {
	data, err := s.client.Get(ctx, inviteKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return storage.InviteRef{}, model.ErrInvalidInviteCode
		}
		return storage.InviteRef{}, err
	}

	var ref storage.InviteRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return storage.InviteRef{}, err
	}
	return ref, nil
}

func (s *Storage) InviteCodeExists(ctx context.Context, code model.InviteCode) (bool, error) {
	exists, err := s.client.Exists(ctx, inviteKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) DeleteInviteRef(ctx context.Context, code model.InviteCode) error {
	return s.client.Del(ctx, inviteKey(code)).Err()
}

// Mystery package operations

func (s *Storage) SaveMysteryPackage(ctx context.Context, pkg *model.MysteryPackage) error {
	data, err := json.Marshal(pkg)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, packageKey(pkg.ID), data, 0)
	pipe.SAdd(ctx, packagesIndexKey(), string(pkg.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMysteryPackage(ctx context.Context, id model.PackageID) (*model.MysteryPackage, error) {
	data, err := s.client.Get(ctx, packageKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPackageNotFound
		}
		return nil, err
	}

	var pkg model.MysteryPackage
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (s *Storage) ListMysteryPackages(ctx context.Context) ([]*model.MysteryPackage, error) {
	ids, err := s.client.SMembers(ctx, packagesIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.MysteryPackage{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = packageKey(model.PackageID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	pkgs := make([]*model.MysteryPackage, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var pkg model.MysteryPackage
		if err := json.Unmarshal([]byte(val.(string)), &pkg); err != nil {
			continue
		}
		pkgs = append(pkgs, &pkg)
	}

	sort.Slice(pkgs, func(i, j int) bool {
		return pkgs[i].ID < pkgs[j].ID
	})
	return pkgs, nil
}
