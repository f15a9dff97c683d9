package redis

import (
	"fmt"

	"github.com/parlorgames/mysteryparty/internal/model"
)

// Key prefix for all party-related data
const keyPrefix = "mparty"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// registeredUserKey returns the Redis key for a RegisteredUser
func registeredUserKey(userID model.UserID) string {
	return fmt.Sprintf("%s:registered_user:%s", keyPrefix, userID)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// partyKey returns the Redis key for a Party aggregate
func partyKey(id model.PartyID) string {
	return fmt.Sprintf("%s:party:%s", keyPrefix, id)
}

// hostPartiesIndexKey returns the Redis key for the SET of parties a host owns
func hostPartiesIndexKey(hostID model.UserID) string {
	return fmt.Sprintf("%s:idx:host_parties:%s", keyPrefix, hostID)
}

// inviteKey returns the Redis key for the invite code -> guest slot index
func inviteKey(code model.InviteCode) string {
	return fmt.Sprintf("%s:idx:invite:%s", keyPrefix, code)
}

// packageKey returns the Redis key for a MysteryPackage
func packageKey(id model.PackageID) string {
	return fmt.Sprintf("%s:package:%s", keyPrefix, id)
}

// packagesIndexKey returns the Redis key for the SET of all package keys
func packagesIndexKey() string {
	return fmt.Sprintf("%s:idx:packages", keyPrefix)
}
