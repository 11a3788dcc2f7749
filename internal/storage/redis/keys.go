package redis

import (
	"fmt"

	"github.com/mcoot/battingstats/internal/model"
)

// keys generates Redis keys under a common prefix
type keys struct {
	prefix string
}

// account returns the key holding an Account as JSON
func (k keys) account(id model.AccountID) string {
	return fmt.Sprintf("%s:account:%s", k.prefix, id)
}

// usernameIndex returns the key for the username -> account id index
func (k keys) usernameIndex(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", k.prefix, username)
}

// player returns the HASH key for a player record; the owner is part of
// the key so lookups by a non-owner miss
func (k keys) player(owner model.AccountID, id model.PlayerRecordID) string {
	return fmt.Sprintf("%s:player:%s:%s", k.prefix, owner, id)
}

// playersForOwner returns the LIST of record ids in insertion order
func (k keys) playersForOwner(owner model.AccountID) string {
	return fmt.Sprintf("%s:idx:players:%s", k.prefix, owner)
}
