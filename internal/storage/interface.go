package storage

import (
	"context"

	"github.com/mcoot/battingstats/internal/model"
)

// Storage defines the interface for data persistence.
//
// Every player record operation is keyed by (owner, record ID); a record
// owned by another account is indistinguishable from a missing one.
type Storage interface {
	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error // model.ErrUsernameTaken on conflict
	GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)

	// Player record operations
	InsertPlayer(ctx context.Context, record *model.PlayerRecord) error
	// UpdatePlayer replaces the stat fields and UpdatedAt of the record
	// matching record.ID and record.OwnerID; reports false if none matched
	UpdatePlayer(ctx context.Context, record *model.PlayerRecord) (bool, error)
	// DeletePlayer reports false if no record matched
	DeletePlayer(ctx context.Context, owner model.AccountID, id model.PlayerRecordID) (bool, error)
	// ListPlayers returns the owner's records in insertion order
	ListPlayers(ctx context.Context, owner model.AccountID) ([]*model.PlayerRecord, error)
}

// Closer is implemented by backends holding connections
type Closer interface {
	Close() error
}
