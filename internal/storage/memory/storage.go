package memory

import (
	"context"
	"sync"

	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts      map[model.AccountID]*model.Account
	usernameIndex map[string]model.AccountID
	players       map[playerKey]*model.PlayerRecord
	playerOrder   map[model.AccountID][]model.PlayerRecordID
}

type playerKey struct {
	owner model.AccountID
	id    model.PlayerRecordID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:      make(map[model.AccountID]*model.Account),
		usernameIndex: make(map[string]model.AccountID),
		players:       make(map[playerKey]*model.PlayerRecord),
		playerOrder:   make(map[model.AccountID][]model.PlayerRecordID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usernameIndex[account.Username]; ok {
		return model.ErrUsernameTaken
	}
	a := *account
	s.accounts[account.ID] = &a
	s.usernameIndex[account.Username] = account.ID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	a := *account
	return &a, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	a := *s.accounts[id]
	return &a, nil
}

// Player record operations

func (s *Storage) InsertPlayer(ctx context.Context, record *model.PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := playerKey{owner: record.OwnerID, id: record.ID}
	s.players[key] = record.Clone()
	s.playerOrder[record.OwnerID] = append(s.playerOrder[record.OwnerID], record.ID)
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, record *model.PlayerRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := playerKey{owner: record.OwnerID, id: record.ID}
	existing, ok := s.players[key]
	if !ok {
		return false, nil
	}
	updated := record.Clone()
	updated.CreatedAt = existing.CreatedAt
	s.players[key] = updated
	return true, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, owner model.AccountID, id model.PlayerRecordID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := playerKey{owner: owner, id: id}
	if _, ok := s.players[key]; !ok {
		return false, nil
	}
	delete(s.players, key)

	order := s.playerOrder[owner]
	for i, pid := range order {
		if pid == id {
			s.playerOrder[owner] = append(order[:i:i], order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *Storage) ListPlayers(ctx context.Context, owner model.AccountID) ([]*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.playerOrder[owner]
	records := make([]*model.PlayerRecord, 0, len(order))
	for _, id := range order {
		records = append(records, s.players[playerKey{owner: owner, id: id}].Clone())
	}
	return records, nil
}
