// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/storage"
)

// Suite runs the storage contract against the backend built by NewStorage.
// NewStorage is called before every test and must return an empty store.
type Suite struct {
	suite.Suite
	NewStorage func(t *testing.T) storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

// Epoch is the fixed creation time used by the suite's fixtures
var Epoch = time.Date(2024, 4, 1, 17, 5, 0, 0, time.UTC)

func (s *Suite) SetupTest() {
	s.Require().NotNil(s.NewStorage, "NewStorage must be set")
	s.Storage = s.NewStorage(s.T())
	s.Ctx = context.Background()
}

// Record builds a fixture record owned by owner
func Record(owner model.AccountID, id model.PlayerRecordID, name string, offset time.Duration) *model.PlayerRecord {
	r := &model.PlayerRecord{
		ID:        id,
		OwnerID:   owner,
		CreatedAt: Epoch.Add(offset),
	}
	r.Apply(model.PlayerStats{
		Name:     name,
		Position: model.PositionDesignatedHitter,
		AVG:      0.285,
		OBP:      0.380,
		SLG:      0.552,
	})
	return r
}

func (s *Suite) insert(records ...*model.PlayerRecord) {
	for _, r := range records {
		s.Require().NoError(s.Storage.InsertPlayer(s.Ctx, r))
	}
}

func (s *Suite) ids(records []*model.PlayerRecord) []model.PlayerRecordID {
	ids := make([]model.PlayerRecordID, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

// Account tests

func (s *Suite) TestCreateAndGetAccount() {
	account := &model.Account{ID: "acct-1", Username: "alice", PasswordHash: "hash", CreatedAt: Epoch}

	s.Require().NoError(s.Storage.CreateAccount(s.Ctx, account))

	byID, err := s.Storage.GetAccount(s.Ctx, "acct-1")
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)
	s.Equal("hash", byID.PasswordHash)
	s.WithinDuration(Epoch, byID.CreatedAt, time.Millisecond)

	byName, err := s.Storage.GetAccountByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acct-1"), byName.ID)
}

func (s *Suite) TestCreateAccountRejectsDuplicateUsername() {
	s.Require().NoError(s.Storage.CreateAccount(s.Ctx, &model.Account{ID: "acct-1", Username: "alice", CreatedAt: Epoch}))

	err := s.Storage.CreateAccount(s.Ctx, &model.Account{ID: "acct-2", Username: "alice", CreatedAt: Epoch})
	s.ErrorIs(err, model.ErrUsernameTaken)

	account, err := s.Storage.GetAccountByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acct-1"), account.ID)
}

func (s *Suite) TestUsernamesAreCaseSensitive() {
	s.Require().NoError(s.Storage.CreateAccount(s.Ctx, &model.Account{ID: "acct-1", Username: "alice", CreatedAt: Epoch}))
	s.Require().NoError(s.Storage.CreateAccount(s.Ctx, &model.Account{ID: "acct-2", Username: "Alice", CreatedAt: Epoch}))

	account, err := s.Storage.GetAccountByUsername(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(model.AccountID("acct-2"), account.ID)
}

func (s *Suite) TestGetAccountNotFound() {
	_, err := s.Storage.GetAccount(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrAccountNotFound)

	_, err = s.Storage.GetAccountByUsername(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

// Player record tests

func (s *Suite) TestListPlayersEmpty() {
	records, err := s.Storage.ListPlayers(s.Ctx, "acct-1")
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *Suite) TestInsertAndListPreservesFields() {
	s.insert(Record("acct-1", "p1", "Ortiz", 0))

	records, err := s.Storage.ListPlayers(s.Ctx, "acct-1")
	s.Require().NoError(err)
	s.Require().Len(records, 1)

	r := records[0]
	s.Equal(model.PlayerRecordID("p1"), r.ID)
	s.Equal(model.AccountID("acct-1"), r.OwnerID)
	s.Equal("Ortiz", r.Name)
	s.Equal(model.PositionDesignatedHitter, r.Position)
	s.Equal(0.285, r.AVG)
	s.Equal(0.380, r.OBP)
	s.Equal(0.552, r.SLG)
	s.Equal(0.932, r.OPS)
	s.WithinDuration(Epoch, r.CreatedAt, time.Millisecond)
	s.Nil(r.UpdatedAt)
}

func (s *Suite) TestListPlayersInInsertionOrder() {
	s.insert(
		Record("acct-1", "p-c", "Pedroia", 0),
		Record("acct-1", "p-a", "Ortiz", time.Second),
		Record("acct-1", "p-b", "Ramirez", 2*time.Second),
	)

	records, err := s.Storage.ListPlayers(s.Ctx, "acct-1")
	s.Require().NoError(err)
	s.Equal([]model.PlayerRecordID{"p-c", "p-a", "p-b"}, s.ids(records))
}

func (s *Suite) TestListPlayersScopedToOwner() {
	s.insert(
		Record("acct-1", "p1", "Ortiz", 0),
		Record("acct-2", "p2", "Jeter", time.Second),
	)

	records, err := s.Storage.ListPlayers(s.Ctx, "acct-1")
	s.Require().NoError(err)
	s.Equal([]model.PlayerRecordID{"p1"}, s.ids(records))

	records, err = s.Storage.ListPlayers(s.Ctx, "acct-2")
	s.Require().NoError(err)
	s.Equal([]model.PlayerRecordID{"p2"}, s.ids(records))
}

func (s *Suite) TestUpdatePlayerReplacesStats() {
	s.insert(Record("acct-1", "p1", "Ortiz", 0))

	updatedAt := Epoch.Add(time.Hour)
	update := &model.PlayerRecord{ID: "p1", OwnerID: "acct-1", UpdatedAt: &updatedAt}
	update.Apply(model.PlayerStats{Name: "David Ortiz", Position: model.PositionFirstBase, AVG: 0.3, OBP: 0.4, SLG: 0.6})

	ok, err := s.Storage.UpdatePlayer(s.Ctx, update)
	s.Require().NoError(err)
	s.True(ok)

	records, err := s.Storage.ListPlayers(s.Ctx, "acct-1")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	r := records[0]
	s.Equal("David Ortiz", r.Name)
	s.Equal(model.PositionFirstBase, r.Position)
	s.Equal(0.3, r.AVG)
	s.Equal(0.4, r.OBP)
	s.Equal(0.6, r.SLG)
	s.Equal(1.0, r.OPS)
	s.WithinDuration(Epoch, r.CreatedAt, time.Millisecond)
	s.Require().NotNil(r.UpdatedAt)
	s.WithinDuration(updatedAt, *r.UpdatedAt, time.Millisecond)
}

func (s *Suite) TestUpdatePlayerKeepsOrder() {
	s.insert(
		Record("acct-1", "p1", "Ortiz", 0),
		Record("acct-1", "p2", "Ramirez", time.Second),
	)

	update := Record("acct-1", "p1", "Big Papi", 0)
	ok, err := s.Storage.UpdatePlayer(s.Ctx, update)
	s.Require().NoError(err)
	s.True(ok)

	records, err := s.Storage.ListPlayers(s.Ctx, "acct-1")
	s.Require().NoError(err)
	s.Equal([]model.PlayerRecordID{"p1", "p2"}, s.ids(records))
}

func (s *Suite) TestUpdatePlayerMissing() {
	ok, err := s.Storage.UpdatePlayer(s.Ctx, Record("acct-1", "missing", "Nobody", 0))
	s.Require().NoError(err)
	s.False(ok)

	records, err := s.Storage.ListPlayers(s.Ctx, "acct-1")
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *Suite) TestUpdatePlayerOwnedByAnotherAccount() {
	s.insert(Record("acct-2", "p2", "Jeter", 0))

	ok, err := s.Storage.UpdatePlayer(s.Ctx, Record("acct-1", "p2", "Hijacked", 0))
	s.Require().NoError(err)
	s.False(ok)

	records, err := s.Storage.ListPlayers(s.Ctx, "acct-2")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("Jeter", records[0].Name)
}

func (s *Suite) TestDeletePlayer() {
	s.insert(
		Record("acct-1", "p1", "Ortiz", 0),
		Record("acct-1", "p2", "Ramirez", time.Second),
	)

	ok, err := s.Storage.DeletePlayer(s.Ctx, "acct-1", "p1")
	s.Require().NoError(err)
	s.True(ok)

	records, err := s.Storage.ListPlayers(s.Ctx, "acct-1")
	s.Require().NoError(err)
	s.Equal([]model.PlayerRecordID{"p2"}, s.ids(records))

	ok, err = s.Storage.DeletePlayer(s.Ctx, "acct-1", "p1")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *Suite) TestDeletePlayerOwnedByAnotherAccount() {
	s.insert(Record("acct-2", "p2", "Jeter", 0))

	ok, err := s.Storage.DeletePlayer(s.Ctx, "acct-1", "p2")
	s.Require().NoError(err)
	s.False(ok)

	records, err := s.Storage.ListPlayers(s.Ctx, "acct-2")
	s.Require().NoError(err)
	s.Len(records, 1)
}
