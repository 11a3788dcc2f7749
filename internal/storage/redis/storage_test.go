package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/storage"
	"github.com/mcoot/battingstats/internal/storage/storagetest"
)

func newMiniredisStorage(t *testing.T) (*Storage, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mini.Addr(),
	})

	s := NewWithClient(client, DefaultConfig())
	t.Cleanup(func() { _ = s.Close() })
	return s, mini
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage {
			s, _ := newMiniredisStorage(t)
			return s
		},
	})
}

func TestKeysUseConfiguredPrefix(t *testing.T) {
	s, mini := newMiniredisStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateAccount(ctx, &model.Account{ID: "acct-1", Username: "alice", CreatedAt: storagetest.Epoch}))
	require.NoError(t, s.InsertPlayer(ctx, storagetest.Record("acct-1", "p1", "Ortiz", 0)))

	assert.True(t, mini.Exists("bstats:account:acct-1"))
	assert.True(t, mini.Exists("bstats:idx:username:alice"))
	assert.True(t, mini.Exists("bstats:player:acct-1:p1"))
	assert.Equal(t, "0.932", mini.HGet("bstats:player:acct-1:p1", "ops"))
}

func TestRecordsHaveNoTTL(t *testing.T) {
	s, mini := newMiniredisStorage(t)
	ctx := context.Background()

	require.NoError(t, s.InsertPlayer(ctx, storagetest.Record("acct-1", "p1", "Ortiz", 0)))

	assert.Zero(t, mini.TTL("bstats:player:acct-1:p1"))
	assert.Zero(t, mini.TTL("bstats:idx:players:acct-1"))
}

func TestDeleteRemovesIndexEntry(t *testing.T) {
	s, mini := newMiniredisStorage(t)
	ctx := context.Background()

	require.NoError(t, s.InsertPlayer(ctx, storagetest.Record("acct-1", "p1", "Ortiz", 0)))
	ok, err := s.DeletePlayer(ctx, "acct-1", "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.False(t, mini.Exists("bstats:player:acct-1:p1"))
	assert.False(t, mini.Exists("bstats:idx:players:acct-1"))
}

func TestListSkipsDanglingIndexEntries(t *testing.T) {
	s, mini := newMiniredisStorage(t)
	ctx := context.Background()

	require.NoError(t, s.InsertPlayer(ctx, storagetest.Record("acct-1", "p1", "Ortiz", 0)))
	_, err := mini.Push("bstats:idx:players:acct-1", "ghost")
	require.NoError(t, err)

	records, err := s.ListPlayers(ctx, "acct-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
