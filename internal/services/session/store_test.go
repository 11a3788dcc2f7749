package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battingstats/internal/dependencies/mocks"
)

const testTTL = time.Hour

var epoch = time.Date(2024, 4, 1, 17, 5, 0, 0, time.UTC)

var alice = Identity{AccountID: "acct-alice", Username: "alice"}

// StoreSuite checks the behaviour every Store shares
type StoreSuite struct {
	suite.Suite
	build func(s *StoreSuite) Store

	clock  *mocks.MockClock
	random *mocks.MockRandom
	mini   *miniredis.Miniredis
	store  Store
	ctx    context.Context
}

func (s *StoreSuite) SetupTest() {
	s.clock = mocks.NewMockClock(epoch)
	s.random = mocks.NewMockRandom()
	s.mini = nil
	s.ctx = context.Background()
	s.store = s.build(s)
}

// advance moves both the mock clock and, when present, miniredis' TTL clock
func (s *StoreSuite) advance(d time.Duration) {
	s.clock.Advance(d)
	if s.mini != nil {
		s.mini.FastForward(d)
	}
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{build: func(s *StoreSuite) Store {
		return NewMemoryStore(s.clock, s.random, testTTL)
	}})
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{build: func(s *StoreSuite) Store {
		s.mini = miniredis.RunT(s.T())
		client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
		s.T().Cleanup(func() { _ = client.Close() })
		return NewRedisStore(client, s.clock, s.random, testTTL, "")
	}})
}

func TestJWTStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{build: func(s *StoreSuite) Store {
		store, err := NewJWTStore([]byte(strings.Repeat("k", 32)), s.clock, s.random, testTTL)
		s.Require().NoError(err)
		return store
	}})
}

func (s *StoreSuite) TestCreateThenLookup() {
	created, err := s.store.Create(s.ctx, alice)
	s.Require().NoError(err)
	s.NotEmpty(created.Token)
	s.Equal(alice, created.Identity)
	s.Equal(epoch.Add(testTTL), created.ExpiresAt)

	found, err := s.store.Lookup(s.ctx, created.Token)
	s.Require().NoError(err)
	s.Equal(alice, found.Identity)
	s.Equal(created.Token, found.Token)
}

func (s *StoreSuite) TestTokensAreDistinct() {
	first, err := s.store.Create(s.ctx, alice)
	s.Require().NoError(err)
	second, err := s.store.Create(s.ctx, alice)
	s.Require().NoError(err)

	s.NotEqual(first.Token, second.Token)
}

func (s *StoreSuite) TestLookupUnknownToken() {
	_, err := s.store.Lookup(s.ctx, "sess_unknown")
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.store.Lookup(s.ctx, "")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *StoreSuite) TestSessionValidBeforeExpiry() {
	created, err := s.store.Create(s.ctx, alice)
	s.Require().NoError(err)

	s.advance(testTTL - time.Second)

	_, err = s.store.Lookup(s.ctx, created.Token)
	s.NoError(err)
}

func (s *StoreSuite) TestSessionExpires() {
	created, err := s.store.Create(s.ctx, alice)
	s.Require().NoError(err)

	s.advance(testTTL + time.Second)

	_, err = s.store.Lookup(s.ctx, created.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *StoreSuite) TestDeleteRevokes() {
	created, err := s.store.Create(s.ctx, alice)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(s.ctx, created.Token))

	_, err = s.store.Lookup(s.ctx, created.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *StoreSuite) TestDeleteOnlyRevokesThatToken() {
	first, err := s.store.Create(s.ctx, alice)
	s.Require().NoError(err)
	second, err := s.store.Create(s.ctx, alice)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(s.ctx, first.Token))

	_, err = s.store.Lookup(s.ctx, second.Token)
	s.NoError(err)
}

func (s *StoreSuite) TestDeleteUnknownTokenIsNoop() {
	s.NoError(s.store.Delete(s.ctx, "sess_unknown"))
	s.NoError(s.store.Delete(s.ctx, ""))
}
