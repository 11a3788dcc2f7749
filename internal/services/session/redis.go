package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/battingstats/internal/dependencies/clock"
	"github.com/mcoot/battingstats/internal/dependencies/random"
)

// RedisStore keeps sessions in Redis, expiring them with key TTLs
type RedisStore struct {
	client *redis.Client
	clock  clock.Clock
	random random.Random
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a Redis-backed session store. Keys are written as
// "<prefix>:session:<token>".
func NewRedisStore(client *redis.Client, clock clock.Clock, random random.Random, ttl time.Duration, prefix string) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = "bstats"
	}
	return &RedisStore{
		client: client,
		clock:  clock,
		random: random,
		ttl:    ttl,
		prefix: prefix,
	}
}

var _ Store = (*RedisStore)(nil)

func (r *RedisStore) key(token string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, token)
}

func (r *RedisStore) Create(ctx context.Context, identity Identity) (*Session, error) {
	token, err := r.random.Token(tokenPrefix)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	session := &Session{
		Token:     token,
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session data: %w", err)
	}

	// Store session with expiration
	if err := r.client.Set(ctx, r.key(token), data, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to set session: %w", err)
	}
	return session, nil
}

func (r *RedisStore) Lookup(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	session.Token = token

	// The key TTL normally handles this; the check covers clock skew
	if session.Expired(r.clock.Now()) {
		return nil, ErrInvalidSession
	}
	return &session, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
