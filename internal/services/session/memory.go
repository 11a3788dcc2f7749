package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/battingstats/internal/dependencies/clock"
	"github.com/mcoot/battingstats/internal/dependencies/random"
)

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	clock  clock.Clock
	random random.Random
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an in-memory session store
func NewMemoryStore(clock clock.Clock, random random.Random, ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		clock:    clock,
		random:   random,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Create(_ context.Context, identity Identity) (*Session, error) {
	token, err := m.random.Token(tokenPrefix)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	session := &Session{
		Token:     token,
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[token] = session
	m.mu.Unlock()

	s := *session
	return &s, nil
}

func (m *MemoryStore) Lookup(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if session.Expired(m.clock.Now()) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, ErrInvalidSession
	}

	s := *session
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

// Len returns the number of sessions held, expired or not
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanExpired removes expired sessions and returns how many were removed
func (m *MemoryStore) CleanExpired() int {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for token, session := range m.sessions {
		if session.Expired(now) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

// RunCleanup calls CleanExpired every interval until ctx is done
func (m *MemoryStore) RunCleanup(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.CleanExpired(); n > 0 {
				logger.Debug("expired sessions removed", slog.Int("count", n))
			}
		}
	}
}
