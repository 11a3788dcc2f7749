package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/battingstats/internal/dependencies/clock"
	"github.com/mcoot/battingstats/internal/dependencies/random"
	"github.com/mcoot/battingstats/internal/model"
)

const jwtIssuer = "battingstats"

// ErrWeakSecret is returned when a JWT store is built without a usable key
var ErrWeakSecret = errors.New("jwt secret must be at least 32 bytes")

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTStore issues self-contained HS256 tokens. Logout is honoured through an
// in-process revocation list keyed by token ID, so revocations do not survive
// a restart.
type JWTStore struct {
	secret []byte
	clock  clock.Clock
	random random.Random
	ttl    time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> token expiry
}

// NewJWTStore creates a JWT session store signing with secret
func NewJWTStore(secret []byte, clock clock.Clock, random random.Random, ttl time.Duration) (*JWTStore, error) {
	if len(secret) < 32 {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWTStore{
		secret:  secret,
		clock:   clock,
		random:  random,
		ttl:     ttl,
		revoked: make(map[string]time.Time),
	}, nil
}

var _ Store = (*JWTStore)(nil)

func (j *JWTStore) Create(_ context.Context, identity Identity) (*Session, error) {
	now := j.clock.Now().Truncate(time.Second)
	expiresAt := now.Add(j.ttl)

	c := claims{
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        j.random.ID(),
			Subject:   string(identity.AccountID),
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(j.secret)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}, nil
}

func (j *JWTStore) Lookup(_ context.Context, token string) (*Session, error) {
	c, err := j.parse(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	j.mu.Lock()
	_, revoked := j.revoked[c.ID]
	j.mu.Unlock()
	if revoked {
		return nil, ErrInvalidSession
	}

	return &Session{
		Token: token,
		Identity: Identity{
			AccountID: model.AccountID(c.Subject),
			Username:  c.Username,
		},
		CreatedAt: c.IssuedAt.UTC(),
		ExpiresAt: c.ExpiresAt.UTC(),
	}, nil
}

// Delete revokes a valid token until it would have expired anyway
func (j *JWTStore) Delete(_ context.Context, token string) error {
	c, err := j.parse(token)
	if err != nil {
		return nil
	}

	now := j.clock.Now()
	j.mu.Lock()
	defer j.mu.Unlock()

	for id, exp := range j.revoked {
		if !now.Before(exp) {
			delete(j.revoked, id)
		}
	}
	j.revoked[c.ID] = c.ExpiresAt.Time
	return nil
}

func (j *JWTStore) parse(token string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.clock.Now),
	)
	if err != nil {
		return nil, err
	}
	if c.ID == "" || c.Subject == "" {
		return nil, ErrInvalidSession
	}
	return &c, nil
}
