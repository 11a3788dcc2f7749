package random

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// Random provides identifier and token generation that can be mocked for testing
type Random interface {
	// ID returns a fresh unique identifier for a stored entity
	ID() string

	// Token returns an unguessable opaque token with the given prefix
	Token(prefix string) (string, error)
}

// CryptoRandom implements Random using uuid v4 and crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// ID returns a random (v4) UUID string
func (r *CryptoRandom) ID() string {
	return uuid.NewString()
}

// Token returns prefix followed by 32 random bytes, base64url-encoded
func (r *CryptoRandom) Token(prefix string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return prefix + base64.RawURLEncoding.EncodeToString(b), nil
}
