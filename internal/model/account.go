package model

import "time"

// AccountID uniquely identifies an account
type AccountID string

// Account is an authenticated identity under which player records are owned.
// Accounts are never updated or deleted once created.
type Account struct {
	ID           AccountID `json:"id"`
	Username     string    `json:"username"`      // login username (unique, case-sensitive)
	PasswordHash string    `json:"password_hash"` // bcrypt hash
	CreatedAt    time.Time `json:"created_at"`
}
