package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrUsernameTaken   = errors.New("username already taken")

	// Player record errors
	ErrPlayerNotFound = errors.New("player record not found")

	// Draft errors; *ValidationError matches this via errors.Is
	ErrValidation = errors.New("validation failed")
)
