package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/battingstats/internal/dependencies/clock"
	"github.com/mcoot/battingstats/internal/dependencies/random"
	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/services/session"
	"github.com/mcoot/battingstats/internal/storage"
)

// Errors
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
)

// maxPasswordBytes is bcrypt's input limit
const maxPasswordBytes = 72

// Outcome is the result of an authentication attempt
type Outcome int

const (
	OutcomeRejected Outcome = iota
	OutcomeCreated
	OutcomeAuthenticated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAuthenticated:
		return "authenticated"
	default:
		return "rejected"
	}
}

// Reason explains a rejection
type Reason int

const (
	ReasonNone Reason = iota
	ReasonWrongPassword
	ReasonUnknownUser
)

// Policy controls account creation
type Policy struct {
	// AutoRegister creates an account the first time a username logs in
	AutoRegister bool
}

// DefaultPolicy returns the default policy: auto-registration on
func DefaultPolicy() Policy {
	return Policy{AutoRegister: true}
}

// Config holds configuration for the auth service
type Config struct {
	Policy     Policy
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		Policy:     DefaultPolicy(),
		BcryptCost: bcrypt.DefaultCost,
	}
}

// AuthResult is the outcome of Authenticate. Account is nil when rejected.
type AuthResult struct {
	Outcome Outcome
	Reason  Reason
	Account *model.Account
}

// LoginResult is the outcome of Login. Session is nil when rejected.
type LoginResult struct {
	AuthResult
	Session *session.Session
}

// Message is the user-facing text for the result
func (r *AuthResult) Message() string {
	switch {
	case r.Outcome == OutcomeCreated:
		return "New account created successfully! You are now logged in."
	case r.Outcome == OutcomeAuthenticated:
		return "Login successful!"
	case r.Reason == ReasonUnknownUser:
		return "No account exists for that username."
	default:
		return "Incorrect password. Please try again."
	}
}

// Service handles authentication and session management
type Service struct {
	storage  storage.Storage
	sessions session.Store
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	cfg      Config
}

// New creates a new auth Service
func New(storage storage.Storage, sessions session.Store, clock clock.Clock, random random.Random, logger *slog.Logger, cfg Config) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		storage:  storage,
		sessions: sessions,
		clock:    clock,
		random:   random,
		logger:   logger,
		cfg:      cfg,
	}
}

// Authenticate checks the credentials, creating the account first if the
// username is new and the policy allows it. A wrong password is a rejected
// result, not an error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrUsernameRequired
	}

	account, err := s.storage.GetAccountByUsername(ctx, username)
	if errors.Is(err, model.ErrAccountNotFound) {
		if !s.cfg.Policy.AutoRegister {
			return &AuthResult{Outcome: OutcomeRejected, Reason: ReasonUnknownUser}, nil
		}

		created, err := s.register(ctx, username, password)
		if err == nil {
			return &AuthResult{Outcome: OutcomeCreated, Account: created}, nil
		}
		if !errors.Is(err, model.ErrUsernameTaken) {
			return nil, err
		}

		// Another request registered the name first; check against theirs
		account, err = s.storage.GetAccountByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("re-read account %q: %w", username, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("look up account %q: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return &AuthResult{Outcome: OutcomeRejected, Reason: ReasonWrongPassword}, nil
	}
	return &AuthResult{Outcome: OutcomeAuthenticated, Account: account}, nil
}

func (s *Service) register(ctx context.Context, username, password string) (*model.Account, error) {
	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:           model.AccountID(s.random.ID()),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.storage.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		slog.String("account_id", string(account.ID)),
		slog.String("username", username),
	)
	return account, nil
}

// Login authenticates and, unless rejected, issues a session
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	auth, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{AuthResult: *auth}
	if auth.Outcome == OutcomeRejected {
		s.logger.Info("login rejected",
			slog.String("username", username),
			slog.String("outcome", auth.Outcome.String()),
		)
		return result, nil
	}

	sess, err := s.sessions.Create(ctx, session.Identity{
		AccountID: auth.Account.ID,
		Username:  auth.Account.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	result.Session = sess

	s.logger.Info("login succeeded",
		slog.String("account_id", string(auth.Account.ID)),
		slog.String("outcome", auth.Outcome.String()),
	)
	return result, nil
}

// CurrentIdentity returns the identity bound to an active session
func (s *Service) CurrentIdentity(ctx context.Context, token string) (*session.Identity, error) {
	if token == "" {
		return nil, session.ErrInvalidSession
	}
	sess, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	return &sess.Identity, nil
}

// Logout revokes the session; an empty or unknown token is a no-op
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}
