// Package players owns the per-account player record CRUD.
package players

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/battingstats/internal/dependencies/clock"
	"github.com/mcoot/battingstats/internal/dependencies/random"
	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/storage"
)

// MissingRecordPolicy decides what update and delete do when the record is
// missing or owned by another account
type MissingRecordPolicy string

const (
	// MissingRecordIgnore treats the operation as a no-op and returns the listing
	MissingRecordIgnore MissingRecordPolicy = "ignore"
	// MissingRecordReport fails with model.ErrPlayerNotFound
	MissingRecordReport MissingRecordPolicy = "report"
)

// ParseMissingRecordPolicy parses "ignore" or "report", case-insensitively
func ParseMissingRecordPolicy(s string) (MissingRecordPolicy, error) {
	switch p := MissingRecordPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case MissingRecordIgnore, MissingRecordReport:
		return p, nil
	default:
		return "", fmt.Errorf("unknown missing record policy %q", s)
	}
}

// Config holds configuration for the player service
type Config struct {
	MissingRecordPolicy MissingRecordPolicy
}

// DefaultConfig returns default player service configuration
func DefaultConfig() Config {
	return Config{MissingRecordPolicy: MissingRecordIgnore}
}

// CreateResult is the new record plus the owner's full listing
type CreateResult struct {
	Record  *model.PlayerRecord
	Listing []*model.PlayerRecord
}

// UpdateResult is the updated record plus the owner's full listing. Record
// is nil when nothing matched under MissingRecordIgnore.
type UpdateResult struct {
	Record  *model.PlayerRecord
	Listing []*model.PlayerRecord
}

// Service manages player records
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config
}

// New creates a new player Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger, cfg Config) *Service {
	if cfg.MissingRecordPolicy == "" {
		cfg.MissingRecordPolicy = MissingRecordIgnore
	}
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
		cfg:     cfg,
	}
}

// List returns the owner's records in insertion order
func (s *Service) List(ctx context.Context, owner model.AccountID) ([]*model.PlayerRecord, error) {
	records, err := s.storage.ListPlayers(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return records, nil
}

// Create validates the draft and stores a new record for owner
func (s *Service) Create(ctx context.Context, owner model.AccountID, draft model.PlayerDraft) (*CreateResult, error) {
	stats, err := draft.Validate()
	if err != nil {
		return nil, err
	}

	record := &model.PlayerRecord{
		ID:        model.PlayerRecordID(s.random.ID()),
		OwnerID:   owner,
		CreatedAt: s.clock.Now(),
	}
	record.Apply(stats)

	if err := s.storage.InsertPlayer(ctx, record); err != nil {
		return nil, fmt.Errorf("insert player: %w", err)
	}

	s.logger.Info("player created",
		slog.String("account_id", string(owner)),
		slog.String("player_id", string(record.ID)),
	)

	listing, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Record: record, Listing: listing}, nil
}

// Update replaces the stat fields of the owner's record id
func (s *Service) Update(ctx context.Context, owner model.AccountID, id model.PlayerRecordID, draft model.PlayerDraft) (*UpdateResult, error) {
	stats, err := draft.Validate()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	record := &model.PlayerRecord{
		ID:        id,
		OwnerID:   owner,
		UpdatedAt: &now,
	}
	record.Apply(stats)

	found, err := s.storage.UpdatePlayer(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("update player: %w", err)
	}
	if err := s.checkFound(found, owner, id, "update"); err != nil {
		return nil, err
	}

	listing, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{Listing: listing}
	if found {
		for _, r := range listing {
			if r.ID == id {
				result.Record = r
				break
			}
		}
	}
	return result, nil
}

// Delete removes the owner's record id and returns the remaining listing
func (s *Service) Delete(ctx context.Context, owner model.AccountID, id model.PlayerRecordID) ([]*model.PlayerRecord, error) {
	found, err := s.storage.DeletePlayer(ctx, owner, id)
	if err != nil {
		return nil, fmt.Errorf("delete player: %w", err)
	}
	if err := s.checkFound(found, owner, id, "delete"); err != nil {
		return nil, err
	}

	return s.List(ctx, owner)
}

func (s *Service) checkFound(found bool, owner model.AccountID, id model.PlayerRecordID, op string) error {
	if found {
		s.logger.Info("player "+op+"d",
			slog.String("account_id", string(owner)),
			slog.String("player_id", string(id)),
		)
		return nil
	}

	s.logger.Debug("player "+op+" matched nothing",
		slog.String("account_id", string(owner)),
		slog.String("player_id", string(id)),
		slog.String("policy", string(s.cfg.MissingRecordPolicy)),
	)
	if s.cfg.MissingRecordPolicy == MissingRecordReport {
		return model.ErrPlayerNotFound
	}
	return nil
}
