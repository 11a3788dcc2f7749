// Package sqlite is a gorm-backed storage implementation using SQLite.
package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"moul.io/zapgorm2"

	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/storage"
)

// Config holds SQLite settings
type Config struct {
	// Path is the database file; ":memory:" keeps everything in process
	Path string
}

// DefaultConfig returns the default SQLite configuration
func DefaultConfig() Config {
	return Config{Path: "battingstats.db"}
}

// Storage is a SQLite implementation of the storage interface
type Storage struct {
	db *gorm.DB
}

// New opens the database, routes gorm's logging through zap and migrates
// the schema
func New(cfg Config, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	gormLogger := zapgorm2.New(logger)
	gormLogger.IgnoreRecordNotFoundError = true

	db, err := gorm.Open(gormsqlite.Open(cfg.Path), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// ":memory:" databases exist per connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&accountRow{}, &playerRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	err := s.db.WithContext(ctx).Create(accountToRow(account)).Error
	if isUniqueViolation(err) {
		return model.ErrUsernameTaken
	}
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	return s.findAccount(ctx, "id = ?", string(id))
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return s.findAccount(ctx, "username = ?", username)
}

func (s *Storage) findAccount(ctx context.Context, query string, arg string) (*model.Account, error) {
	var row accountRow
	err := s.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

// Player record operations

func (s *Storage) InsertPlayer(ctx context.Context, record *model.PlayerRecord) error {
	return s.db.WithContext(ctx).Create(playerToRow(record)).Error
}

func (s *Storage) UpdatePlayer(ctx context.Context, record *model.PlayerRecord) (bool, error) {
	row := playerToRow(record)
	result := s.db.WithContext(ctx).
		Model(&playerRow{}).
		Where("id = ? AND owner_id = ?", row.ID, row.OwnerID).
		Updates(map[string]any{
			"name":       row.Name,
			"position":   row.Position,
			"avg":        row.AVG,
			"obp":        row.OBP,
			"slg":        row.SLG,
			"ops":        row.OPS,
			"updated_at": row.LastUpdated,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, owner model.AccountID, id model.PlayerRecordID) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", string(id), string(owner)).
		Delete(&playerRow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Storage) ListPlayers(ctx context.Context, owner model.AccountID) ([]*model.PlayerRecord, error) {
	var rows []playerRow
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", string(owner)).
		Order("seq").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]*model.PlayerRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].toModel()
	}
	return records, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
