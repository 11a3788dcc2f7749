// Package postgres is a PostgreSQL storage implementation over database/sql.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq" // PostgreSQL driver

	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/storage"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint failure
const uniqueViolation = "23505"

// Config holds database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConfig returns pool defaults; DSN must still be supplied
func DefaultConfig() Config {
	return Config{
		DSN:             "postgres://localhost:5432/battingstats?sslmode=disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// Storage is a PostgreSQL implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens a connection pool, verifies it and applies the schema
func New(ctx context.Context, cfg Config) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the tables if they do not exist
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		string(account.ID), account.Username, account.PasswordHash, account.CreatedAt.UTC(),
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return model.ErrUsernameTaken
	}
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	return s.queryAccount(ctx,
		`SELECT id, username, password_hash, created_at FROM accounts WHERE id = $1`, string(id))
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return s.queryAccount(ctx,
		`SELECT id, username, password_hash, created_at FROM accounts WHERE username = $1`, username)
}

func (s *Storage) queryAccount(ctx context.Context, query string, arg string) (*model.Account, error) {
	var (
		account model.Account
		id      string
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&id, &account.Username, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	account.ID = model.AccountID(id)
	account.CreatedAt = account.CreatedAt.UTC()
	return &account, nil
}

// Player record operations

func (s *Storage) InsertPlayer(ctx context.Context, record *model.PlayerRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO player_records (id, owner_id, name, position, avg, obp, slg, ops, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(record.ID), string(record.OwnerID), record.Name, string(record.Position),
		record.AVG, record.OBP, record.SLG, record.OPS,
		record.CreatedAt.UTC(), nullTime(record.UpdatedAt),
	)
	return err
}

func (s *Storage) UpdatePlayer(ctx context.Context, record *model.PlayerRecord) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE player_records
		SET name = $3, position = $4, avg = $5, obp = $6, slg = $7, ops = $8, updated_at = $9
		WHERE id = $1 AND owner_id = $2`,
		string(record.ID), string(record.OwnerID), record.Name, string(record.Position),
		record.AVG, record.OBP, record.SLG, record.OPS, nullTime(record.UpdatedAt),
	)
	if err != nil {
		return false, err
	}
	return affected(result)
}

func (s *Storage) DeletePlayer(ctx context.Context, owner model.AccountID, id model.PlayerRecordID) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM player_records WHERE id = $1 AND owner_id = $2`, string(id), string(owner))
	if err != nil {
		return false, err
	}
	return affected(result)
}

func (s *Storage) ListPlayers(ctx context.Context, owner model.AccountID) ([]*model.PlayerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, position, avg, obp, slg, ops, created_at, updated_at
		FROM player_records
		WHERE owner_id = $1
		ORDER BY seq`, string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*model.PlayerRecord{}
	for rows.Next() {
		var (
			r                model.PlayerRecord
			id, ownerID, pos string
			updatedAt        sql.NullTime
		)
		if err := rows.Scan(&id, &ownerID, &r.Name, &pos, &r.AVG, &r.OBP, &r.SLG, &r.OPS, &r.CreatedAt, &updatedAt); err != nil {
			return nil, err
		}
		r.ID = model.PlayerRecordID(id)
		r.OwnerID = model.AccountID(ownerID)
		r.Position = model.Position(pos)
		r.CreatedAt = r.CreatedAt.UTC()
		if updatedAt.Valid {
			t := updatedAt.Time.UTC()
			r.UpdatedAt = &t
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
