package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/storage"
)

// Player record hash fields
const (
	fieldID        = "id"
	fieldOwner     = "owner_id"
	fieldName      = "name"
	fieldPosition  = "position"
	fieldAVG       = "avg"
	fieldOBP       = "obp"
	fieldSLG       = "slg"
	fieldOPS       = "ops"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

// updatePlayerScript overwrites stat fields only if the record exists.
// KEYS[1] = player hash, ARGV = field/value pairs.
var updatePlayerScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

// deletePlayerScript removes the record and its index entry together.
// KEYS[1] = player hash, KEYS[2] = owner index, ARGV[1] = record id.
var deletePlayerScript = redis.NewScript(`
if redis.call('DEL', KEYS[1]) == 0 then
	return 0
end
redis.call('LREM', KEYS[2], 0, ARGV[1])
return 1
`)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithClient(client, cfg), nil
}

// NewClient connects to cfg.URL and verifies the connection
func NewClient(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Client returns the underlying client so sessions can share the pool
func (s *Storage) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Claim the username first; SETNX is the uniqueness check
	indexKey := s.keys.usernameIndex(account.Username)
	claimed, err := s.client.SetNX(ctx, indexKey, string(account.ID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrUsernameTaken
	}

	if err := s.client.Set(ctx, s.keys.account(account.ID), data, 0).Err(); err != nil {
		// Release the claim so the username is not orphaned
		_ = s.client.Del(ctx, indexKey).Err()
		return err
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	data, err := s.client.Get(ctx, s.keys.account(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	// Look up account ID from username index
	id, err := s.client.Get(ctx, s.keys.usernameIndex(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.AccountID(id))
}

// Player record operations

func (s *Storage) InsertPlayer(ctx context.Context, record *model.PlayerRecord) error {
	values := append(statFields(record),
		fieldID, string(record.ID),
		fieldOwner, string(record.OwnerID),
		fieldCreatedAt, record.CreatedAt.UTC().Format(time.RFC3339Nano),
	)

	// Use a transaction so the record and its index entry land together
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.keys.player(record.OwnerID, record.ID), values...)
		pipe.RPush(ctx, s.keys.playersForOwner(record.OwnerID), string(record.ID))
		return nil
	})
	return err
}

func (s *Storage) UpdatePlayer(ctx context.Context, record *model.PlayerRecord) (bool, error) {
	key := s.keys.player(record.OwnerID, record.ID)
	updated, err := updatePlayerScript.Run(ctx, s.client, []string{key}, statFields(record)...).Int()
	if err != nil {
		return false, err
	}
	return updated == 1, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, owner model.AccountID, id model.PlayerRecordID) (bool, error) {
	keys := []string{s.keys.player(owner, id), s.keys.playersForOwner(owner)}
	deleted, err := deletePlayerScript.Run(ctx, s.client, keys, string(id)).Int()
	if err != nil {
		return false, err
	}
	return deleted == 1, nil
}

func (s *Storage) ListPlayers(ctx context.Context, owner model.AccountID) ([]*model.PlayerRecord, error) {
	ids, err := s.client.LRange(ctx, s.keys.playersForOwner(owner), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.PlayerRecord{}, nil
	}

	// Fetch all records in one round trip
	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.keys.player(owner, model.PlayerRecordID(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	records := make([]*model.PlayerRecord, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue // index entry without a record
		}
		record, err := decodePlayer(fields)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// statFields returns the field/value pairs replaced on update
func statFields(r *model.PlayerRecord) []any {
	updatedAt := ""
	if r.UpdatedAt != nil {
		updatedAt = r.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return []any{
		fieldName, r.Name,
		fieldPosition, string(r.Position),
		fieldAVG, formatFloat(r.AVG),
		fieldOBP, formatFloat(r.OBP),
		fieldSLG, formatFloat(r.SLG),
		fieldOPS, formatFloat(r.OPS),
		fieldUpdatedAt, updatedAt,
	}
}

func decodePlayer(fields map[string]string) (*model.PlayerRecord, error) {
	r := &model.PlayerRecord{
		ID:       model.PlayerRecordID(fields[fieldID]),
		OwnerID:  model.AccountID(fields[fieldOwner]),
		Name:     fields[fieldName],
		Position: model.Position(fields[fieldPosition]),
	}

	var err error
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{fieldAVG, &r.AVG},
		{fieldOBP, &r.OBP},
		{fieldSLG, &r.SLG},
		{fieldOPS, &r.OPS},
	} {
		if *f.dst, err = strconv.ParseFloat(fields[f.name], 64); err != nil {
			return nil, fmt.Errorf("decode player %s field %s: %w", r.ID, f.name, err)
		}
	}

	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, fields[fieldCreatedAt]); err != nil {
		return nil, fmt.Errorf("decode player %s created_at: %w", r.ID, err)
	}
	if v := fields[fieldUpdatedAt]; v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("decode player %s updated_at: %w", r.ID, err)
		}
		r.UpdatedAt = &t
	}
	return r, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
