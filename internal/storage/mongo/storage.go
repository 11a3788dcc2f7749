// Package mongo is a MongoDB storage implementation.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mcoot/battingstats/internal/model"
	"github.com/mcoot/battingstats/internal/storage"
)

const (
	accountsCollection = "users"
	playersCollection  = "players"
	countersCollection = "counters"

	playerSeqCounter = "players"
)

// Config holds MongoDB connection settings
type Config struct {
	URI      string
	Database string
}

// DefaultConfig returns sensible defaults for MongoDB configuration
func DefaultConfig() Config {
	return Config{
		URI:      "mongodb://localhost:27017",
		Database: "battingstats",
	}
}

// Storage is a MongoDB implementation of the storage interface
type Storage struct {
	client   *mongo.Client
	accounts *mongo.Collection
	players  *mongo.Collection
	counters *mongo.Collection
}

// New connects, verifies the connection and ensures indexes exist
func New(ctx context.Context, cfg Config) (*Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Storage{
		client:   client,
		accounts: db.Collection(accountsCollection),
		players:  db.Collection(playersCollection),
		counters: db.Collection(countersCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}

	_, err = s.players.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "seq", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create players index: %w", err)
	}
	return nil
}

// Close disconnects the client
func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	_, err := s.accounts.InsertOne(ctx, accountDoc{
		ID:           string(account.ID),
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt.UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return model.ErrUsernameTaken
	}
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	return s.findAccount(ctx, bson.M{"_id": string(id)})
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	return s.findAccount(ctx, bson.M{"username": username})
}

func (s *Storage) findAccount(ctx context.Context, filter bson.M) (*model.Account, error) {
	var doc accountDoc
	err := s.accounts.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// Player record operations

func (s *Storage) InsertPlayer(ctx context.Context, record *model.PlayerRecord) error {
	seq, err := s.nextSeq(ctx)
	if err != nil {
		return err
	}

	doc := playerDoc{
		ID:        string(record.ID),
		Seq:       seq,
		UserID:    string(record.OwnerID),
		Name:      record.Name,
		Position:  string(record.Position),
		AVG:       record.AVG,
		OBP:       record.OBP,
		SLG:       record.SLG,
		OPS:       record.OPS,
		CreatedAt: record.CreatedAt.UTC(),
	}
	if record.UpdatedAt != nil {
		t := record.UpdatedAt.UTC()
		doc.UpdatedAt = &t
	}

	_, err = s.players.InsertOne(ctx, doc)
	return err
}

// nextSeq hands out a monotonically increasing insertion sequence number
func (s *Storage) nextSeq(ctx context.Context) (int64, error) {
	var counter counterDoc
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": playerSeqCounter},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate player sequence: %w", err)
	}
	return counter.Seq, nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, record *model.PlayerRecord) (bool, error) {
	set := bson.M{
		"name":     record.Name,
		"position": string(record.Position),
		"avg":      record.AVG,
		"obp":      record.OBP,
		"slg":      record.SLG,
		"ops":      record.OPS,
	}
	update := bson.M{"$set": set}
	if record.UpdatedAt != nil {
		set["updatedAt"] = record.UpdatedAt.UTC()
	} else {
		update["$unset"] = bson.M{"updatedAt": ""}
	}

	result, err := s.players.UpdateOne(ctx, ownedBy(record.OwnerID, record.ID), update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, owner model.AccountID, id model.PlayerRecordID) (bool, error) {
	result, err := s.players.DeleteOne(ctx, ownedBy(owner, id))
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (s *Storage) ListPlayers(ctx context.Context, owner model.AccountID) ([]*model.PlayerRecord, error) {
	cursor, err := s.players.Find(ctx,
		bson.M{"userId": string(owner)},
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}

	var docs []playerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]*model.PlayerRecord, len(docs))
	for i := range docs {
		records[i] = docs[i].toModel()
	}
	return records, nil
}

func ownedBy(owner model.AccountID, id model.PlayerRecordID) bson.M {
	return bson.M{"_id": string(id), "userId": string(owner)}
}
