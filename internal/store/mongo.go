package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"deadwood/internal/deadcode"
	"deadwood/internal/model"
)

// collectionName is the single collection holding one document per finding.
const collectionName = "archive_items"

// connectTimeout bounds the initial connection and ping. Store operations
// after that use the caller's context; there is no retry — a transient
// outage aborts the current command.
const connectTimeout = 10 * time.Second

// MongoStore is the MongoDB implementation of the ArchiveStore interface.
// Record expiry is delegated to the store's native TTL mechanism: a TTL index
// on expiresAt evicts documents once the deadline passes.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to the document store at uri, verifies the
// connection, and ensures the TTL index exists.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to store: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("store unreachable: %w", err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collectionName),
	}

	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the TTL index on expiresAt and the createdAt index
// backing newest-first listing. Index creation is idempotent.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}
	return nil
}

// Insert persists an item and returns the store-assigned identifier.
func (s *MongoStore) Insert(ctx context.Context, item *model.ArchiveItem) (string, error) {
	doc := *item
	doc.ID = primitive.NewObjectID().Hex()

	if _, err := s.coll.InsertOne(ctx, &doc); err != nil {
		return "", fmt.Errorf("inserting archive item: %w", err)
	}
	return doc.ID, nil
}

// FindByID returns the item with the given identifier, or nil when no such
// record exists (including records the TTL index has already evicted).
func (s *MongoStore) FindByID(ctx context.Context, id string) (*model.ArchiveItem, error) {
	var item model.ArchiveItem
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding archive item: %w", err)
	}
	return &item, nil
}

// List returns up to limit items matching the filter, newest first.
func (s *MongoStore) List(ctx context.Context, filter deadcode.ListFilter, limit int) ([]*model.ArchiveItem, error) {
	query := bson.M{}
	if filter.Repo != "" {
		query["repo"] = filter.Repo
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("querying archive items: %w", err)
	}
	defer cur.Close(ctx)

	var items []*model.ArchiveItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decoding archive items: %w", err)
	}
	return items, nil
}

// Close releases the store connection.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting from store: %w", err)
	}
	return nil
}

// Compile-time check that MongoStore implements deadcode.ArchiveStore
var _ deadcode.ArchiveStore = (*MongoStore)(nil)
