// Package store provides optional persistent storage for computed layouts,
// used by serve mode so a CI dashboard can re-fetch a previously computed
// layout without replaying a whole pass dump.
//
// Unlike pkg/cache, which is a short-lived memoization layer keyed by
// content hash, store is keyed by the caller-supplied (function, pass)
// identity and is meant to be durable across cache evictions and process
// restarts.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iongraph/iongraph/pkg/httputil"
	"github.com/iongraph/iongraph/pkg/layout"
)

// Key identifies a stored layout by the function and pass it was computed
// from.
type Key struct {
	Function string
	Pass     string
}

// Store persists computed layouts keyed by (function, pass).
type Store interface {
	// Save records doc under key, overwriting any existing entry.
	Save(ctx context.Context, key Key, doc *layout.Document) error

	// Load retrieves the layout stored under key. The second return value
	// is false if no entry exists.
	Load(ctx context.Context, key Key) (*layout.Document, bool, error)

	// Delete removes the entry stored under key, if any.
	Delete(ctx context.Context, key Key) error

	Close(ctx context.Context) error
}

// record is the document shape persisted to Mongo.
type record struct {
	Function  string    `bson:"function"`
	Pass      string    `bson:"pass"`
	Layout    []byte    `bson:"layout"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore persists layouts to a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to uri and returns a Store backed by db.collection.
// The collection is indexed on (function, pass) so Save/Load are O(1) index
// lookups rather than collection scans.
func NewMongoStore(ctx context.Context, uri, db, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	// The server may still be coming up (common right after a container
	// restart), so a failed ping is worth a few retries before giving up.
	pingErr := httputil.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return &httputil.RetryableError{Err: err}
		}
		return nil
	})
	if pingErr != nil {
		return nil, fmt.Errorf("ping mongo: %w", pingErr)
	}

	coll := client.Database(db).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "function", Value: 1}, {Key: "pass", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &MongoStore{client: client, collection: coll}, nil
}

func (s *MongoStore) Save(ctx context.Context, key Key, doc *layout.Document) error {
	data, err := layout.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}

	filter := bson.D{{Key: "function", Value: key.Function}, {Key: "pass", Value: key.Pass}}
	update := bson.D{{Key: "$set", Value: record{
		Function:  key.Function,
		Pass:      key.Pass,
		Layout:    data,
		UpdatedAt: time.Now(),
	}}}
	_, err = s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert layout: %w", err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, key Key) (*layout.Document, bool, error) {
	filter := bson.D{{Key: "function", Value: key.Function}, {Key: "pass", Value: key.Pass}}

	var rec record
	err := s.collection.FindOne(ctx, filter).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find layout: %w", err)
	}

	doc, err := layout.Unmarshal(rec.Layout)
	if err != nil {
		return nil, false, fmt.Errorf("unmarshal layout: %w", err)
	}
	return doc, true, nil
}

func (s *MongoStore) Delete(ctx context.Context, key Key) error {
	filter := bson.D{{Key: "function", Value: key.Function}, {Key: "pass", Value: key.Pass}}
	_, err := s.collection.DeleteOne(ctx, filter)
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)

// MemStore is an in-memory Store, used when serve mode runs without a Mongo
// URI configured, and in tests.
type MemStore struct {
	entries map[Key][]byte
}

// NewMemStore returns an empty in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[Key][]byte)}
}

func (m *MemStore) Save(ctx context.Context, key Key, doc *layout.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func (m *MemStore) Load(ctx context.Context, key Key) (*layout.Document, bool, error) {
	data, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	doc, err := layout.Unmarshal(data)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (m *MemStore) Delete(ctx context.Context, key Key) error {
	delete(m.entries, key)
	return nil
}

func (m *MemStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemStore implements Store.
var _ Store = (*MemStore)(nil)
