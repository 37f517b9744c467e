// Package mongostore implements the loader's Store on MongoDB. Documents are
// written through their bson tags, so _id is the loader-assigned identifier
// and references are plain ID strings.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/octofit/tracker/seed/internal/database"
	"github.com/octofit/tracker/seed/internal/model"
)

// Config holds MongoDB connection settings
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Store writes collections to one MongoDB database
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client, pings the server and selects the database.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout).SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrConnection, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping failed: %v", database.ErrConnection, err)
	}

	s := New(client.Database(cfg.Database))
	s.client = client
	return s, nil
}

// New creates a store over an existing database handle. Close is a no-op
// for stores created this way.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Close disconnects the client opened by Connect
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// DropCollection drops the collection and its indexes. The driver treats a
// missing namespace as success.
func (s *Store) DropCollection(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	return mapError(s.db.Collection(name).Drop(ctx))
}

// CreateCollection creates the collection explicitly
func (s *Store) CreateCollection(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	return mapError(s.db.CreateCollection(ctx, name))
}

// InsertMany inserts docs in one ordered bulk write
func (s *Store) InsertMany(ctx context.Context, name string, docs []model.Document) ([]string, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	rows, err := toRows(name, docs)
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	res, err := s.db.Collection(name).InsertMany(ctx, rows)
	if err != nil {
		return nil, mapError(err)
	}

	ids := make([]string, len(res.InsertedIDs))
	for i, id := range res.InsertedIDs {
		str, ok := id.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s inserted id %v is %T, want string", database.ErrQuery, name, id, id)
		}
		ids[i] = str
	}
	return ids, nil
}

// AppendToSet applies $addToSet to the document with the given _id
func (s *Store) AppendToSet(ctx context.Context, name, id, field, value string) error {
	if err := checkName(name); err != nil {
		return err
	}

	res, err := s.db.Collection(name).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{field: value}},
	)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %q: %w", name, id, database.ErrNotFound)
	}
	return nil
}

// EnsureIndex creates an ascending single-field index named <collection>_<field>
func (s *Store) EnsureIndex(ctx context.Context, name, field string, unique bool) error {
	if err := checkName(name); err != nil {
		return err
	}

	_, err := s.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetName(indexName(name, field)).SetUnique(unique),
	})
	return mapError(err)
}

// Count returns the number of documents in the collection
func (s *Store) Count(ctx context.Context, name string) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	n, err := s.db.Collection(name).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func toRows(name string, docs []model.Document) ([]interface{}, error) {
	rows := make([]interface{}, 0, len(docs))
	for i, d := range docs {
		if d.DocumentID() == "" {
			return nil, fmt.Errorf("%w: %s document %d has no id", database.ErrQuery, name, i)
		}
		rows = append(rows, d)
	}
	return rows, nil
}

func indexName(collection, field string) string {
	return collection + "_" + field
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty collection name", database.ErrQuery)
	}
	return nil
}

// mapError translates driver errors onto the database sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", database.ErrDuplicate, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %w", database.ErrConnection, err)
	default:
		return fmt.Errorf("%w: %v", database.ErrQuery, err)
	}
}
