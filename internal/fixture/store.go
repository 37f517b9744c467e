package fixture

import (
	"context"

	"github.com/octofit/tracker/seed/internal/model"
)

// Store is the subset of a document store the loader drives. Implementations
// map native failures onto the database package sentinels (ErrConnection,
// ErrDuplicate, ErrQuery).
type Store interface {
	// DropCollection removes the collection and its indexes. Dropping a
	// collection that does not exist is not an error.
	DropCollection(ctx context.Context, name string) error

	// CreateCollection creates an empty collection.
	CreateCollection(ctx context.Context, name string) error

	// InsertMany writes docs in one bulk operation and returns the stored
	// identifiers in input order.
	InsertMany(ctx context.Context, name string, docs []model.Document) ([]string, error)

	// AppendToSet adds value to the array field of the document with the
	// given id, unless it is already present.
	AppendToSet(ctx context.Context, name, id, field, value string) error

	// EnsureIndex declares an index on field. Declaring it twice is a no-op.
	EnsureIndex(ctx context.Context, name, field string, unique bool) error

	// Count returns the number of documents in the collection.
	Count(ctx context.Context, name string) (int64, error)
}

// Resetter is implemented by stores that can drop and recreate all
// collections as one atomic step. names are in creation order.
type Resetter interface {
	ResetCollections(ctx context.Context, names []string) error
}
