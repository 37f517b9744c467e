// Package memstore keeps collections in process memory. It backs the
// "memory" dry-run backend and the loader tests, and enforces unique
// indexes the way the real stores do.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/octofit/tracker/seed/internal/database"
	"github.com/octofit/tracker/seed/internal/model"
)

// Store is an in-memory document store
type Store struct {
	mu          sync.Mutex
	collections map[string]*collection
}

type collection struct {
	order  []string
	docs   map[string]map[string]any
	unique map[string]bool
	fields map[string]bool // every indexed field, unique or not
}

func newCollection() *collection {
	return &collection{
		docs:   make(map[string]map[string]any),
		unique: make(map[string]bool),
		fields: make(map[string]bool),
	}
}

// New creates an empty store
func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// DropCollection removes a collection and its indexes
func (s *Store) DropCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

// CreateCollection creates an empty collection
func (s *Store) CreateCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; ok {
		return fmt.Errorf("%w: collection %s already exists", database.ErrQuery, name)
	}
	s.collections[name] = newCollection()
	return nil
}

// InsertMany writes all docs or none of them
func (s *Store) InsertMany(ctx context.Context, name string, docs []model.Document) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(name)
	ids := make([]string, len(docs))
	batch := make([]map[string]any, len(docs))
	seenIDs := make(map[string]bool, len(docs))
	seenValues := make(map[string]map[string]bool)

	for i, d := range docs {
		fields := d.Fields()
		id := d.DocumentID()
		if id == "" {
			id = uuid.NewString()
		}
		fields["id"] = id
		if _, exists := c.docs[id]; exists || seenIDs[id] {
			return nil, fmt.Errorf("%w: %s id %q", database.ErrDuplicate, name, id)
		}
		seenIDs[id] = true

		for field := range c.unique {
			key := valueKey(fields[field])
			if c.hasValue(field, key) || seenValues[field][key] {
				return nil, fmt.Errorf("%w: %s.%s %s", database.ErrDuplicate, name, field, key)
			}
			if seenValues[field] == nil {
				seenValues[field] = make(map[string]bool)
			}
			seenValues[field][key] = true
		}
		ids[i] = id
		batch[i] = fields
	}

	for i, fields := range batch {
		c.docs[ids[i]] = fields
		c.order = append(c.order, ids[i])
	}
	return ids, nil
}

// AppendToSet adds value to an array field unless present
func (s *Store) AppendToSet(ctx context.Context, name, id, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%w: collection %s", database.ErrNotFound, name)
	}
	doc, ok := c.docs[id]
	if !ok {
		return fmt.Errorf("%w: %s %q", database.ErrNotFound, name, id)
	}

	var current []string
	switch v := doc[field].(type) {
	case nil:
	case []string:
		current = v
	default:
		return fmt.Errorf("%w: %s.%s is %T, not an array", database.ErrQuery, name, field, v)
	}
	for _, existing := range current {
		if existing == value {
			return nil
		}
	}
	doc[field] = append(append([]string(nil), current...), value)
	return nil
}

// EnsureIndex declares an index, failing if existing documents break uniqueness
func (s *Store) EnsureIndex(ctx context.Context, name, field string, unique bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(name)
	if unique && !c.unique[field] {
		seen := make(map[string]bool, len(c.docs))
		for _, id := range c.order {
			key := valueKey(c.docs[id][field])
			if seen[key] {
				return fmt.Errorf("%w: %s.%s %s", database.ErrDuplicate, name, field, key)
			}
			seen[key] = true
		}
		c.unique[field] = true
	}
	c.fields[field] = true
	return nil
}

// Count returns the number of documents in a collection
func (s *Store) Count(ctx context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		return 0, nil
	}
	return int64(len(c.docs)), nil
}

// Documents returns copies of a collection's documents in insertion order
func (s *Store) Documents(name string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, copyDoc(c.docs[id]))
	}
	return out
}

// Find returns a copy of one document
func (s *Store) Find(name, id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, false
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil, false
	}
	return copyDoc(doc), true
}

// Collections lists existing collections
func (s *Store) Collections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasUniqueIndex reports whether field carries a unique index
func (s *Store) HasUniqueIndex(name, field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	return ok && c.unique[field]
}

// collection returns the named collection, creating it implicitly like
// document stores do on first write. Callers hold mu.
func (s *Store) collection(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = newCollection()
		s.collections[name] = c
	}
	return c
}

func (c *collection) hasValue(field, key string) bool {
	for _, doc := range c.docs {
		if valueKey(doc[field]) == key {
			return true
		}
	}
	return false
}

func valueKey(v any) string {
	return fmt.Sprintf("%T:%v", v, v)
}

func copyDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if arr, ok := v.([]string); ok {
			cp := make([]string, len(arr))
			copy(cp, arr)
			v = cp
		}
		out[k] = v
	}
	return out
}
