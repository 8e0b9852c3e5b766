// internal/docstore/memory.go
package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryStore keeps documents in process. Documents are copied on the way
// in and out so callers never share state with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, collection, key string, doc bson.D) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[collection]
	if !ok {
		c = make(map[string][]byte)
		s.collections[collection] = c
	}
	c[key] = raw
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, key string) (bson.D, error) {
	s.mu.RLock()
	raw, ok := s.collections[collection][key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, ErrNotFound)
	}
	return unmarshalDoc(raw)
}

func (s *MemoryStore) Delete(ctx context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection][key]; !ok {
		return fmt.Errorf("%s/%s: %w", collection, key, ErrNotFound)
	}
	delete(s.collections[collection], key)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]Entry, error) {
	s.mu.RLock()
	c := s.collections[collection]
	keys := make([]string, 0, len(c))
	raws := make(map[string][]byte, len(c))
	for k, raw := range c {
		keys = append(keys, k)
		raws[k] = raw
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		doc, err := unmarshalDoc(raws[k])
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: k, Doc: doc})
	}
	return entries, nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func unmarshalDoc(raw []byte) (bson.D, error) {
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}
