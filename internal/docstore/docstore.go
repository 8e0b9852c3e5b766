// internal/docstore/docstore.go
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrUnavailable = errors.New("document store unavailable")
)

// Entry is a stored document together with the key it was stored under.
type Entry struct {
	Key string
	Doc bson.D
}

// Store persists ordered documents grouped into named collections.
// Implementations must return documents with their keys in the order they
// were written, and List results ordered by key.
type Store interface {
	Put(ctx context.Context, collection, key string, doc bson.D) error
	Get(ctx context.Context, collection, key string) (bson.D, error)
	Delete(ctx context.Context, collection, key string) error
	List(ctx context.Context, collection string) ([]Entry, error)
	Close(ctx context.Context) error
}

// Decode unmarshals a document into v using its bson struct tags.
func Decode(doc bson.D, v interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := bson.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return nil
}

// ToMap converts a document into plain maps and slices, recursively.
func ToMap(doc bson.D) map[string]interface{} {
	m := make(map[string]interface{}, len(doc))
	for _, e := range doc {
		m[e.Key] = loosen(e.Value)
	}
	return m
}

func loosen(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.D:
		return ToMap(val)
	case bson.A:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = loosen(item)
		}
		return out
	default:
		return v
	}
}

// GetID fetches a document keyed by a UUID string. Keys are written in
// lower case; documents keyed by the upper-case form are found too. It
// returns the key the document is stored under.
func GetID(ctx context.Context, s Store, collection, id string) (bson.D, string, error) {
	key := strings.ToLower(id)
	doc, err := s.Get(ctx, collection, key)
	if !errors.Is(err, ErrNotFound) {
		return doc, key, err
	}

	upper := strings.ToUpper(id)
	if upper == key {
		return nil, "", err
	}
	doc, uerr := s.Get(ctx, collection, upper)
	if errors.Is(uerr, ErrNotFound) {
		return nil, "", err
	}
	return doc, upper, uerr
}

// Keys lists the document's keys in order.
func Keys(doc bson.D) []string {
	keys := make([]string, len(doc))
	for i, e := range doc {
		keys[i] = e.Key
	}
	return keys
}

// without returns doc minus the named key.
func without(doc bson.D, key string) bson.D {
	out := make(bson.D, 0, len(doc))
	for _, e := range doc {
		if e.Key != key {
			out = append(out, e)
		}
	}
	return out
}
