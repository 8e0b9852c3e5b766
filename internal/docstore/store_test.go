// internal/docstore/store_test.go
package docstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func sampleDoc(title string) bson.D {
	return bson.D{
		{Key: "id", Value: "b-1"},
		{Key: "bookTitle", Value: title},
		{Key: "genre", Value: "Mystery"},
		{Key: "quantity", Value: 3},
		{Key: "averageRating", Value: 4.5},
		{Key: "tags", Value: bson.A{"a", "b"}},
		{Key: "nested", Value: bson.D{{Key: "z", Value: "last"}, {Key: "a", Value: "first"}}},
	}
}

// testStoreContract exercises the behaviour every backend must share.
func testStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	collection := fmt.Sprintf("contract_%d", time.Now().UnixNano())

	t.Run("get missing", func(t *testing.T) {
		_, err := store.Get(ctx, collection, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete missing", func(t *testing.T) {
		err := store.Delete(ctx, collection, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put then get keeps key order", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, collection, "b", sampleDoc("Second")))

		doc, err := store.Get(ctx, collection, "b")
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "bookTitle", "genre", "quantity", "averageRating", "tags", "nested"}, Keys(doc))

		m := ToMap(doc)
		assert.Equal(t, "Second", m["bookTitle"])
		assert.EqualValues(t, 3, m["quantity"])
		assert.Equal(t, 4.5, m["averageRating"])
		assert.Equal(t, []interface{}{"a", "b"}, m["tags"])
		assert.Equal(t, map[string]interface{}{"z": "last", "a": "first"}, m["nested"])
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, collection, "b", sampleDoc("Replaced")))

		doc, err := store.Get(ctx, collection, "b")
		require.NoError(t, err)
		assert.Equal(t, "Replaced", ToMap(doc)["bookTitle"])
	})

	t.Run("list orders by key", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, collection, "a", sampleDoc("First")))
		require.NoError(t, store.Put(ctx, collection, "c", sampleDoc("Third")))

		entries, err := store.List(ctx, collection)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "a", entries[0].Key)
		assert.Equal(t, "b", entries[1].Key)
		assert.Equal(t, "c", entries[2].Key)
		assert.Equal(t, "Third", ToMap(entries[2].Doc)["bookTitle"])
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, collection, "a"))

		_, err := store.Get(ctx, collection, "a")
		assert.ErrorIs(t, err, ErrNotFound)

		entries, err := store.List(ctx, collection)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("empty collection", func(t *testing.T) {
		entries, err := store.List(ctx, collection+"_empty")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_CopiesDocuments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	doc := sampleDoc("Original")
	require.NoError(t, store.Put(ctx, "books", "k", doc))
	doc[1].Value = "Mutated"

	got, err := store.Get(ctx, "books", "k")
	require.NoError(t, err)
	assert.Equal(t, "Original", ToMap(got)["bookTitle"])
}

func TestGetID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "books", "6F9619FF-8B86-D011-B42D-00C04FC964FF", sampleDoc("legacy")))
	require.NoError(t, store.Put(ctx, "books", "0a1b2c3d-0000-0000-0000-000000000000", sampleDoc("current")))

	doc, key, err := GetID(ctx, store, "books", "6f9619ff-8b86-d011-b42d-00c04fc964ff")
	require.NoError(t, err)
	assert.Equal(t, "6F9619FF-8B86-D011-B42D-00C04FC964FF", key)
	assert.Equal(t, "legacy", ToMap(doc)["bookTitle"])

	doc, key, err = GetID(ctx, store, "books", "0A1B2C3D-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Equal(t, "0a1b2c3d-0000-0000-0000-000000000000", key)
	assert.Equal(t, "current", ToMap(doc)["bookTitle"])

	_, _, err = GetID(ctx, store, "books", "ffffffff-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := OpenPostgres(ctx, url)
	if err != nil {
		t.Skipf("could not connect to postgres: %v", err)
	}
	defer store.Close(context.Background())

	testStoreContract(t, store)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := OpenMongo(ctx, uri, "shelves_test")
	if err != nil {
		t.Skipf("could not connect to mongo: %v", err)
	}
	defer store.Close(context.Background())

	testStoreContract(t, store)
}

func TestDecode(t *testing.T) {
	var rec struct {
		ID       string   `bson:"id"`
		Title    string   `bson:"bookTitle"`
		Quantity int      `bson:"quantity"`
		Rating   float64  `bson:"averageRating"`
		Tags     []string `bson:"tags"`
		Nested   struct {
			A string `bson:"a"`
		} `bson:"nested"`
	}

	require.NoError(t, Decode(sampleDoc("Decoded"), &rec))
	assert.Equal(t, "b-1", rec.ID)
	assert.Equal(t, "Decoded", rec.Title)
	assert.Equal(t, 3, rec.Quantity)
	assert.Equal(t, 4.5, rec.Rating)
	assert.Equal(t, []string{"a", "b"}, rec.Tags)
	assert.Equal(t, "first", rec.Nested.A)
}
