// internal/docstore/mongo.go
package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MongoStore maps each collection to a MongoDB collection and each key to
// the document's _id. The _id field is stripped on reads.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	tracer trace.Tracer
}

// OpenMongo connects to uri and pings the primary.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoStore(client, database), nil
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client: client,
		db:     client.Database(database),
		tracer: otel.Tracer("shelvesadmin/docstore/mongo"),
	}
}

func (s *MongoStore) Put(ctx context.Context, collection, key string, doc bson.D) error {
	ctx, span := s.tracer.Start(ctx, "docstore.put", s.attrs(collection, key))
	defer span.End()

	_, err := s.db.Collection(collection).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: key}},
		without(doc, "_id"),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, collection, key string) (bson.D, error) {
	ctx, span := s.tracer.Start(ctx, "docstore.get", s.attrs(collection, key))
	defer span.End()

	var doc bson.D
	err := s.db.Collection(collection).FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return without(doc, "_id"), nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, key string) error {
	ctx, span := s.tracer.Start(ctx, "docstore.delete", s.attrs(collection, key))
	defer span.End()

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.D{{Key: "_id", Value: key}})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s/%s: %w", collection, key, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, collection string) ([]Entry, error) {
	ctx, span := s.tracer.Start(ctx, "docstore.list",
		trace.WithAttributes(attribute.String("document.collection", collection)),
	)
	defer span.End()

	cur, err := s.db.Collection(collection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var entries []Entry
	for cur.Next(ctx) {
		var doc bson.D
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		key, _ := cur.Current.Lookup("_id").StringValueOK()
		entries = append(entries, Entry{Key: key, Doc: without(doc, "_id")})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	span.SetAttributes(attribute.Int("documents.listed", len(entries)))
	return entries, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) attrs(collection, key string) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("document.collection", collection),
		attribute.String("document.key", key),
	)
}
