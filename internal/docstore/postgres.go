// internal/docstore/postgres.go
package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Schema creates the documents table. The body column is json, not jsonb:
// jsonb does not keep key order.
const Schema = `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		key TEXT NOT NULL,
		body JSON NOT NULL,
		version INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (collection, key)
	)
`

// PostgresStore keeps documents as relaxed Extended JSON in PostgreSQL.
type PostgresStore struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

type documentRow struct {
	Key  string `db:"key"`
	Body string `db:"body"`
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:     sqlx.NewDb(db, "postgres"),
		tracer: otel.Tracer("shelvesadmin/docstore/postgres"),
	}
}

// OpenPostgres opens the database at url, checks the connection and
// creates the schema when missing.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return NewPostgresStore(db), nil
}

// Put upserts the document and bumps its version.
func (s *PostgresStore) Put(ctx context.Context, collection, key string, doc bson.D) error {
	ctx, span := s.tracer.Start(ctx, "docstore.put", s.attrs(collection, key))
	defer span.End()

	body, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	var version int
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO documents (collection, key, body)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, key) DO UPDATE
		SET body = EXCLUDED.body,
		    version = documents.version + 1,
		    updated_at = NOW()
		RETURNING version
	`, collection, key, string(body)).Scan(&version)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, key, err)
	}

	span.SetAttributes(attribute.Int("document.version", version))
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, key string) (bson.D, error) {
	ctx, span := s.tracer.Start(ctx, "docstore.get", s.attrs(collection, key))
	defer span.End()

	var row documentRow
	err := s.db.GetContext(ctx, &row, `
		SELECT key, body
		FROM documents
		WHERE collection = $1 AND key = $2
	`, collection, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}

	return decodeExtJSON(row.Body)
}

func (s *PostgresStore) Delete(ctx context.Context, collection, key string) error {
	ctx, span := s.tracer.Start(ctx, "docstore.delete", s.attrs(collection, key))
	defer span.End()

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM documents
		WHERE collection = $1 AND key = $2
	`, collection, key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, key, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, collection string) ([]Entry, error) {
	ctx, span := s.tracer.Start(ctx, "docstore.list",
		trace.WithAttributes(attribute.String("document.collection", collection)),
	)
	defer span.End()

	// COLLATE "C" orders keys bytewise, the same as the other backends.
	var rows []documentRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT key, body
		FROM documents
		WHERE collection = $1
		ORDER BY key COLLATE "C" ASC
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeExtJSON(row.Body)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", collection, row.Key, err)
		}
		entries = append(entries, Entry{Key: row.Key, Doc: doc})
	}

	span.SetAttributes(attribute.Int("documents.listed", len(entries)))
	return entries, nil
}

func (s *PostgresStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *PostgresStore) attrs(collection, key string) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("document.collection", collection),
		attribute.String("document.key", key),
	)
}

func decodeExtJSON(body string) (bson.D, error) {
	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(body), false, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
