// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"shelvesadmin/internal/docstore"
	"shelvesadmin/internal/idgen"
)

// Collection is the store collection books are kept in, keyed by id.
const Collection = "books"

// service implements the Service interface.
type service struct {
	store docstore.Store
	ids   idgen.Generator
}

// NewService creates a new catalog service instance.
func NewService(store docstore.Store, ids idgen.Generator) Service {
	return &service{
		store: store,
		ids:   ids,
	}
}

// AddBook stamps an identifier onto draft and stores it.
func (s *service) AddBook(ctx context.Context, draft Book) (Book, error) {
	book := NewBook(s.ids, draft)
	if err := s.save(ctx, book); err != nil {
		return Book{}, err
	}
	log.Printf("catalog: added book id=%s title=%q", book.ID(), book.BookTitle)
	return book, nil
}

func (s *service) GetBook(ctx context.Context, id uuid.UUID) (Book, error) {
	book, _, err := s.lookup(ctx, id)
	return book, err
}

// UpdateBook replaces the stored book, keeping the key it was found under.
func (s *service) UpdateBook(ctx context.Context, id uuid.UUID, draft Book) (Book, error) {
	_, key, err := s.lookup(ctx, id)
	if err != nil {
		return Book{}, err
	}

	draft.id = id
	if err := s.store.Put(ctx, Collection, key, draft.ToDocument()); err != nil {
		return Book{}, fmt.Errorf("failed to store book %s: %w", id, err)
	}
	return draft, nil
}

func (s *service) RemoveBook(ctx context.Context, id uuid.UUID) error {
	_, key, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, Collection, key); err != nil {
		return fmt.Errorf("failed to remove book %s: %w", id, err)
	}
	log.Printf("catalog: removed book id=%s", id)
	return nil
}

func (s *service) ListBooks(ctx context.Context, genre *Genre) ([]Book, error) {
	entries, err := s.store.List(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	books := make([]Book, 0, len(entries))
	for _, e := range entries {
		book, err := DecodeBook(e.Doc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode book %s: %w", e.Key, err)
		}
		if genre != nil && book.Genre != *genre {
			continue
		}
		books = append(books, book)
	}
	return Dedupe(books), nil
}

func (s *service) lookup(ctx context.Context, id uuid.UUID) (Book, string, error) {
	doc, key, err := docstore.GetID(ctx, s.store, Collection, id.String())
	if err != nil {
		return Book{}, "", fmt.Errorf("failed to get book %s: %w", id, err)
	}
	book, err := DecodeBook(doc)
	if err != nil {
		return Book{}, "", fmt.Errorf("failed to decode book %s: %w", id, err)
	}
	return book, key, nil
}

func (s *service) save(ctx context.Context, book Book) error {
	if err := s.store.Put(ctx, Collection, book.ID().String(), book.ToDocument()); err != nil {
		return fmt.Errorf("failed to store book %s: %w", book.ID(), err)
	}
	return nil
}
