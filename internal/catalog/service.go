// internal/catalog/service.go
package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the catalog service.
type Service interface {
	AddBook(ctx context.Context, draft Book) (Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (Book, error)
	// UpdateBook replaces every field of an existing book except its
	// identifier.
	UpdateBook(ctx context.Context, id uuid.UUID, draft Book) (Book, error)
	RemoveBook(ctx context.Context, id uuid.UUID) error
	// ListBooks returns all books, or only those of genre when it is non-nil.
	ListBooks(ctx context.Context, genre *Genre) ([]Book, error)
}
