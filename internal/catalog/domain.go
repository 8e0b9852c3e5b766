// internal/catalog/domain.go
package catalog

import (
	"github.com/google/uuid"

	"shelvesadmin/internal/idgen"
)

// Book is a catalogue entry. Dates and status are free text as entered by
// staff. Pointer fields are optional.
type Book struct {
	id uuid.UUID

	BookCode   string
	BookCover  string
	BookTitle  string
	Author     string
	Genre      Genre
	IssuedDate string
	ReturnDate string
	Status     string

	Quantity      *int
	Description   *string
	Publisher     *string
	PublishedDate *string
	PageCount     *int
	AverageRating *float64
}

// NewBook stamps a fresh identifier onto draft.
func NewBook(gen idgen.Generator, draft Book) Book {
	draft.id = gen.NewID()
	return draft
}

// ID returns the book's identifier. It cannot be changed after creation.
func (b Book) ID() uuid.UUID {
	return b.id
}

// Equal reports whether b and other are the same catalogue entry. Only the
// identifier is compared.
func (b Book) Equal(other Book) bool {
	return b.id == other.id
}

// Dedupe returns books with repeated identifiers removed, keeping the first
// occurrence of each.
func Dedupe(books []Book) []Book {
	seen := make(map[uuid.UUID]struct{}, len(books))
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if _, ok := seen[b.id]; ok {
			continue
		}
		seen[b.id] = struct{}{}
		out = append(out, b)
	}
	return out
}

// Author describes a featured writer. It has no setters.
type Author struct {
	id          uuid.UUID
	name        string
	title       string
	description string
	image       string
}

func NewAuthor(gen idgen.Generator, name, title, description, image string) Author {
	return Author{
		id:          gen.NewID(),
		name:        name,
		title:       title,
		description: description,
		image:       image,
	}
}

func (a Author) ID() uuid.UUID       { return a.id }
func (a Author) Name() string        { return a.name }
func (a Author) Title() string       { return a.title }
func (a Author) Description() string { return a.description }
func (a Author) Image() string       { return a.image }
