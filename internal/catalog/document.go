// internal/catalog/document.go
package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"shelvesadmin/internal/docstore"
)

// ToDocument lays the book out in its stored form. Unset optionals are
// written as zero values, never left out.
func (b Book) ToDocument() bson.D {
	return bson.D{
		{Key: "id", Value: b.id.String()},
		{Key: "bookCode", Value: b.BookCode},
		{Key: "bookCover", Value: b.BookCover},
		{Key: "bookTitle", Value: b.BookTitle},
		{Key: "author", Value: b.Author},
		{Key: "genre", Value: b.Genre.String()},
		{Key: "issuedDate", Value: b.IssuedDate},
		{Key: "returnDate", Value: b.ReturnDate},
		{Key: "status", Value: b.Status},
		{Key: "quantity", Value: intOr(b.Quantity)},
		{Key: "description", Value: stringOr(b.Description)},
		{Key: "publisher", Value: stringOr(b.Publisher)},
		{Key: "publishedDate", Value: stringOr(b.PublishedDate)},
		{Key: "pageCount", Value: intOr(b.PageCount)},
		{Key: "averageRating", Value: floatOr(b.AverageRating)},
	}
}

// ToMap is the loosely typed form of ToDocument.
func (b Book) ToMap() map[string]interface{} {
	return docstore.ToMap(b.ToDocument())
}

type bookRecord struct {
	ID            string  `bson:"id"`
	BookCode      string  `bson:"bookCode"`
	BookCover     string  `bson:"bookCover"`
	BookTitle     string  `bson:"bookTitle"`
	Author        string  `bson:"author"`
	Genre         string  `bson:"genre"`
	IssuedDate    string  `bson:"issuedDate"`
	ReturnDate    string  `bson:"returnDate"`
	Status        string  `bson:"status"`
	Quantity      int     `bson:"quantity"`
	Description   string  `bson:"description"`
	Publisher     string  `bson:"publisher"`
	PublishedDate string  `bson:"publishedDate"`
	PageCount     int     `bson:"pageCount"`
	AverageRating float64 `bson:"averageRating"`
}

// DecodeBook rebuilds a book from its stored form. Optionals come back set,
// holding the defaults they were written with.
func DecodeBook(doc bson.D) (Book, error) {
	var rec bookRecord
	if err := docstore.Decode(doc, &rec); err != nil {
		return Book{}, err
	}
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return Book{}, fmt.Errorf("book id %q: %w", rec.ID, err)
	}
	genre, err := ParseGenre(rec.Genre)
	if err != nil {
		return Book{}, fmt.Errorf("book %s: %w", id, err)
	}

	return Book{
		id:            id,
		BookCode:      rec.BookCode,
		BookCover:     rec.BookCover,
		BookTitle:     rec.BookTitle,
		Author:        rec.Author,
		Genre:         genre,
		IssuedDate:    rec.IssuedDate,
		ReturnDate:    rec.ReturnDate,
		Status:        rec.Status,
		Quantity:      &rec.Quantity,
		Description:   &rec.Description,
		Publisher:     &rec.Publisher,
		PublishedDate: &rec.PublishedDate,
		PageCount:     &rec.PageCount,
		AverageRating: &rec.AverageRating,
	}, nil
}

func intOr(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func stringOr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatOr(p *float64) float64 {
	if p == nil {
		return 0.0
	}
	return *p
}
