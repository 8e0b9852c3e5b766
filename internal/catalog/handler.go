// internal/catalog/handler.go
package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"shelvesadmin/internal/respond"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the book endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.handleAddBook)
	r.Get("/", h.handleListBooks)
	r.Get("/{id}", h.handleGetBook)
	r.Put("/{id}", h.handleUpdateBook)
	r.Delete("/{id}", h.handleRemoveBook)
}

// bookRequest uses the stored key names so clients send what they read back.
type bookRequest struct {
	BookCode      string   `json:"bookCode"`
	BookCover     string   `json:"bookCover"`
	BookTitle     string   `json:"bookTitle"`
	Author        string   `json:"author"`
	Genre         Genre    `json:"genre"`
	IssuedDate    string   `json:"issuedDate"`
	ReturnDate    string   `json:"returnDate"`
	Status        string   `json:"status"`
	Quantity      *int     `json:"quantity"`
	Description   *string  `json:"description"`
	Publisher     *string  `json:"publisher"`
	PublishedDate *string  `json:"publishedDate"`
	PageCount     *int     `json:"pageCount"`
	AverageRating *float64 `json:"averageRating"`
}

func (req bookRequest) draft() Book {
	return Book{
		BookCode:      req.BookCode,
		BookCover:     req.BookCover,
		BookTitle:     req.BookTitle,
		Author:        req.Author,
		Genre:         req.Genre,
		IssuedDate:    req.IssuedDate,
		ReturnDate:    req.ReturnDate,
		Status:        req.Status,
		Quantity:      req.Quantity,
		Description:   req.Description,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		AverageRating: req.AverageRating,
	}
}

func (h *Handler) handleAddBook(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeBook(w, r)
	if !ok {
		return
	}

	book, err := h.service.AddBook(r.Context(), draft)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Document(w, http.StatusCreated, book.ToDocument())
}

func (h *Handler) handleListBooks(w http.ResponseWriter, r *http.Request) {
	var filter *Genre
	if label := r.URL.Query().Get("genre"); label != "" {
		genre, err := ParseGenre(label)
		if err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}
		filter = &genre
	}

	books, err := h.service.ListBooks(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	docs := make([]bson.D, len(books))
	for i, b := range books {
		docs[i] = b.ToDocument()
	}
	respond.Documents(w, http.StatusOK, docs)
}

func (h *Handler) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	book, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Document(w, http.StatusOK, book.ToDocument())
}

func (h *Handler) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	draft, ok := decodeBook(w, r)
	if !ok {
		return
	}

	book, err := h.service.UpdateBook(r.Context(), id, draft)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Document(w, http.StatusOK, book.ToDocument())
}

func (h *Handler) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveBook(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func bookID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid book ID")
		return uuid.Nil, false
	}
	return id, true
}

func decodeBook(w http.ResponseWriter, r *http.Request) (Book, bool) {
	var req bookRequest
	if err := respond.Decode(w, r, &req); err != nil {
		if errors.Is(err, ErrUnknownGenre) {
			respond.Message(w, http.StatusBadRequest, err.Error())
		} else {
			respond.Message(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		}
		return Book{}, false
	}
	if !req.Genre.Valid() {
		respond.Message(w, http.StatusBadRequest, "genre is required")
		return Book{}, false
	}
	return req.draft(), true
}
