// internal/notification/handler.go
package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"shelvesadmin/internal/respond"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.handlePublish)
	r.Get("/", h.handleList)
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	n, err := h.service.Publish(r.Context(), req.Title, req.Message)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Document(w, http.StatusCreated, n.ToDocument())
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	docs := make([]bson.D, len(notifications))
	for i, n := range notifications {
		docs[i] = n.ToDocument()
	}
	respond.Documents(w, http.StatusOK, docs)
}
