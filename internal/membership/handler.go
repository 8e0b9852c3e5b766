// internal/membership/handler.go
package membership

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"shelvesadmin/internal/catalog"
	"shelvesadmin/internal/respond"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// MemberRoutes mounts the member endpoints on r.
func (h *Handler) MemberRoutes(r chi.Router) {
	r.Post("/", h.handleRegisterMember)
	r.Get("/", h.handleListMembers)
	r.Get("/{safeEmail}", h.handleGetMember)
}

// EventRoutes mounts the event endpoints on r.
func (h *Handler) EventRoutes(r chi.Router) {
	r.Post("/", h.handleCreateEvent)
	r.Get("/", h.handleListEvents)
	r.Get("/{id}", h.handleGetEvent)
	r.Post("/{id}/registrations", h.handleRegisterForEvent)
}

type memberRequest struct {
	FirstName        string          `json:"firstName"`
	LastName         string          `json:"lastName"`
	Email            string          `json:"email"`
	PhoneNumber      int64           `json:"phoneNumber"`
	SubscriptionPlan *string         `json:"subscriptionPlan"`
	Genre            []catalog.Genre `json:"genre"`
}

// eventRequest takes date and time as seconds since the Unix epoch, the
// same as the stored form.
type eventRequest struct {
	Name        string  `json:"name"`
	Host        string  `json:"host"`
	Date        float64 `json:"date"`
	Time        float64 `json:"time"`
	Address     string  `json:"address"`
	Duration    string  `json:"duration"`
	Description string  `json:"description"`
	Tickets     int     `json:"tickets"`
	ImageName   string  `json:"imageName"`
	Fees        int     `json:"fees"`
	Revenue     int     `json:"revenue"`
	Status      string  `json:"status"`
}

func (h *Handler) handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := respond.Decode(w, r, &req); err != nil {
		badBody(w, err)
		return
	}
	if req.Email == "" {
		respond.Message(w, http.StatusBadRequest, "email is required")
		return
	}

	m, err := h.service.RegisterMember(r.Context(), Member{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		PhoneNumber:      req.PhoneNumber,
		SubscriptionPlan: req.SubscriptionPlan,
		Genres:           req.Genre,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Document(w, http.StatusCreated, m.ToDocument())
}

func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	docs := make([]bson.D, len(members))
	for i, m := range members {
		docs[i] = m.ToDocument()
	}
	respond.Documents(w, http.StatusOK, docs)
}

func (h *Handler) handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetMember(r.Context(), chi.URLParam(r, "safeEmail"))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Document(w, http.StatusOK, m.ToDocument())
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := respond.Decode(w, r, &req); err != nil {
		badBody(w, err)
		return
	}

	e, err := h.service.CreateEvent(r.Context(), Event{
		Name:        req.Name,
		Host:        req.Host,
		Date:        fromEpochSeconds(req.Date),
		Time:        fromEpochSeconds(req.Time),
		Address:     req.Address,
		Duration:    req.Duration,
		Description: req.Description,
		Tickets:     req.Tickets,
		ImageName:   req.ImageName,
		Fees:        req.Fees,
		Revenue:     req.Revenue,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Document(w, http.StatusCreated, e.ToDocument())
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	docs := make([]bson.D, len(events))
	for i, e := range events {
		docs[i] = e.ToDocument()
	}
	respond.Documents(w, http.StatusOK, docs)
}

func (h *Handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Document(w, http.StatusOK, e.ToDocument())
}

func (h *Handler) handleRegisterForEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := respond.Decode(w, r, &req); err != nil {
		badBody(w, err)
		return
	}
	if req.Email == "" {
		respond.Message(w, http.StatusBadRequest, "email is required")
		return
	}

	safeEmail := Member{Email: req.Email}.SafeEmail()
	e, err := h.service.RegisterForEvent(r.Context(), chi.URLParam(r, "id"), safeEmail)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Document(w, http.StatusCreated, e.ToDocument())
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMemberExists), errors.Is(err, ErrAlreadyRegistered):
		respond.Message(w, http.StatusConflict, err.Error())
	default:
		respond.Error(w, err)
	}
}

func badBody(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrUnknownGenre) {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	respond.Message(w, http.StatusBadRequest, "invalid request body: "+err.Error())
}
