// internal/httpapi/router.go
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"shelvesadmin/internal/catalog"
	"shelvesadmin/internal/docstore"
	"shelvesadmin/internal/idgen"
	"shelvesadmin/internal/membership"
	"shelvesadmin/internal/notification"
	"shelvesadmin/internal/respond"
)

// NewRouter wires the admin services over store and returns the HTTP
// handler serving them.
func NewRouter(store docstore.Store, ids idgen.Generator) http.Handler {
	books := catalog.NewHandler(catalog.NewService(store, ids))
	members := membership.NewHandler(membership.NewService(store, ids))
	notifications := notification.NewHandler(notification.NewService(store, ids))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)

	r.Get("/health", handleHealth)
	r.Get("/genres", handleGenres)

	r.Route("/books", books.Routes)
	r.Route("/members", members.MemberRoutes)
	r.Route("/events", members.EventRoutes)
	r.Route("/notifications", notifications.Routes)

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleGenres(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, catalog.Genres())
}
