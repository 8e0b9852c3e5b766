// internal/notification/service.go
package notification

import (
	"context"
	"fmt"
	"log"

	"shelvesadmin/internal/docstore"
	"shelvesadmin/internal/idgen"
)

// Collection holds notifications keyed by identifier.
const Collection = "notifications"

type Service interface {
	Publish(ctx context.Context, title, message string) (Notification, error)
	List(ctx context.Context) ([]Notification, error)
}

type service struct {
	store docstore.Store
	ids   idgen.Generator
}

func NewService(store docstore.Store, ids idgen.Generator) Service {
	return &service{store: store, ids: ids}
}

func (s *service) Publish(ctx context.Context, title, message string) (Notification, error) {
	n := NewNotification(s.ids, title, message)
	if err := s.store.Put(ctx, Collection, n.ID().String(), n.ToDocument()); err != nil {
		return Notification{}, fmt.Errorf("failed to store notification %s: %w", n.ID(), err)
	}
	log.Printf("notification: published id=%s title=%q", n.ID(), n.Title)
	return n, nil
}

// List returns notifications ordered by identifier. With a time-ordered
// generator that is the order they were published in.
func (s *service) List(ctx context.Context) ([]Notification, error) {
	entries, err := s.store.List(ctx, Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]Notification, 0, len(entries))
	for _, e := range entries {
		n, err := Decode(e.Key, e.Doc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode notification %s: %w", e.Key, err)
		}
		out = append(out, n)
	}
	return out, nil
}
