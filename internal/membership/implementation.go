// internal/membership/implementation.go
package membership

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"shelvesadmin/internal/docstore"
	"shelvesadmin/internal/idgen"
)

const (
	MembersCollection = "members"
	EventsCollection  = "events"
)

// service implements the Service interface. mu serialises read-modify-write
// operations within one process.
type service struct {
	mu    sync.Mutex
	store docstore.Store
	ids   idgen.Generator
}

// NewService creates a new membership service instance.
func NewService(store docstore.Store, ids idgen.Generator) Service {
	return &service{
		store: store,
		ids:   ids,
	}
}

// RegisterMember stores a new member under its safe email.
func (s *service) RegisterMember(ctx context.Context, m Member) (Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := m.SafeEmail()
	_, err := s.store.Get(ctx, MembersCollection, key)
	switch {
	case err == nil:
		return Member{}, fmt.Errorf("%w: %s", ErrMemberExists, key)
	case !errors.Is(err, docstore.ErrNotFound):
		return Member{}, fmt.Errorf("failed to look up member %s: %w", key, err)
	}

	if err := s.saveMember(ctx, m); err != nil {
		return Member{}, err
	}
	log.Printf("membership: registered member key=%s", key)
	return m, nil
}

func (s *service) GetMember(ctx context.Context, safeEmail string) (Member, error) {
	doc, err := s.store.Get(ctx, MembersCollection, safeEmail)
	if err != nil {
		return Member{}, fmt.Errorf("failed to get member %s: %w", safeEmail, err)
	}
	m, err := DecodeMember(doc)
	if err != nil {
		return Member{}, fmt.Errorf("failed to decode member %s: %w", safeEmail, err)
	}
	return m, nil
}

func (s *service) ListMembers(ctx context.Context) ([]Member, error) {
	entries, err := s.store.List(ctx, MembersCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := make([]Member, 0, len(entries))
	for _, e := range entries {
		m, err := DecodeMember(e.Doc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode member %s: %w", e.Key, err)
		}
		members = append(members, m)
	}
	return members, nil
}

// CreateEvent stamps an identifier onto draft and stores it.
func (s *service) CreateEvent(ctx context.Context, draft Event) (Event, error) {
	e := NewEvent(s.ids, draft)
	if err := s.saveEvent(ctx, e); err != nil {
		return Event{}, err
	}
	log.Printf("membership: created event id=%s name=%q", e.ID, e.Name)
	return e, nil
}

func (s *service) GetEvent(ctx context.Context, id string) (Event, error) {
	doc, _, err := docstore.GetID(ctx, s.store, EventsCollection, id)
	if err != nil {
		return Event{}, fmt.Errorf("failed to get event %s: %w", id, err)
	}
	e, err := DecodeEvent(doc)
	if err != nil {
		return Event{}, fmt.Errorf("failed to decode event %s: %w", id, err)
	}
	return e, nil
}

func (s *service) ListEvents(ctx context.Context) ([]Event, error) {
	entries, err := s.store.List(ctx, EventsCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]Event, 0, len(entries))
	for _, e := range entries {
		ev, err := DecodeEvent(e.Doc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode event %s: %w", e.Key, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// RegisterForEvent embeds flat copies in both directions so stored
// documents do not grow with every registration. The event is saved
// before the member; if the member cannot be saved the event is put back.
// A registration recorded on only one side is completed rather than
// reported as a duplicate.
func (s *service) RegisterForEvent(ctx context.Context, eventID, safeEmail string) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return Event{}, err
	}
	member, err := s.GetMember(ctx, safeEmail)
	if err != nil {
		return Event{}, err
	}

	onEvent := event.IsRegistered(safeEmail)
	onMember := member.hasEvent(event.ID)
	if onEvent && onMember {
		return Event{}, fmt.Errorf("%w: %s in %s", ErrAlreadyRegistered, safeEmail, eventID)
	}

	original := event.Snapshot()
	if !onEvent {
		event.RegisteredMembers = append(event.RegisteredMembers, member.flat())
		if err := s.saveEvent(ctx, event); err != nil {
			return Event{}, err
		}
	}
	if !onMember {
		member.RegisteredEvents = append(member.RegisteredEvents, event.flat())
		if err := s.saveMember(ctx, member); err != nil {
			if !onEvent {
				if rerr := s.saveEvent(ctx, original); rerr != nil {
					log.Printf("membership: restore event %s after failed registration: %v", eventID, rerr)
				}
			}
			return Event{}, err
		}
	}
	log.Printf("membership: registered member=%s event=%s", safeEmail, eventID)
	return event, nil
}

func (s *service) saveMember(ctx context.Context, m Member) error {
	key := m.SafeEmail()
	if err := s.store.Put(ctx, MembersCollection, key, m.ToDocument()); err != nil {
		return fmt.Errorf("failed to store member %s: %w", key, err)
	}
	return nil
}

func (s *service) saveEvent(ctx context.Context, e Event) error {
	if err := s.store.Put(ctx, EventsCollection, e.ID, e.ToDocument()); err != nil {
		return fmt.Errorf("failed to store event %s: %w", e.ID, err)
	}
	return nil
}
