// internal/membership/domain.go
package membership

import (
	"strings"
	"time"

	"shelvesadmin/internal/catalog"
	"shelvesadmin/internal/idgen"
)

// Member represents a library member. Members carry no identifier of their
// own; SafeEmail is used wherever a key is needed.
//
// A nil Genres or RegisteredEvents slice means the field was never set. A
// non-nil empty slice is set and empty, and is kept in the stored form.
type Member struct {
	FirstName        string
	LastName         string
	Email            string
	PhoneNumber      int64
	SubscriptionPlan *string
	Genres           []catalog.Genre
	RegisteredEvents []Event
}

// SafeEmail derives a storage key from the email address: every "." and
// then every "@" becomes "-".
func (m Member) SafeEmail() string {
	safe := strings.ReplaceAll(m.Email, ".", "-")
	return strings.ReplaceAll(safe, "@", "-")
}

// Snapshot returns a deep copy of m that shares no slices with it.
func (m Member) Snapshot() Member {
	out := m
	if m.SubscriptionPlan != nil {
		plan := *m.SubscriptionPlan
		out.SubscriptionPlan = &plan
	}
	if m.Genres != nil {
		out.Genres = append(make([]catalog.Genre, 0, len(m.Genres)), m.Genres...)
	}
	if m.RegisteredEvents != nil {
		out.RegisteredEvents = make([]Event, len(m.RegisteredEvents))
		for i, e := range m.RegisteredEvents {
			out.RegisteredEvents[i] = e.Snapshot()
		}
	}
	return out
}

// flat is a snapshot with the member's own event list dropped, for
// embedding in an event.
func (m Member) flat() Member {
	out := m.Snapshot()
	out.RegisteredEvents = nil
	return out
}

// Event is a library event. It holds copies of the members registered for
// it, not references to them.
//
// Nothing stops a caller from building snapshots that lead back to
// themselves through shared slices. ToDocument and Snapshot follow whatever
// they are given and will not terminate on such a cycle.
type Event struct {
	ID                string
	Name              string
	Host              string
	Date              time.Time
	Time              time.Time
	Address           string
	Duration          string
	Description       string
	RegisteredMembers []Member
	Tickets           int
	ImageName         string
	Fees              int
	Revenue           int
	Status            string
}

// NewEvent stamps a fresh identifier onto draft.
func NewEvent(gen idgen.Generator, draft Event) Event {
	draft.ID = gen.NewID().String()
	return draft
}

// Snapshot returns a deep copy of e that shares no slices with it.
func (e Event) Snapshot() Event {
	out := e
	if e.RegisteredMembers != nil {
		out.RegisteredMembers = make([]Member, len(e.RegisteredMembers))
		for i, m := range e.RegisteredMembers {
			out.RegisteredMembers[i] = m.Snapshot()
		}
	}
	return out
}

func (m Member) hasEvent(id string) bool {
	for _, e := range m.RegisteredEvents {
		if e.ID == id {
			return true
		}
	}
	return false
}

// flat is a snapshot with the event's member list dropped, for embedding
// in a member.
func (e Event) flat() Event {
	out := e.Snapshot()
	out.RegisteredMembers = nil
	return out
}

// IsRegistered reports whether a member with the given safe email is among
// the event's registered members.
func (e Event) IsRegistered(safeEmail string) bool {
	for _, m := range e.RegisteredMembers {
		if m.SafeEmail() == safeEmail {
			return true
		}
	}
	return false
}
