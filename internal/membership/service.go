// internal/membership/service.go
package membership

import (
	"context"
	"errors"
)

var (
	ErrMemberExists      = errors.New("member already exists")
	ErrAlreadyRegistered = errors.New("member already registered for event")
)

// Service defines the interface for the membership service. Members are
// addressed by their safe email.
type Service interface {
	RegisterMember(ctx context.Context, m Member) (Member, error)
	GetMember(ctx context.Context, safeEmail string) (Member, error)
	ListMembers(ctx context.Context) ([]Member, error)

	CreateEvent(ctx context.Context, draft Event) (Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	// RegisterForEvent records the member against the event and the event
	// against the member. Ticket counts are left to the caller.
	RegisterForEvent(ctx context.Context, eventID, safeEmail string) (Event, error)
}
