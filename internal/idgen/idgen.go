// internal/idgen/idgen.go
package idgen

import (
	"encoding/binary"
	"sync"

	"github.com/google/uuid"
)

// Generator hands out identifiers for newly created records.
type Generator interface {
	NewID() uuid.UUID
}

// Random generates version 4 UUIDs.
type Random struct{}

// NewID returns a fresh random UUID.
func (Random) NewID() uuid.UUID {
	return uuid.New()
}

// TimeOrdered generates version 7 UUIDs. Their string forms sort in
// creation order, so stores listing by key list records oldest first.
type TimeOrdered struct{}

func (TimeOrdered) NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// Func adapts a plain function to a Generator.
type Func func() uuid.UUID

func (f Func) NewID() uuid.UUID {
	return f()
}

// Sequence yields 00000000-0000-0000-0000-000000000001, ...0002 and so on.
// It is safe for concurrent use.
type Sequence struct {
	mu   sync.Mutex
	next uint64
}

// NewSequence returns a Sequence whose first identifier ends in start.
func NewSequence(start uint64) *Sequence {
	return &Sequence{next: start}
}

func (s *Sequence) NewID() uuid.UUID {
	s.mu.Lock()
	n := s.next
	s.next++
	s.mu.Unlock()

	var id uuid.UUID
	binary.BigEndian.PutUint64(id[8:], n)
	return id
}
