// internal/membership/document.go
package membership

import (
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"shelvesadmin/internal/catalog"
	"shelvesadmin/internal/docstore"
)

// ToDocument lays the member out in its stored form. The four contact keys
// are always present; the rest appear only when set.
func (m Member) ToDocument() bson.D {
	doc := bson.D{
		{Key: "firstName", Value: m.FirstName},
		{Key: "lastName", Value: m.LastName},
		{Key: "email", Value: m.Email},
		{Key: "phoneNumber", Value: m.PhoneNumber},
	}
	if m.SubscriptionPlan != nil {
		doc = append(doc, bson.E{Key: "subscriptionPlan", Value: *m.SubscriptionPlan})
	}
	if m.Genres != nil {
		labels := make(bson.A, len(m.Genres))
		for i, g := range m.Genres {
			labels[i] = g.String()
		}
		doc = append(doc, bson.E{Key: "genre", Value: labels})
	}
	if m.RegisteredEvents != nil {
		events := make(bson.A, len(m.RegisteredEvents))
		for i, e := range m.RegisteredEvents {
			events[i] = e.ToDocument()
		}
		doc = append(doc, bson.E{Key: "registeredEvents", Value: events})
	}
	return doc
}

func (m Member) ToMap() map[string]interface{} {
	return docstore.ToMap(m.ToDocument())
}

// ToDocument lays the event out in its stored form. Date and time become
// seconds since the Unix epoch.
func (e Event) ToDocument() bson.D {
	members := make(bson.A, len(e.RegisteredMembers))
	for i, m := range e.RegisteredMembers {
		members[i] = m.ToDocument()
	}
	return bson.D{
		{Key: "id", Value: e.ID},
		{Key: "name", Value: e.Name},
		{Key: "host", Value: e.Host},
		{Key: "date", Value: epochSeconds(e.Date)},
		{Key: "time", Value: epochSeconds(e.Time)},
		{Key: "address", Value: e.Address},
		{Key: "duration", Value: e.Duration},
		{Key: "description", Value: e.Description},
		{Key: "registeredMembers", Value: members},
		{Key: "tickets", Value: e.Tickets},
		{Key: "imageName", Value: e.ImageName},
		{Key: "fees", Value: e.Fees},
		{Key: "revenue", Value: e.Revenue},
		{Key: "status", Value: e.Status},
	}
}

func (e Event) ToMap() map[string]interface{} {
	return docstore.ToMap(e.ToDocument())
}

type memberRecord struct {
	FirstName        string   `bson:"firstName"`
	LastName         string   `bson:"lastName"`
	Email            string   `bson:"email"`
	PhoneNumber      int64    `bson:"phoneNumber"`
	SubscriptionPlan *string  `bson:"subscriptionPlan"`
	Genre            []string `bson:"genre"`
	RegisteredEvents []bson.D `bson:"registeredEvents"`
}

type eventRecord struct {
	ID                string   `bson:"id"`
	Name              string   `bson:"name"`
	Host              string   `bson:"host"`
	Date              float64  `bson:"date"`
	Time              float64  `bson:"time"`
	Address           string   `bson:"address"`
	Duration          string   `bson:"duration"`
	Description       string   `bson:"description"`
	RegisteredMembers []bson.D `bson:"registeredMembers"`
	Tickets           int      `bson:"tickets"`
	ImageName         string   `bson:"imageName"`
	Fees              int      `bson:"fees"`
	Revenue           int      `bson:"revenue"`
	Status            string   `bson:"status"`
}

// DecodeMember rebuilds a member from its stored form. Optional keys that
// are present come back set, even when their list is empty.
func DecodeMember(doc bson.D) (Member, error) {
	var rec memberRecord
	if err := docstore.Decode(doc, &rec); err != nil {
		return Member{}, err
	}

	m := Member{
		FirstName:        rec.FirstName,
		LastName:         rec.LastName,
		Email:            rec.Email,
		PhoneNumber:      rec.PhoneNumber,
		SubscriptionPlan: rec.SubscriptionPlan,
	}
	if has(doc, "genre") {
		m.Genres = make([]catalog.Genre, 0, len(rec.Genre))
		for _, label := range rec.Genre {
			g, err := catalog.ParseGenre(label)
			if err != nil {
				return Member{}, fmt.Errorf("member %s: %w", m.SafeEmail(), err)
			}
			m.Genres = append(m.Genres, g)
		}
	}
	if has(doc, "registeredEvents") {
		m.RegisteredEvents = make([]Event, 0, len(rec.RegisteredEvents))
		for _, sub := range rec.RegisteredEvents {
			e, err := DecodeEvent(sub)
			if err != nil {
				return Member{}, fmt.Errorf("member %s: %w", m.SafeEmail(), err)
			}
			m.RegisteredEvents = append(m.RegisteredEvents, e)
		}
	}
	return m, nil
}

// DecodeEvent rebuilds an event from its stored form.
func DecodeEvent(doc bson.D) (Event, error) {
	var rec eventRecord
	if err := docstore.Decode(doc, &rec); err != nil {
		return Event{}, err
	}

	e := Event{
		ID:                rec.ID,
		Name:              rec.Name,
		Host:              rec.Host,
		Date:              fromEpochSeconds(rec.Date),
		Time:              fromEpochSeconds(rec.Time),
		Address:           rec.Address,
		Duration:          rec.Duration,
		Description:       rec.Description,
		RegisteredMembers: make([]Member, 0, len(rec.RegisteredMembers)),
		Tickets:           rec.Tickets,
		ImageName:         rec.ImageName,
		Fees:              rec.Fees,
		Revenue:           rec.Revenue,
		Status:            rec.Status,
	}
	for _, sub := range rec.RegisteredMembers {
		m, err := DecodeMember(sub)
		if err != nil {
			return Event{}, fmt.Errorf("event %s: %w", e.ID, err)
		}
		e.RegisteredMembers = append(e.RegisteredMembers, m)
	}
	return e, nil
}

func epochSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

func fromEpochSeconds(s float64) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(math.Round(frac*float64(time.Second)))).UTC()
}

func has(doc bson.D, key string) bool {
	for _, e := range doc {
		if e.Key == key {
			return true
		}
	}
	return false
}
