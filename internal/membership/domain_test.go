// internal/membership/domain_test.go
package membership

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"pgregory.net/rapid"

	"shelvesadmin/internal/catalog"
	"shelvesadmin/internal/docstore"
	"shelvesadmin/internal/idgen"
)

func strPtr(s string) *string { return &s }

func jane() Member {
	return Member{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "Jane.Doe@Example.com",
		PhoneNumber: 5551234567,
	}
}

func TestMember_SafeEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"Jane.Doe@Example.com", "Jane-Doe-Example-com"},
		{"a@b", "a-b"},
		{"no-specials", "no-specials"},
		{"..@@", "----"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Member{Email: tt.email}.SafeEmail(), tt.email)
	}
}

func TestMember_SafeEmailProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		email := rapid.StringMatching(`[a-zA-Z0-9.@_+-]{0,40}`).Draw(t, "email")
		safe := Member{Email: email}.SafeEmail()

		if strings.ContainsAny(safe, ".@") {
			t.Fatalf("%q still contains . or @", safe)
		}
		if len(safe) != len(email) {
			t.Fatalf("length changed: %q -> %q", email, safe)
		}
		want := strings.Map(func(r rune) rune {
			if r == '.' || r == '@' {
				return '-'
			}
			return r
		}, email)
		if safe != want {
			t.Fatalf("got %q, want %q", safe, want)
		}
	})
}

func TestMember_ToDocumentMandatoryOnly(t *testing.T) {
	doc := jane().ToDocument()

	assert.Equal(t, []string{"firstName", "lastName", "email", "phoneNumber"}, docstore.Keys(doc))
	m := jane().ToMap()
	assert.Equal(t, "Jane.Doe@Example.com", m["email"])
	assert.Equal(t, int64(5551234567), m["phoneNumber"])
}

func TestMember_ToDocumentOptionals(t *testing.T) {
	m := jane()
	m.SubscriptionPlan = strPtr("Gold")
	m.Genres = []catalog.Genre{catalog.Horror, catalog.SelfHelp}
	m.RegisteredEvents = []Event{{ID: "e-1", Name: "Reading night"}}

	doc := m.ToDocument()
	assert.Equal(t, []string{
		"firstName", "lastName", "email", "phoneNumber",
		"subscriptionPlan", "genre", "registeredEvents",
	}, docstore.Keys(doc))

	out := m.ToMap()
	assert.Equal(t, "Gold", out["subscriptionPlan"])
	assert.Equal(t, []interface{}{"Horror", "SelfHelp"}, out["genre"])

	events := out["registeredEvents"].([]interface{})
	require.Len(t, events, 1)
	event := events[0].(map[string]interface{})
	assert.Equal(t, "e-1", event["id"])
	assert.Equal(t, []interface{}{}, event["registeredMembers"])
}

func TestMember_EmptyListsAreKept(t *testing.T) {
	m := jane()
	m.Genres = []catalog.Genre{}
	m.RegisteredEvents = []Event{}

	out := m.ToMap()
	assert.Equal(t, []interface{}{}, out["genre"])
	assert.Equal(t, []interface{}{}, out["registeredEvents"])
	assert.NotContains(t, out, "subscriptionPlan")
}

func TestEvent_ToDocument(t *testing.T) {
	e := NewEvent(idgen.NewSequence(1), Event{
		Name:              "Author talk",
		Host:              "Central Library",
		Date:              time.Unix(1700000000, 0),
		Time:              time.Unix(1700003600, 0),
		Address:           "1 Main St",
		Duration:          "2h",
		Description:       "Q&A",
		RegisteredMembers: []Member{jane()},
		Tickets:           40,
		ImageName:         "talk.png",
		Fees:              10,
		Revenue:           400,
		Status:            "Upcoming",
	})

	assert.Equal(t, []string{
		"id", "name", "host", "date", "time", "address", "duration",
		"description", "registeredMembers", "tickets", "imageName", "fees",
		"revenue", "status",
	}, docstore.Keys(e.ToDocument()))

	m := e.ToMap()
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", m["id"])
	assert.Equal(t, float64(1700000000), m["date"])
	assert.Equal(t, float64(1700003600), m["time"])
	assert.Equal(t, 40, m["tickets"])

	members := m["registeredMembers"].([]interface{})
	require.Len(t, members, 1)
	assert.Len(t, members[0], 4)
}

func TestEvent_FractionalSeconds(t *testing.T) {
	e := Event{Date: time.Unix(1700000000, 500_000_000)}
	assert.Equal(t, 1700000000.5, e.ToMap()["date"])
}

func TestEvent_NestedSerialization(t *testing.T) {
	inner := jane()
	inner.RegisteredEvents = []Event{{ID: "earlier", RegisteredMembers: []Member{{Email: "x@y.z"}}}}
	e := Event{ID: "outer", RegisteredMembers: []Member{inner}}

	m := e.ToMap()
	member := m["registeredMembers"].([]interface{})[0].(map[string]interface{})
	earlier := member["registeredEvents"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "earlier", earlier["id"])
	nested := earlier["registeredMembers"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "x@y.z", nested["email"])
}

func TestSnapshot_SharesNothing(t *testing.T) {
	m := jane()
	m.SubscriptionPlan = strPtr("Silver")
	m.Genres = []catalog.Genre{catalog.Fantasy}
	m.RegisteredEvents = []Event{{ID: "e-1", RegisteredMembers: []Member{{Email: "a@b"}}}}

	snap := m.Snapshot()
	*m.SubscriptionPlan = "Bronze"
	m.Genres[0] = catalog.Horror
	m.RegisteredEvents[0].ID = "changed"
	m.RegisteredEvents[0].RegisteredMembers[0].Email = "changed"

	assert.Equal(t, "Silver", *snap.SubscriptionPlan)
	assert.Equal(t, catalog.Fantasy, snap.Genres[0])
	assert.Equal(t, "e-1", snap.RegisteredEvents[0].ID)
	assert.Equal(t, "a@b", snap.RegisteredEvents[0].RegisteredMembers[0].Email)

	assert.Nil(t, jane().Snapshot().Genres)
	assert.NotNil(t, Member{Genres: []catalog.Genre{}}.Snapshot().Genres)
}

func TestDecodeMember(t *testing.T) {
	t.Run("unset optionals stay unset", func(t *testing.T) {
		got, err := DecodeMember(jane().ToDocument())
		require.NoError(t, err)
		assert.Equal(t, jane(), got)
		assert.Nil(t, got.Genres)
		assert.Nil(t, got.RegisteredEvents)
	})

	t.Run("empty lists stay set", func(t *testing.T) {
		m := jane()
		m.Genres = []catalog.Genre{}
		m.RegisteredEvents = []Event{}

		got, err := DecodeMember(m.ToDocument())
		require.NoError(t, err)
		assert.NotNil(t, got.Genres)
		assert.Empty(t, got.Genres)
		assert.NotNil(t, got.RegisteredEvents)
		assert.Equal(t, m.ToDocument(), got.ToDocument())
	})

	t.Run("nested events", func(t *testing.T) {
		m := jane()
		m.SubscriptionPlan = strPtr("Gold")
		m.Genres = []catalog.Genre{catalog.Romance}
		m.RegisteredEvents = []Event{{
			ID:                "e-9",
			Name:              "Book fair",
			Date:              time.Unix(1700000000, 0).UTC(),
			Time:              time.Unix(1700003600, 0).UTC(),
			RegisteredMembers: []Member{},
			Tickets:           3,
		}}

		got, err := DecodeMember(m.ToDocument())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	})

	t.Run("unknown genre", func(t *testing.T) {
		doc := jane().ToDocument()
		doc = append(doc, bson.E{Key: "genre", Value: bson.A{"Poetry"}})
		_, err := DecodeMember(doc)
		assert.ErrorIs(t, err, catalog.ErrUnknownGenre)
	})
}

func TestDecodeEvent(t *testing.T) {
	e := NewEvent(idgen.Random{}, Event{
		Name:              "Story hour",
		Date:              time.Unix(1700000000, 0).UTC(),
		Time:              time.Unix(1700003600, 0).UTC(),
		RegisteredMembers: []Member{jane()},
		Fees:              5,
		Revenue:           15,
		Status:            "Open",
	})

	got, err := DecodeEvent(e.ToDocument())
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestMemberDocumentRoundTrip(t *testing.T) {
	text := rapid.StringMatching(`[A-Za-z0-9.@ -]{0,20}`)

	rapid.Check(t, func(t *rapid.T) {
		m := Member{
			FirstName:   text.Draw(t, "first"),
			LastName:    text.Draw(t, "last"),
			Email:       text.Draw(t, "email"),
			PhoneNumber: rapid.Int64().Draw(t, "phone"),
		}
		if rapid.Bool().Draw(t, "hasPlan") {
			m.SubscriptionPlan = strPtr(text.Draw(t, "plan"))
		}
		if rapid.Bool().Draw(t, "hasGenres") {
			m.Genres = rapid.SliceOf(rapid.SampledFrom(catalog.Genres())).Draw(t, "genres")
		}

		got, err := DecodeMember(m.ToDocument())
		if err != nil {
			t.Fatalf("DecodeMember: %v", err)
		}
		if (m.Genres == nil) != (got.Genres == nil) {
			t.Fatalf("genre presence changed: %v -> %v", m.Genres, got.Genres)
		}
		if !assert.ObjectsAreEqual(m.ToDocument(), got.ToDocument()) {
			t.Fatalf("round trip mismatch:\n%v\n%v", m.ToDocument(), got.ToDocument())
		}
	})
}
