// internal/notification/domain.go
package notification

import (
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"shelvesadmin/internal/docstore"
	"shelvesadmin/internal/idgen"
)

// Notification is a message broadcast to members. Its identifier is only
// used as the store key and is never part of the document.
type Notification struct {
	id      uuid.UUID
	Title   string
	Message string
}

func NewNotification(gen idgen.Generator, title, message string) Notification {
	return Notification{
		id:      gen.NewID(),
		Title:   title,
		Message: message,
	}
}

func (n Notification) ID() uuid.UUID {
	return n.id
}

func (n Notification) ToDocument() bson.D {
	return bson.D{
		{Key: "title", Value: n.Title},
		{Key: "message", Value: n.Message},
	}
}

func (n Notification) ToMap() map[string]interface{} {
	return docstore.ToMap(n.ToDocument())
}

type record struct {
	Title   string `bson:"title"`
	Message string `bson:"message"`
}

// Decode rebuilds a notification stored under key.
func Decode(key string, doc bson.D) (Notification, error) {
	id, err := uuid.Parse(key)
	if err != nil {
		return Notification{}, err
	}
	var rec record
	if err := docstore.Decode(doc, &rec); err != nil {
		return Notification{}, err
	}
	return Notification{id: id, Title: rec.Title, Message: rec.Message}, nil
}
