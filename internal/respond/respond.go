// internal/respond/respond.go
package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"shelvesadmin/internal/docstore"
)

// maxBody caps request bodies at 1 MB.
const maxBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// Error maps store failures onto status codes. Anything unrecognised is
// logged and reported as a 500.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		Message(w, http.StatusNotFound, err.Error())
	case errors.Is(err, docstore.ErrUnavailable):
		Message(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("request failed: %v", err)
		Message(w, http.StatusInternalServerError, "internal error")
	}
}

// Document writes doc as relaxed extended JSON, which keeps its key order.
func Document(w http.ResponseWriter, status int, doc bson.D) {
	body, err := marshalDoc(doc)
	if err != nil {
		Error(w, err)
		return
	}
	write(w, status, body)
}

// Documents writes docs as a JSON array. An empty slice is written as [].
func Documents(w http.ResponseWriter, status int, docs []bson.D) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, doc := range docs {
		body, err := marshalDoc(doc)
		if err != nil {
			Error(w, err)
			return
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(body)
	}
	buf.WriteByte(']')
	write(w, status, buf.Bytes())
}

// Decode reads a JSON request body into dst, rejecting unknown fields.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func marshalDoc(doc bson.D) ([]byte, error) {
	if doc == nil {
		doc = bson.D{}
	}
	return bson.MarshalExtJSON(doc, false, false)
}

func write(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
	_, _ = w.Write([]byte("\n"))
}
