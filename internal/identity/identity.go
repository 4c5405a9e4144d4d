// Package identity wraps MongoDB object identifiers behind a small value type
// so that database-native representations stay at the storage boundary.
package identity

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID identifies a persisted record (user, book, category).
type ID struct {
	oid primitive.ObjectID
}

// New returns a fresh, unique ID.
func New() ID {
	return ID{oid: primitive.NewObjectID()}
}

// Parse converts the external hex form into an ID. The empty string and
// malformed input are rejected.
func Parse(s string) (ID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return ID{}, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID{oid: oid}, nil
}

// FromObjectID wraps a driver-native identifier. Only the Mongo repositories
// should need this.
func FromObjectID(oid primitive.ObjectID) ID {
	return ID{oid: oid}
}

// Hex returns the canonical external form.
func (id ID) Hex() string {
	return id.oid.Hex()
}

func (id ID) String() string {
	return id.oid.Hex()
}

// IsZero reports whether the ID is unset. The bson codec uses this for
// omitempty handling.
func (id ID) IsZero() bool {
	return id.oid.IsZero()
}

// ObjectID exposes the driver-native form for repository filters.
func (id ID) ObjectID() primitive.ObjectID {
	return id.oid
}

func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(id.oid)
}

func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	return bson.UnmarshalValue(t, data, &id.oid)
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.oid.Hex())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*id = ID{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
