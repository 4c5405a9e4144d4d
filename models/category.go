package models

import (
	"time"

	"learn-ease-backend/internal/identity"
)

// Category is a user-defined grouping for books. Names are unique per owner
// on the normalized key; deleting a category never deletes its books.
type Category struct {
	ID        identity.ID `bson:"_id,omitempty" json:"id"`
	UserID    identity.ID `bson:"user_id" json:"user_id"`
	Name      string      `bson:"name" json:"name"`
	NameKey   string      `bson:"name_key" json:"-"` // trimmed + lower-cased, uniqueness key
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
}

type CategoryPublic struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Category) Public() CategoryPublic {
	return CategoryPublic{
		ID:        c.ID.Hex(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}

type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type CategoryUpdateRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}
