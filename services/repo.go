package services

import (
	"context"

	"learn-ease-backend/internal/identity"
	"learn-ease-backend/models"
)

// The metadata store sits behind small repository interfaces so the
// orchestrators can be exercised against an in-memory implementation.
// Every read and write that touches a book or category carries the owner id
// as a mandatory predicate.

type BookRepo interface {
	Insert(ctx context.Context, book *models.Book) (identity.ID, error)
	// FindByID returns ErrNotFound both for absent records and records
	// owned by a different user.
	FindByID(ctx context.Context, id, userID identity.ID) (*models.Book, error)
	// ListByUser returns the owner's books, newest first.
	ListByUser(ctx context.Context, userID identity.ID) ([]models.Book, error)
	// UpdateCategory sets or clears (nil) the category reference.
	UpdateCategory(ctx context.Context, id, userID identity.ID, categoryID *identity.ID) error
	// ClearCategory nulls the category reference on every book of the owner
	// that points at it (category-delete cascade).
	ClearCategory(ctx context.Context, userID, categoryID identity.ID) error
	// ExistsByStoredKey reports whether any record references the blob key
	// as its PDF or text filename. Used by the orphan sweep.
	ExistsByStoredKey(ctx context.Context, key string) (bool, error)
}

type CategoryRepo interface {
	// Insert returns ErrDuplicateName when the owner already has a category
	// with the same normalized name.
	Insert(ctx context.Context, category *models.Category) (identity.ID, error)
	FindByID(ctx context.Context, id, userID identity.ID) (*models.Category, error)
	ListByUser(ctx context.Context, userID identity.ID) ([]models.Category, error)
	UpdateName(ctx context.Context, id, userID identity.ID, name, nameKey string) (*models.Category, error)
	Delete(ctx context.Context, id, userID identity.ID) error
}

type UserRepo interface {
	Insert(ctx context.Context, user *models.User) (identity.ID, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id identity.ID) (*models.User, error)
}
