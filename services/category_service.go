package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"learn-ease-backend/internal/identity"
	"learn-ease-backend/internal/logger"
	"learn-ease-backend/models"
)

// CategoryService manages per-user book categories. Name uniqueness is
// case-insensitive within an owner; the original casing is kept for display.
type CategoryService struct {
	categories CategoryRepo
	books      BookRepo
}

func NewCategoryService(categories CategoryRepo, books BookRepo) *CategoryService {
	return &CategoryService{categories: categories, books: books}
}

func (s *CategoryService) Create(ctx context.Context, userID identity.ID, name string) (*models.Category, error) {
	display, key, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID:    userID,
		Name:      display,
		NameKey:   key,
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.categories.Insert(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.categories.FindByID(ctx, id, userID)
}

func (s *CategoryService) List(ctx context.Context, userID identity.ID) ([]models.Category, error) {
	return s.categories.ListByUser(ctx, userID)
}

func (s *CategoryService) Get(ctx context.Context, userID identity.ID, categoryID string) (*models.Category, error) {
	id, err := identity.Parse(categoryID)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.categories.FindByID(ctx, id, userID)
}

// Rename changes the display name. The new name competes for uniqueness with
// the owner's other categories, not with itself.
func (s *CategoryService) Rename(ctx context.Context, userID identity.ID, categoryID, name string) (*models.Category, error) {
	id, err := identity.Parse(categoryID)
	if err != nil {
		return nil, ErrNotFound
	}
	display, key, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	return s.categories.UpdateName(ctx, id, userID, display, key)
}

// Delete removes the category and clears the reference on every book that
// pointed at it. Books survive the delete as uncategorized.
func (s *CategoryService) Delete(ctx context.Context, userID identity.ID, categoryID string) error {
	id, err := identity.Parse(categoryID)
	if err != nil {
		return ErrNotFound
	}
	if err := s.categories.Delete(ctx, id, userID); err != nil {
		return err
	}
	if err := s.books.ClearCategory(ctx, userID, id); err != nil {
		// The category is already gone; a failed cascade leaves dangling
		// references that resolve to nothing, which reads are tolerant of.
		logger.Error("Failed to clear category references after delete", "category_id", id.Hex(), "error", err)
	}
	return nil
}

func normalizeName(name string) (display, key string, err error) {
	display = strings.TrimSpace(name)
	if display == "" {
		return "", "", fmt.Errorf("%w: category name cannot be empty", ErrInvalidInput)
	}
	return display, strings.ToLower(display), nil
}
