package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"learn-ease-backend/internal/identity"
	"learn-ease-backend/models"
)

// In-memory repository implementations backing the orchestrator tests.

var errStorageUnavailable = errors.New("storage unavailable")

type MemoryBookRepo struct {
	mu    sync.RWMutex
	books map[string]models.Book

	// FailInserts forces Insert to report a storage failure, for exercising
	// the compensating-cleanup path.
	FailInserts bool
	// DropInserts makes Insert succeed while silently not storing the
	// record, so the post-insert readback comes up empty.
	DropInserts bool
}

func NewMemoryBookRepo() *MemoryBookRepo {
	return &MemoryBookRepo{books: make(map[string]models.Book)}
}

func (r *MemoryBookRepo) Insert(ctx context.Context, book *models.Book) (identity.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailInserts {
		return identity.ID{}, errStorageUnavailable
	}
	id := identity.New()
	if !r.DropInserts {
		stored := *book
		stored.ID = id
		r.books[id.Hex()] = stored
	}
	return id, nil
}

func (r *MemoryBookRepo) FindByID(ctx context.Context, id, userID identity.ID) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.books[id.Hex()]
	if !ok || book.UserID.Hex() != userID.Hex() {
		return nil, ErrNotFound
	}
	copied := book
	return &copied, nil
}

func (r *MemoryBookRepo) ListByUser(ctx context.Context, userID identity.ID) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := []models.Book{}
	for _, book := range r.books {
		if book.UserID.Hex() == userID.Hex() {
			books = append(books, book)
		}
	}
	sort.Slice(books, func(i, j int) bool {
		return books[i].UploadDate.After(books[j].UploadDate)
	})
	return books, nil
}

func (r *MemoryBookRepo) UpdateCategory(ctx context.Context, id, userID identity.ID, categoryID *identity.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id.Hex()]
	if !ok || book.UserID.Hex() != userID.Hex() {
		return ErrNotFound
	}
	book.CategoryID = categoryID
	r.books[id.Hex()] = book
	return nil
}

func (r *MemoryBookRepo) ClearCategory(ctx context.Context, userID, categoryID identity.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, book := range r.books {
		if book.UserID.Hex() == userID.Hex() && book.CategoryID != nil && book.CategoryID.Hex() == categoryID.Hex() {
			book.CategoryID = nil
			r.books[key] = book
		}
	}
	return nil
}

func (r *MemoryBookRepo) ExistsByStoredKey(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, book := range r.books {
		if book.StoredFilename == key || book.TextFilename == key {
			return true, nil
		}
	}
	return false, nil
}

// Count reports the number of stored records, for test assertions.
func (r *MemoryBookRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books)
}

type MemoryCategoryRepo struct {
	mu         sync.RWMutex
	categories map[string]models.Category
}

func NewMemoryCategoryRepo() *MemoryCategoryRepo {
	return &MemoryCategoryRepo{categories: make(map[string]models.Category)}
}

func (r *MemoryCategoryRepo) Insert(ctx context.Context, category *models.Category) (identity.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.categories {
		if existing.UserID.Hex() == category.UserID.Hex() && existing.NameKey == category.NameKey {
			return identity.ID{}, ErrDuplicateName
		}
	}
	id := identity.New()
	stored := *category
	stored.ID = id
	r.categories[id.Hex()] = stored
	return id, nil
}

func (r *MemoryCategoryRepo) FindByID(ctx context.Context, id, userID identity.ID) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id.Hex()]
	if !ok || category.UserID.Hex() != userID.Hex() {
		return nil, ErrNotFound
	}
	copied := category
	return &copied, nil
}

func (r *MemoryCategoryRepo) ListByUser(ctx context.Context, userID identity.ID) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := []models.Category{}
	for _, category := range r.categories {
		if category.UserID.Hex() == userID.Hex() {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].NameKey < categories[j].NameKey
	})
	return categories, nil
}

func (r *MemoryCategoryRepo) UpdateName(ctx context.Context, id, userID identity.ID, name, nameKey string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, ok := r.categories[id.Hex()]
	if !ok || category.UserID.Hex() != userID.Hex() {
		return nil, ErrNotFound
	}
	for key, existing := range r.categories {
		if key != id.Hex() && existing.UserID.Hex() == userID.Hex() && existing.NameKey == nameKey {
			return nil, ErrDuplicateName
		}
	}
	category.Name = name
	category.NameKey = nameKey
	r.categories[id.Hex()] = category
	copied := category
	return &copied, nil
}

func (r *MemoryCategoryRepo) Delete(ctx context.Context, id, userID identity.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, ok := r.categories[id.Hex()]
	if !ok || category.UserID.Hex() != userID.Hex() {
		return ErrNotFound
	}
	delete(r.categories, id.Hex())
	return nil
}

type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]models.User)}
}

func (r *MemoryUserRepo) Insert(ctx context.Context, user *models.User) (identity.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return identity.ID{}, ErrEmailExists
		}
	}
	id := identity.New()
	stored := *user
	stored.ID = id
	r.users[id.Hex()] = stored
	return id, nil
}

func (r *MemoryUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepo) FindByID(ctx context.Context, id identity.ID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id.Hex()]
	if !ok {
		return nil, ErrNotFound
	}
	copied := user
	return &copied, nil
}
