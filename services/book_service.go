package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"learn-ease-backend/internal/identity"
	"learn-ease-backend/internal/logger"
	"learn-ease-backend/internal/storage"
	"learn-ease-backend/models"
)

// BookService coordinates the upload → store → extract → persist sequence.
// Each call is a single unit of work: it either commits a ready record with
// both blobs on disk, or compensating deletes remove every partial write.
type BookService struct {
	books      BookRepo
	categories CategoryRepo
	store      *storage.FileStore
	extractor  TextExtractor
}

func NewBookService(books BookRepo, categories CategoryRepo, store *storage.FileStore, extractor TextExtractor) *BookService {
	return &BookService{
		books:      books,
		categories: categories,
		store:      store,
		extractor:  extractor,
	}
}

// UploadInput carries the client-supplied parts of an upload request.
type UploadInput struct {
	Content     io.Reader
	Filename    string
	ContentType string
	Title       string // optional; falls back to the original filename
	CategoryID  string // optional; hex id of an owned category
}

// Ingest runs the full ingestion pipeline and returns the committed record.
func (s *BookService) Ingest(ctx context.Context, userID identity.ID, in UploadInput) (*models.Book, error) {
	tracer := otel.Tracer("ingestion")
	ctx, span := tracer.Start(ctx, "book.ingest")
	defer span.End()

	if strings.TrimSpace(in.Filename) == "" {
		return nil, fmt.Errorf("%w: no filename provided", ErrInvalidInput)
	}
	if !isPDF(in.ContentType, in.Filename) {
		return nil, fmt.Errorf("%w: only PDF files are allowed", ErrInvalidInput)
	}

	// Malformed category ids are rejected before any write happens.
	var categoryID *identity.ID
	if in.CategoryID != "" {
		parsed, err := identity.Parse(in.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid category id", ErrInvalidInput)
		}
		categoryID = &parsed
	}

	// The storage key is derived from the owner and a random token, never
	// from the client filename.
	stem := userID.Hex() + "_" + uuid.NewString()
	pdfKey := stem + ".pdf"
	textKey := stem + ".txt"
	span.SetAttributes(attribute.String("book.blob_stem", stem))

	// The stored byte count is the trusted size, not the client-declared one.
	size, err := s.store.WritePDF(pdfKey, in.Content)
	if err != nil {
		return nil, fmt.Errorf("could not save PDF: %w", err)
	}

	stored, err := s.store.ReadPDF(pdfKey)
	if err != nil {
		s.discardBlobs(pdfKey, "")
		return nil, fmt.Errorf("could not read back stored PDF: %w", err)
	}

	text, err := s.extractor.ExtractText(ctx, stored)
	if err != nil {
		s.discardBlobs(pdfKey, "")
		return nil, fmt.Errorf("failed to extract text from PDF: %w", err)
	}

	if err := s.store.WriteText(textKey, text); err != nil {
		s.discardBlobs(pdfKey, "")
		return nil, fmt.Errorf("could not save extracted text: %w", err)
	}

	// A supplied category must resolve to one owned by the same user.
	if categoryID != nil {
		if _, err := s.categories.FindByID(ctx, *categoryID, userID); err != nil {
			s.discardBlobs(pdfKey, textKey)
			if err == ErrNotFound {
				return nil, fmt.Errorf("%w: category does not exist", ErrInvalidInput)
			}
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = in.Filename
	}

	book := &models.Book{
		UserID:           userID,
		Title:            title,
		OriginalFilename: sanitizeFilename(in.Filename),
		ContentType:      in.ContentType,
		FileSizeBytes:    size,
		StoredFilename:   pdfKey,
		TextFilename:     textKey,
		CategoryID:       categoryID,
		Status:           models.BookStatusReady,
		UploadDate:       time.Now().UTC(),
	}

	// The commit and readback are shielded from client disconnects: a record
	// inserted under a context that dies before the readback would get its
	// blobs deleted out from under it.
	dbCtx := context.WithoutCancel(ctx)

	id, err := s.books.Insert(dbCtx, book)
	if err != nil {
		s.discardBlobs(pdfKey, textKey)
		return nil, fmt.Errorf("failed to save book metadata: %w", err)
	}

	// Readback guards against a write that reported success but is not
	// visible; data on disk without a record is worse than a failed upload.
	committed, err := s.books.FindByID(dbCtx, id, userID)
	if err != nil {
		s.discardBlobs(pdfKey, textKey)
		return nil, fmt.Errorf("failed to read back book metadata after insert: %w", err)
	}

	span.SetAttributes(attribute.String("book.id", committed.ID.Hex()))
	return committed, nil
}

// discardBlobs is the compensating action for partial ingestion. It must not
// fail the request further, so errors are only logged.
func (s *BookService) discardBlobs(pdfKey, textKey string) {
	if pdfKey != "" {
		if err := s.store.RemovePDF(pdfKey); err != nil {
			logger.Error("Failed to remove PDF blob during cleanup", "key", pdfKey, "error", err)
		}
	}
	if textKey != "" {
		if err := s.store.RemoveText(textKey); err != nil {
			logger.Error("Failed to remove text blob during cleanup", "key", textKey, "error", err)
		}
	}
}

// ListBooks returns the owner's books, newest first.
func (s *BookService) ListBooks(ctx context.Context, userID identity.ID) ([]models.Book, error) {
	return s.books.ListByUser(ctx, userID)
}

// GetBook fetches a single owned record. Absent and foreign records are both
// ErrNotFound.
func (s *BookService) GetBook(ctx context.Context, userID identity.ID, bookID string) (*models.Book, error) {
	id, err := identity.Parse(bookID)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.books.FindByID(ctx, id, userID)
}

// GetPDFPath returns the on-disk PDF path and the display filename to use as
// the content-disposition hint.
func (s *BookService) GetPDFPath(ctx context.Context, userID identity.ID, bookID string) (string, string, error) {
	book, err := s.GetBook(ctx, userID, bookID)
	if err != nil {
		return "", "", err
	}
	path, err := s.store.PDFPath(book.StoredFilename)
	if err != nil {
		return "", "", fmt.Errorf("pdf blob missing for book %s: %w", book.ID.Hex(), err)
	}
	return path, book.OriginalFilename, nil
}

// GetExtractedText returns the record and its extracted text content.
func (s *BookService) GetExtractedText(ctx context.Context, userID identity.ID, bookID string) (*models.Book, string, error) {
	book, err := s.GetBook(ctx, userID, bookID)
	if err != nil {
		return nil, "", err
	}
	if book.TextFilename == "" {
		return nil, "", ErrNotFound
	}
	text, err := s.store.ReadText(book.TextFilename)
	if err != nil {
		return nil, "", fmt.Errorf("text blob missing for book %s: %w", book.ID.Hex(), err)
	}
	return book, text, nil
}

// UpdateCategory sets or clears (nil) the book's category reference and
// returns the updated record.
func (s *BookService) UpdateCategory(ctx context.Context, userID identity.ID, bookID string, newCategoryID *string) (*models.Book, error) {
	id, err := identity.Parse(bookID)
	if err != nil {
		return nil, ErrNotFound
	}

	var categoryID *identity.ID
	if newCategoryID != nil {
		parsed, err := identity.Parse(*newCategoryID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid category id", ErrInvalidInput)
		}
		if _, err := s.categories.FindByID(ctx, parsed, userID); err != nil {
			if err == ErrNotFound {
				return nil, fmt.Errorf("%w: category does not exist", ErrInvalidInput)
			}
			return nil, err
		}
		categoryID = &parsed
	}

	if err := s.books.UpdateCategory(ctx, id, userID, categoryID); err != nil {
		return nil, err
	}
	return s.books.FindByID(ctx, id, userID)
}

func isPDF(contentType, filename string) bool {
	if strings.EqualFold(strings.TrimSpace(strings.Split(contentType, ";")[0]), "application/pdf") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

// sanitizeFilename keeps the original name safe for display and for the
// content-disposition header; it is never used as a storage path.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
