package models

import (
	"time"

	"learn-ease-backend/internal/identity"
)

// Book is the metadata record for an uploaded PDF and its extracted text.
// A record only ever becomes visible with status "ready": both blobs exist
// on disk before the insert commits.
type Book struct {
	ID               identity.ID  `bson:"_id,omitempty" json:"id"`
	UserID           identity.ID  `bson:"user_id" json:"user_id"`
	Title            string       `bson:"title" json:"title"`
	OriginalFilename string       `bson:"original_filename" json:"original_filename"`
	ContentType      string       `bson:"content_type" json:"content_type"`
	FileSizeBytes    int64        `bson:"file_size_bytes" json:"file_size_bytes"` // measured from the stored blob, not client-declared
	StoredFilename   string       `bson:"stored_filename" json:"-"`               // PDF blob key
	TextFilename     string       `bson:"text_filename,omitempty" json:"-"`       // extracted-text blob key, empty until extraction succeeded
	CategoryID       *identity.ID `bson:"category_id,omitempty" json:"category_id,omitempty"`
	Status           string       `bson:"status" json:"status"`
	UploadDate       time.Time    `bson:"upload_date" json:"upload_date"`
}

// Book lifecycle states
const (
	BookStatusProcessing      = "processing"
	BookStatusReady           = "ready"
	BookStatusErrorExtraction = "error_extraction"
	BookStatusErrorUpload     = "error_upload"
)

// BookPublic is the client-facing view of a book record.
type BookPublic struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Filename      string    `json:"filename"` // original filename for display
	FileSizeBytes int64     `json:"file_size_bytes"`
	CategoryID    *string   `json:"category_id"`
	Status        string    `json:"status"`
	UploadDate    time.Time `json:"upload_date"`
}

// Public converts the stored record to its client-facing view.
func (b *Book) Public() BookPublic {
	pub := BookPublic{
		ID:            b.ID.Hex(),
		Title:         b.Title,
		Filename:      b.OriginalFilename,
		FileSizeBytes: b.FileSizeBytes,
		Status:        b.Status,
		UploadDate:    b.UploadDate,
	}
	if b.CategoryID != nil {
		hex := b.CategoryID.Hex()
		pub.CategoryID = &hex
	}
	return pub
}

// BookCategoryUpdate is the body of PUT /books/:id/category. A null
// category_id makes the book uncategorized.
type BookCategoryUpdate struct {
	CategoryID *string `json:"category_id"`
}

// BookTextContent is the response for GET /books/:id/extracted-text.
type BookTextContent struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
