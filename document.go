package veridoc

import (
	"context"
	"regexp"
	"time"
)

// docIDPattern guards against path traversal: document ids appear in file
// paths and storage keys.
var docIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateDocID returns an error if id is empty or contains characters
// outside [a-zA-Z0-9_-].
func ValidateDocID(id string) error {
	if !docIDPattern.MatchString(id) {
		return Errorf(EINVALID, "invalid document ID %q", id)
	}
	return nil
}

// Document represents an ingested source document.
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	PageCount   int       `json:"pageCount"`
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if err := ValidateDocID(d.ID); err != nil {
		return err
	}
	if d.Filename == "" {
		return Errorf(EINVALID, "document filename required")
	}
	if d.PageCount < 0 {
		return Errorf(EINVALID, "document page count must be non-negative")
	}
	return nil
}

// DocumentService represents a service for managing ingested documents.
type DocumentService interface {
	// CreateDocument creates a new document record.
	CreateDocument(ctx context.Context, doc *Document) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves all documents, most recently created first.
	FindDocuments(ctx context.Context) ([]*Document, error)

	// DeleteDocument permanently removes a document and all associated facts.
	// Returns ENOTFOUND if document does not exist.
	DeleteDocument(ctx context.Context, id string) error
}

// FactService stores and retrieves canonical facts for a document. The core
// treats this as store/retrieve only; no query pushdown.
type FactService interface {
	// CreateFacts persists the facts in set under the given document.
	CreateFacts(ctx context.Context, docID string, set FactSet) error

	// FindFactsByDocument returns the full fact set for a document in
	// insertion order.
	FindFactsByDocument(ctx context.Context, docID string) (FactSet, error)

	// CountFactsByDocument returns per-kind fact counts for a document.
	CountFactsByDocument(ctx context.Context, docID string) (FactCounts, error)
}
