package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/veridoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ veridoc.DocumentService = (*DocumentService)(nil)

// DocumentService implements veridoc.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// CreateDocument creates a new document record. A missing ID is assigned.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *veridoc.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, page_count, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, doc.ID, doc.Filename, doc.PageCount, doc.ContentHash, doc.CreatedAt.Format(time.RFC3339))

	return err
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*veridoc.Document, error) {
	var doc veridoc.Document
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, filename, page_count, content_hash, created_at
		FROM documents
		WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Filename, &doc.PageCount, &doc.ContentHash, &createdAt)

	if err == sql.ErrNoRows {
		return nil, veridoc.Errorf(veridoc.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	doc.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// FindDocuments retrieves all documents, most recently created first.
func (s *DocumentService) FindDocuments(ctx context.Context) ([]*veridoc.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, page_count, content_hash, created_at
		FROM documents
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*veridoc.Document
	for rows.Next() {
		var doc veridoc.Document
		var createdAt string

		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.PageCount, &doc.ContentHash, &createdAt); err != nil {
			return nil, err
		}
		doc.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// DeleteDocument permanently removes a document; facts cascade.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return veridoc.Errorf(veridoc.ENOTFOUND, "document not found")
	}

	return nil
}
