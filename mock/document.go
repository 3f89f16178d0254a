package mock

import (
	"context"

	"github.com/fwojciec/veridoc"
)

var _ veridoc.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of veridoc.DocumentService.
type DocumentService struct {
	CreateDocumentFn   func(ctx context.Context, doc *veridoc.Document) error
	FindDocumentByIDFn func(ctx context.Context, id string) (*veridoc.Document, error)
	FindDocumentsFn    func(ctx context.Context) ([]*veridoc.Document, error)
	DeleteDocumentFn   func(ctx context.Context, id string) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *veridoc.Document) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*veridoc.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context) ([]*veridoc.Document, error) {
	return s.FindDocumentsFn(ctx)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	return s.DeleteDocumentFn(ctx, id)
}
