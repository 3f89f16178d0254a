package mock

import (
	"context"

	"github.com/fwojciec/veridoc"
)

var _ veridoc.FactService = (*FactService)(nil)

// FactService is a mock implementation of veridoc.FactService.
type FactService struct {
	CreateFactsFn          func(ctx context.Context, docID string, set veridoc.FactSet) error
	FindFactsByDocumentFn  func(ctx context.Context, docID string) (veridoc.FactSet, error)
	CountFactsByDocumentFn func(ctx context.Context, docID string) (veridoc.FactCounts, error)
}

func (s *FactService) CreateFacts(ctx context.Context, docID string, set veridoc.FactSet) error {
	return s.CreateFactsFn(ctx, docID, set)
}

func (s *FactService) FindFactsByDocument(ctx context.Context, docID string) (veridoc.FactSet, error) {
	return s.FindFactsByDocumentFn(ctx, docID)
}

func (s *FactService) CountFactsByDocument(ctx context.Context, docID string) (veridoc.FactCounts, error) {
	return s.CountFactsByDocumentFn(ctx, docID)
}
