package mock

import (
	"context"

	"github.com/fwojciec/veridoc"
)

var _ veridoc.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of veridoc.Extractor.
type Extractor struct {
	ExtractPageFn func(ctx context.Context, docID string, page int, image []byte) (any, error)
}

func (e *Extractor) ExtractPage(ctx context.Context, docID string, page int, image []byte) (any, error) {
	return e.ExtractPageFn(ctx, docID, page, image)
}
