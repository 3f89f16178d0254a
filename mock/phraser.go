package mock

import (
	"context"

	"github.com/fwojciec/veridoc"
)

var _ veridoc.Phraser = (*Phraser)(nil)

// Phraser is a mock implementation of veridoc.Phraser.
type Phraser struct {
	PhraseAnswerFn  func(ctx context.Context, question, verifiedFact, coordinates string) (string, error)
	PhraseRefusalFn func(ctx context.Context, question string, counts veridoc.FactCounts) (string, error)
}

func (p *Phraser) PhraseAnswer(ctx context.Context, question, verifiedFact, coordinates string) (string, error) {
	return p.PhraseAnswerFn(ctx, question, verifiedFact, coordinates)
}

func (p *Phraser) PhraseRefusal(ctx context.Context, question string, counts veridoc.FactCounts) (string, error) {
	return p.PhraseRefusalFn(ctx, question, counts)
}
