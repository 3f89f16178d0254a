package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/veridoc"
	"google.golang.org/genai"
)

// UnableToPhrase is the sentinel the model returns when the verified fact
// does not answer the question. It degrades to "no rephrasing available".
const UnableToPhrase = "UNABLE TO PHRASE"

const answerPrompt = `Input: User Question [Q], Verified Fact [F], Coordinates [C].
Task: Rephrase F into a 1-sentence answer to Q. DO NOT add outside knowledge. Do not add units or interpretation not present in F.
If F does not answer Q, return exactly: UNABLE TO PHRASE

Q: %s
F: %s
C: %s

One sentence only, or UNABLE TO PHRASE.`

const refusalPrompt = `The user asked a question about a technical document. No verified answer was found.

User question: %s

Document contents: %s

Task: Write a short refusal reason (1-2 sentences) in plain language. Examples: 'No mention of that was found in the document.' 'The document has pin mappings but none match your question.' Do not invent facts; only refer to what is in the document or that nothing matched. One or two sentences only.`

// Ensure Phraser implements veridoc.Phraser at compile time.
var _ veridoc.Phraser = (*Phraser)(nil)

// Phraser rephrases already-verified results using Gemini. It is strictly
// cosmetic: the authoritative verdict is produced before the Phraser is
// consulted and is never altered by it.
type Phraser struct {
	client *genai.Client
	model  string
}

// NewPhraser creates a new Phraser. An empty model selects DefaultModel.
func NewPhraser(client *genai.Client, model string) *Phraser {
	if model == "" {
		model = DefaultModel
	}
	return &Phraser{client: client, model: model}
}

// PhraseAnswer rephrases a verified fact into a one-sentence answer.
// Returns "" when the model declines or returns nothing.
func (p *Phraser) PhraseAnswer(ctx context.Context, question, verifiedFact, coordinates string) (string, error) {
	text, err := p.generate(ctx, fmt.Sprintf(answerPrompt, question, verifiedFact, coordinates))
	if err != nil {
		return "", err
	}
	if text == "" || strings.Contains(strings.ToUpper(text), UnableToPhrase) {
		return "", nil
	}
	return text, nil
}

// PhraseRefusal phrases a short natural-language reason for refusing,
// given the document's per-kind fact counts.
func (p *Phraser) PhraseRefusal(ctx context.Context, question string, counts veridoc.FactCounts) (string, error) {
	summary := fmt.Sprintf(
		"%d units (e.g. voltages, labels), %d bijections (e.g. pin name <-> number), %d grids (tables).",
		counts.Units, counts.Bijections, counts.Grids,
	)
	return p.generate(ctx, fmt.Sprintf(refusalPrompt, question, summary))
}

func (p *Phraser) generate(ctx context.Context, prompt string) (string, error) {
	temp := float32(0.4)
	result, err := p.client.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		&genai.GenerateContentConfig{Temperature: &temp},
	)
	if err != nil {
		return "", classifyError(err)
	}
	if result == nil {
		return "", veridoc.Errorf(veridoc.EINTERNAL, "gemini returned nil result")
	}
	return strings.TrimSpace(result.Text()), nil
}
