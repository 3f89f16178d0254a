// Package gemini implements the extraction and phrasing collaborators
// using Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/veridoc"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const extractPrompt = `You are extracting structured, coordinate-grounded facts from a single page of technical documentation (datasheet, schematic, pinout table, etc.).

Rules:
- Extract ONLY facts you can tie to a specific (x, y) location on the page. Use normalized coordinates 0.0-1.0 (top-left = 0,0; bottom-right = 1,1) or estimate from layout.
- For each fact, provide origin.x and origin.y. If you can infer a bounding box, provide bbox (x1,y1,x2,y2).
- Output only: units (discrete values like pin labels, voltages with position), bijections (1:1 mappings e.g. pin name <-> pin number), grids (tables with row/col and optional cell origins).
- Use short, unique ids (e.g. "u1", "b1", "g1"). Leave arrays empty if nothing of that type is on the page.
- Do not guess. If a coordinate or value is ambiguous, omit that fact.

Respond with a single JSON object with keys: units (array), bijections (array), grids (array). No other text.`

// Ensure Extractor implements veridoc.Extractor at compile time.
var _ veridoc.Extractor = (*Extractor)(nil)

// Extractor calls Gemini with a page image and returns the parsed JSON
// body of the response as an untyped tree.
type Extractor struct {
	client *genai.Client
	model  string
}

// NewExtractor creates a new Extractor. An empty model selects
// DefaultModel.
func NewExtractor(client *genai.Client, model string) *Extractor {
	if model == "" {
		model = DefaultModel
	}
	return &Extractor{client: client, model: model}
}

// ExtractPage sends one page image to Gemini and returns the decoded JSON
// tree. Rate limiting is returned as an ERATELIMIT error; an unparsable
// response yields a nil tree and no error, so the page contributes no
// facts without failing.
func (e *Extractor) ExtractPage(ctx context.Context, docID string, page int, image []byte) (any, error) {
	if docID == "" {
		return nil, veridoc.Errorf(veridoc.EINVALID, "document ID required")
	}
	if len(image) == 0 {
		return nil, veridoc.Errorf(veridoc.EINVALID, "page image required")
	}

	result, err := e.client.Models.GenerateContent(ctx, e.model,
		[]*genai.Content{{
			Parts: []*genai.Part{
				{Text: BuildExtractPrompt(docID, page)},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: image}},
			},
		}},
		BuildExtractConfig(),
	)
	if err != nil {
		return nil, classifyError(err)
	}
	if result == nil {
		return nil, veridoc.Errorf(veridoc.EINTERNAL, "gemini returned nil result")
	}

	return DecodeRaw(result.Text()), nil
}

// BuildExtractPrompt builds the extraction prompt for one page.
func BuildExtractPrompt(docID string, page int) string {
	return fmt.Sprintf("%s\n\nThis image is page %d of document %s. Return JSON with keys: units, bijections, grids.", extractPrompt, page, docID)
}

// BuildExtractConfig returns the GenerateContentConfig for extraction
// calls: JSON output, temperature zero.
func BuildExtractConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temp,
	}
}

// DecodeRaw strips markdown code fences and decodes text as JSON. Empty or
// unparsable text decodes to nil.
func DecodeRaw(text string) any {
	text = stripFences(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil
	}
	return raw
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// classifyError maps upstream throttling to ERATELIMIT so the ingestion
// pipeline can apply its cooldown; everything else passes through.
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return veridoc.Errorf(veridoc.ERATELIMIT, "gemini rate limit: %s", apiErr.Message)
	}
	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "Resource exhausted") {
		return veridoc.Errorf(veridoc.ERATELIMIT, "gemini rate limit: %s", msg)
	}
	return err
}
