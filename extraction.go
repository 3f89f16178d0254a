package veridoc

import "context"

// PageExtraction is the closed, normalized schema for one page's extraction.
// The normalizer coerces the model's loosely-structured response into this
// shape; everything downstream is strongly typed.
type PageExtraction struct {
	Units      []UnitExtract      `json:"units"`
	Bijections []BijectionExtract `json:"bijections"`
	Grids      []GridExtract      `json:"grids"`
}

// UnitExtract is a normalized unit candidate.
type UnitExtract struct {
	ID            string       `json:"id"`
	Label         string       `json:"label,omitempty"`
	Value         string       `json:"value"`
	UnitOfMeasure string       `json:"unit_of_measure,omitempty"`
	Context       string       `json:"context,omitempty"`
	Origin        *Point       `json:"origin"`
	BBox          *BoundingBox `json:"bbox,omitempty"`
}

// BijectionExtract is a normalized bijection candidate.
type BijectionExtract struct {
	ID       string            `json:"id"`
	LeftSet  []string          `json:"left_set"`
	RightSet []string          `json:"right_set"`
	Mapping  map[string]string `json:"mapping"`
	Origin   *Point            `json:"origin"`
	BBox     *BoundingBox      `json:"bbox,omitempty"`
}

// CellExtract is a normalized grid cell candidate.
type CellExtract struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Value  string `json:"value"`
	Origin *Point `json:"origin,omitempty"`
}

// GridExtract is a normalized grid candidate.
type GridExtract struct {
	ID     string        `json:"id"`
	Rows   int           `json:"rows"`
	Cols   int           `json:"cols"`
	Cells  []CellExtract `json:"cells"`
	Origin *Point        `json:"origin"`
	BBox   *BoundingBox  `json:"bbox,omitempty"`
}

// PageImage is a rendered page: a 0-based page index and encoded image
// bytes suitable for a vision model.
type PageImage struct {
	Page int
	Data []byte
}

// Renderer renders a source document into page images. Pages that fail to
// render individually are omitted; rendering never aborts the whole
// document for a single bad page.
type Renderer interface {
	RenderPages(ctx context.Context, path string) ([]PageImage, error)
}

// Extractor calls a vision-language model with one page image and returns
// the parsed JSON body of the response as an untyped tree. The tree's shape
// is untrusted; the normalizer repairs it into a PageExtraction.
//
// Implementations must return an error with code ERATELIMIT when the
// upstream throttles, so the ingestion pipeline can apply its cooldown.
type Extractor interface {
	ExtractPage(ctx context.Context, docID string, page int, image []byte) (any, error)
}

// Phraser provides best-effort natural-language phrasing of verified
// results. It never alters the authoritative verdict; any failure degrades
// to "no rephrasing available".
type Phraser interface {
	// PhraseAnswer rephrases a verified fact into a one-sentence answer to
	// the question. Returns "" when the model cannot phrase it.
	PhraseAnswer(ctx context.Context, question, verifiedFact, coordinates string) (string, error)

	// PhraseRefusal phrases a short reason for refusing, given the per-kind
	// fact counts of the document. Returns "" when unavailable.
	PhraseRefusal(ctx context.Context, question string, counts FactCounts) (string, error)
}

// ProgressPhase identifies an ingestion phase.
type ProgressPhase string

// Ingestion phases, in emission order.
const (
	PhaseRendering      ProgressPhase = "rendering"
	PhaseExtracting     ProgressPhase = "extracting"
	PhaseCanonicalizing ProgressPhase = "canonicalizing"
	PhaseStoring        ProgressPhase = "storing"
	PhaseDone           ProgressPhase = "done"
)

// Progress reports ingestion progress for one document.
type Progress struct {
	Phase      ProgressPhase
	Page       int
	TotalPages int
}

// ProgressFunc is called as ingestion phases complete. It is a side channel
// with no effect on control flow.
type ProgressFunc func(Progress)
