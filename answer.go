package veridoc

// Verdict statuses.
const (
	StatusAnswer = "answer"
	StatusRefuse = "refuse"
)

// ProofPoint is the evidentiary anchor returned with an answer: an exact
// (page, x, y) location in the source document, optionally with a region
// and the id of the canonical fact it came from.
type ProofPoint struct {
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	Page       int          `json:"page"`
	BBox       *BoundingBox `json:"bbox,omitempty"`
	SourceID   string       `json:"sourceId,omitempty"`
	SourceType SourceType   `json:"sourceType,omitempty"`
}

// Verdict is the result of verifying a question against a document's
// canonical facts: either an answer with a coordinate proof, or a refusal
// with a reason. It is one of exactly two shapes, discriminated by Status.
type Verdict struct {
	Status string `json:"status"`

	// Answer fields; Proof is non-empty when Status is StatusAnswer.
	Answer     string       `json:"answer,omitempty"`
	Proof      []ProofPoint `json:"proof,omitempty"`
	SourceID   string       `json:"sourceId,omitempty"`
	SourceType SourceType   `json:"sourceType,omitempty"`

	// Refusal field; set when Status is StatusRefuse.
	Reason string `json:"reason,omitempty"`
}

// Refused reports whether the verdict is a refusal.
func (v Verdict) Refused() bool { return v.Status == StatusRefuse }

// Answered returns an answer verdict backed by the given proof.
func Answered(answer string, proof ProofPoint) Verdict {
	return Verdict{
		Status:     StatusAnswer,
		Answer:     answer,
		Proof:      []ProofPoint{proof},
		SourceID:   proof.SourceID,
		SourceType: proof.SourceType,
	}
}

// Refusal returns a refuse verdict with the given reason.
func Refusal(reason string) Verdict {
	return Verdict{Status: StatusRefuse, Reason: reason}
}
