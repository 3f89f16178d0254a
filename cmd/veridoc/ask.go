package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/veridoc"
	"github.com/fwojciec/veridoc/verify"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	doc, err := deps.Documents.FindDocumentByID(deps.Ctx, c.ID)
	if err != nil {
		if veridoc.ErrorCode(err) == veridoc.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: document %q not found. Use 'veridoc list' to see ingested documents.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", veridoc.ErrorMessage(err))
		return err
	}

	set, err := deps.Facts.FindFactsByDocument(deps.Ctx, doc.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", veridoc.ErrorMessage(err))
		return err
	}

	verdict := verify.Answer(c.Question, set)

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(verdict)
	}

	if verdict.Refused() {
		fmt.Fprintf(deps.Stdout, "REFUSE: %s\n", verdict.Reason)
		if phrased := phraseRefusal(deps, c.Question, set); phrased != "" {
			fmt.Fprintf(deps.Stdout, "%s\n", phrased)
		}
		return nil
	}

	coords := verify.CoordinateSummary(verdict.Proof)
	if phrased := phraseAnswer(deps, c.Question, verdict.Answer, coords); phrased != "" {
		fmt.Fprintf(deps.Stdout, "%s\n", phrased)
	} else {
		fmt.Fprintf(deps.Stdout, "%s\n", verdict.Answer)
	}
	fmt.Fprintf(deps.Stdout, "  proof: %s\n", coords)
	return nil
}

// phraseAnswer is best-effort; the verdict stands regardless of phrasing.
func phraseAnswer(deps *Dependencies, question, answer, coords string) string {
	if deps.Phraser == nil {
		return ""
	}
	phrased, err := deps.Phraser.PhraseAnswer(deps.Ctx, question, answer, coords)
	if err != nil {
		return ""
	}
	return phrased
}

func phraseRefusal(deps *Dependencies, question string, set veridoc.FactSet) string {
	if deps.Phraser == nil {
		return ""
	}
	phrased, err := deps.Phraser.PhraseRefusal(deps.Ctx, question, set.Counts())
	if err != nil {
		return ""
	}
	return phrased
}
