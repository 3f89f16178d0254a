package main

import (
	"fmt"

	"github.com/fwojciec/veridoc"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	docs, err := deps.Documents.FindDocuments(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", veridoc.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents found. Use 'veridoc ingest' to add one.")
		return nil
	}

	for _, doc := range docs {
		counts, err := deps.Facts.CountFactsByDocument(deps.Ctx, doc.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", veridoc.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %d pages  %d units  %d bijections  %d grids\n",
			doc.ID, doc.Filename, doc.PageCount, counts.Units, counts.Bijections, counts.Grids)
	}

	return nil
}
