package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/veridoc"
)

// Run executes the facts command.
func (c *FactsCmd) Run(deps *Dependencies) error {
	if _, err := deps.Documents.FindDocumentByID(deps.Ctx, c.ID); err != nil {
		if veridoc.ErrorCode(err) == veridoc.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: document %q not found. Use 'veridoc list' to see ingested documents.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", veridoc.ErrorMessage(err))
		return err
	}

	set, err := deps.Facts.FindFactsByDocument(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", veridoc.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	}

	if set.Empty() {
		fmt.Fprintf(deps.Stdout, "No facts for document %q\n", c.ID)
		return nil
	}

	for _, u := range set.Units {
		fmt.Fprintf(deps.Stdout, "unit      p%d  %s  %s\n", u.Page, u.ID, u.Text())
	}
	for _, b := range set.Bijections {
		fmt.Fprintf(deps.Stdout, "bijection p%d  %s  %d pairs\n", b.Page, b.ID, len(b.Mapping))
	}
	for _, g := range set.Grids {
		fmt.Fprintf(deps.Stdout, "grid      p%d  %s  %dx%d, %d cells\n", g.Page, g.ID, g.Rows, g.Cols, len(g.Cells))
	}

	return nil
}
