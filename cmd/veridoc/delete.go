package main

import (
	"fmt"

	"github.com/fwojciec/veridoc"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return veridoc.Errorf(veridoc.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Documents.DeleteDocument(deps.Ctx, c.ID); err != nil {
		if veridoc.ErrorCode(err) == veridoc.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: document %q not found. Use 'veridoc list' to see ingested documents.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", veridoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted document %q\n", c.ID)
	return nil
}
