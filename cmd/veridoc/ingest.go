package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/veridoc"
	"github.com/fwojciec/veridoc/fs"
	"github.com/fwojciec/veridoc/ingest"
	"github.com/fwojciec/veridoc/pdfcpu"
	vslog "github.com/fwojciec/veridoc/slog"
	"golang.org/x/sync/errgroup"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	if len(c.Paths) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no input paths\n")
		return veridoc.Errorf(veridoc.EINVALID, "no input paths")
	}
	if c.ID != "" && len(c.Paths) > 1 {
		fmt.Fprintf(deps.Stderr, "error: --id is only valid with a single path\n")
		return veridoc.Errorf(veridoc.EINVALID, "--id is only valid with a single path")
	}

	// A shared limiter keeps concurrent documents inside one upstream
	// quota. Without --rps each pipeline paces itself.
	var shared ingest.Throttle
	if c.RPS > 0 {
		shared = ingest.NewLimiterThrottle(c.RPS, 30*time.Second)
	}

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(max(c.Concurrency, 1))

	for _, path := range c.Paths {
		g.Go(func() error {
			pipeline := ingest.NewPipeline(rendererFor(path), deps.Extractor)
			pipeline.Documents = deps.Documents
			pipeline.Facts = deps.Facts
			if shared != nil {
				pipeline.Throttle = shared
			}
			if deps.Logger != nil {
				pipeline.Progress = vslog.ProgressLogger(deps.Logger)
			} else if len(c.Paths) == 1 {
				pipeline.Progress = func(p veridoc.Progress) {
					if p.Phase == veridoc.PhaseExtracting {
						fmt.Fprintf(deps.Stdout, "  page %d/%d\n", p.Page+1, p.TotalPages)
					}
				}
			}

			summary, _, err := pipeline.Ingest(ctx, path, c.ID)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s: %s\n", path, veridoc.ErrorMessage(err))
				return err
			}
			printSummary(deps, summary)
			return nil
		})
	}

	return g.Wait()
}

func printSummary(deps *Dependencies, s *ingest.Summary) {
	fmt.Fprintf(deps.Stdout, "Ingested %q as %s: %d pages, %d units, %d bijections, %d grids\n",
		s.Filename, s.DocID, s.TotalPages, s.Counts.Units, s.Counts.Bijections, s.Counts.Grids)
	if s.Dropped > 0 {
		fmt.Fprintf(deps.Stdout, "  %d candidates dropped by validation\n", s.Dropped)
	}
	if s.Partial {
		fmt.Fprintf(deps.Stderr, "  warning: %d of %d pages failed\n", s.PagesFailed, s.TotalPages)
	}
	if s.LowConfidence {
		fmt.Fprintf(deps.Stderr, "  warning: no facts extracted; answers will refuse\n")
	}
}

// rendererFor picks a page renderer by source type: a directory of page
// images or a PDF file.
func rendererFor(path string) veridoc.Renderer {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fs.NewRenderer()
	}
	return pdfcpu.NewRenderer()
}
