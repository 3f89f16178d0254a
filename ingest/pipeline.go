// Package ingest orchestrates one document's extraction: render pages,
// then per page call the extractor, normalize, canonicalize, and
// accumulate. Pages are processed strictly sequentially, in page order,
// which keeps upstream rate limits respected and synthetic-id namespacing
// collision-free. No single page's failure fails the whole ingest.
package ingest

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/veridoc"
	"github.com/fwojciec/veridoc/canonical"
	"github.com/fwojciec/veridoc/normalize"
	"github.com/google/uuid"
)

// DefaultRetryDelays returns the backoff delays applied when a page's
// extraction is throttled: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Summary describes the outcome of one document's ingestion.
type Summary struct {
	DocID       string `json:"docId"`
	Filename    string `json:"filename"`
	TotalPages  int    `json:"totalPages"`
	PagesFailed int    `json:"pagesFailed"`

	Counts veridoc.FactCounts `json:"counts"`

	// Dropped counts candidates excluded by canonical validation across all
	// pages. It is the only per-fact observability signal; individual drops
	// are silent.
	Dropped int `json:"dropped"`

	// LowConfidence is set when zero facts were produced across all pages.
	// It is a signal, not an error.
	LowConfidence bool `json:"lowConfidence"`

	// Partial is set when some but not all pages failed.
	Partial bool `json:"partial"`
}

// Pipeline ingests documents. Renderer and Extractor are required; the
// remaining fields are optional and default to no persistence, no pacing,
// no retries, and no progress reporting.
type Pipeline struct {
	renderer  veridoc.Renderer
	extractor veridoc.Extractor

	// Documents and Facts persist the ingested document and its canonical
	// facts. When nil, results are only returned to the caller.
	Documents veridoc.DocumentService
	Facts     veridoc.FactService

	// Throttle paces extraction calls. Nil means no pacing.
	Throttle Throttle

	// RetryDelays are slept between retries of a page whose extraction was
	// throttled. Nil means no per-page retry.
	RetryDelays []time.Duration

	// Progress receives ordered phase events. Nil means no reporting.
	Progress veridoc.ProgressFunc
}

// NewPipeline creates a Pipeline with default throttling and retries.
func NewPipeline(renderer veridoc.Renderer, extractor veridoc.Extractor) *Pipeline {
	return &Pipeline{
		renderer:    renderer,
		extractor:   extractor,
		Throttle:    &DelayThrottle{PageDelay: 2 * time.Second, Cooldown: 30 * time.Second},
		RetryDelays: DefaultRetryDelays(),
	}
}

// Ingest runs one document through the pipeline and returns the summary
// and the accumulated fact set. The source may be a file or a directory
// of page images; a missing source or a renderer failure is fatal, while
// per-page extraction failures are counted and the document continues.
// docID is generated when empty.
func (p *Pipeline) Ingest(ctx context.Context, path, docID string) (*Summary, veridoc.FactSet, error) {
	var set veridoc.FactSet

	if docID == "" {
		docID = uuid.New().String()
	}
	if err := veridoc.ValidateDocID(docID); err != nil {
		return nil, set, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, set, veridoc.Errorf(veridoc.ENOTFOUND, "source %q not readable: %v", path, err)
	}
	var content []byte
	if !info.IsDir() {
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, set, veridoc.Errorf(veridoc.ENOTFOUND, "source file %q not readable: %v", path, err)
		}
	}

	p.emit(veridoc.Progress{Phase: veridoc.PhaseRendering})
	pages, err := p.renderer.RenderPages(ctx, path)
	if err != nil {
		return nil, set, err
	}

	// Directory sources have no single file to hash; hash the rendered
	// page bytes instead so the stored hash still tracks content.
	contentHash := hashContent(content)
	if info.IsDir() {
		contentHash = hashPages(pages)
	}

	summary := &Summary{
		DocID:      docID,
		Filename:   filepath.Base(path),
		TotalPages: len(pages),
	}

	dropped := 0
	for i, page := range pages {
		if i > 0 && p.Throttle != nil {
			if err := p.Throttle.BeforePage(ctx, page.Page); err != nil {
				return nil, set, err
			}
		}
		p.emit(veridoc.Progress{Phase: veridoc.PhaseExtracting, Page: page.Page, TotalPages: len(pages)})

		raw, err := p.extractPage(ctx, docID, page)
		if err != nil {
			summary.PagesFailed++
			if veridoc.ErrorCode(err) == veridoc.ERATELIMIT && p.Throttle != nil {
				if err := p.Throttle.AfterRateLimit(ctx); err != nil {
					return nil, set, err
				}
			}
			continue
		}

		p.emit(veridoc.Progress{Phase: veridoc.PhaseCanonicalizing, Page: page.Page, TotalPages: len(pages)})
		ext := normalize.Page(raw, page.Page)
		facts, pageDropped := canonical.Page(ext, docID, page.Page)
		set.Append(facts)
		dropped += pageDropped
	}

	summary.Counts = set.Counts()
	summary.Dropped = dropped
	summary.LowConfidence = set.Empty()
	summary.Partial = summary.PagesFailed > 0 && summary.PagesFailed < summary.TotalPages

	if p.Documents != nil || p.Facts != nil {
		p.emit(veridoc.Progress{Phase: veridoc.PhaseStoring, TotalPages: len(pages)})
	}
	if p.Documents != nil {
		doc := &veridoc.Document{
			ID:          docID,
			Filename:    summary.Filename,
			PageCount:   summary.TotalPages,
			ContentHash: contentHash,
		}
		if err := p.Documents.CreateDocument(ctx, doc); err != nil {
			return nil, set, err
		}
	}
	if p.Facts != nil {
		if err := p.Facts.CreateFacts(ctx, docID, set); err != nil {
			return nil, set, err
		}
	}

	p.emit(veridoc.Progress{Phase: veridoc.PhaseDone, TotalPages: len(pages)})
	return summary, set, nil
}

// extractPage calls the extractor, retrying only rate-limit failures with
// the configured backoff delays. Other failures return immediately.
func (p *Pipeline) extractPage(ctx context.Context, docID string, page veridoc.PageImage) (any, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		raw, err := p.extractor.ExtractPage(ctx, docID, page.Page, page.Data)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if veridoc.ErrorCode(err) != veridoc.ERATELIMIT || attempt >= len(p.RetryDelays) {
			return nil, lastErr
		}
		if err := sleep(ctx, p.RetryDelays[attempt]); err != nil {
			return nil, err
		}
	}
}

func (p *Pipeline) emit(progress veridoc.Progress) {
	if p.Progress != nil {
		p.Progress(progress)
	}
}

// hashContent computes xxHash of content and returns it as hex.
func hashContent(content []byte) string {
	return hexSum(xxhash.Sum64(content))
}

// hashPages computes xxHash over the page images in order.
func hashPages(pages []veridoc.PageImage) string {
	d := xxhash.New()
	for _, page := range pages {
		_, _ = d.Write(page.Data)
	}
	return hexSum(d.Sum64())
}

func hexSum(h uint64) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, h)
	return hex.EncodeToString(b)
}
