// Package pdfcpu implements page rendering for scanned PDFs using the
// pdfcpu toolkit. pdfcpu does not rasterize vector content; this renderer
// extracts the embedded page images that scanned datasheets consist of.
// Pages without an extractable image are omitted, never fatal.
package pdfcpu

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/veridoc"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Ensure Renderer implements veridoc.Renderer at compile time.
var _ veridoc.Renderer = (*Renderer)(nil)

// Renderer extracts page images from a PDF file.
type Renderer struct {
	conf *model.Configuration
}

// NewRenderer creates a new Renderer with the default pdfcpu
// configuration.
func NewRenderer() *Renderer {
	return &Renderer{conf: model.NewDefaultConfiguration()}
}

// RenderPages extracts one image per page from the PDF at path. The
// returned page indices are 0-based positions of the pages an image was
// recovered from, so gaps from unextractable pages are preserved.
func (r *Renderer) RenderPages(_ context.Context, path string) ([]veridoc.PageImage, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, veridoc.Errorf(veridoc.EINVALID, "failed to read PDF %q: %v", path, err)
	}
	pageCount := pdfCtx.PageCount

	outDir, err := os.MkdirTemp("", "veridoc-pages-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractImagesFile(path, outDir, nil, r.conf); err != nil {
		return nil, veridoc.Errorf(veridoc.EINVALID, "failed to extract page images from %q: %v", path, err)
	}

	// pdfcpu names extracted files <base>_<page>_<objNr>.<ext>; group by
	// page and keep the first image found for each.
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	byPage := make(map[int][]byte, pageCount)
	for _, name := range names {
		pageNr, ok := pageNumber(name)
		if !ok {
			continue
		}
		if _, seen := byPage[pageNr]; seen {
			continue
		}
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			continue
		}
		byPage[pageNr] = data
	}

	pages := make([]veridoc.PageImage, 0, len(byPage))
	for pageNr := 1; pageNr <= pageCount; pageNr++ {
		data, ok := byPage[pageNr]
		if !ok {
			continue
		}
		pages = append(pages, veridoc.PageImage{Page: pageNr - 1, Data: data})
	}
	return pages, nil
}

// pageNumber parses the 1-based page number out of an extracted image
// filename.
func pageNumber(name string) (int, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return 0, false
	}
	var pageNr int
	if _, err := fmt.Sscanf(parts[len(parts)-2], "%d", &pageNr); err != nil {
		return 0, false
	}
	if pageNr < 1 {
		return 0, false
	}
	return pageNr, true
}
