// Package fs provides filesystem-based implementations of veridoc services.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/veridoc"
)

// imageExtensions are the page image formats the renderer accepts.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Ensure Renderer implements veridoc.Renderer at compile time.
var _ veridoc.Renderer = (*Renderer)(nil)

// Renderer reads pre-rendered page images from a directory. Files are
// ordered by name; page indices are assigned from position, 0-based.
// Unreadable files are skipped rather than failing the document.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderPages reads the image files under path in name order.
func (r *Renderer) RenderPages(_ context.Context, path string) ([]veridoc.PageImage, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, veridoc.Errorf(veridoc.ENOTFOUND, "page directory %q not readable: %v", path, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	pages := make([]veridoc.PageImage, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(path, name))
		if err != nil {
			continue
		}
		pages = append(pages, veridoc.PageImage{Page: len(pages), Data: data})
	}
	return pages, nil
}
