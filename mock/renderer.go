package mock

import (
	"context"

	"github.com/fwojciec/veridoc"
)

var _ veridoc.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of veridoc.Renderer.
type Renderer struct {
	RenderPagesFn func(ctx context.Context, path string) ([]veridoc.PageImage, error)
}

func (r *Renderer) RenderPages(ctx context.Context, path string) ([]veridoc.PageImage, error) {
	return r.RenderPagesFn(ctx, path)
}
