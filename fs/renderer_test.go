package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/veridoc"
	"github.com/fwojciec/veridoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_RenderPages(t *testing.T) {
	t.Parallel()

	t.Run("reads images in name order with positional page indices", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "page_02.png"), []byte("second"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "page_01.png"), []byte("first"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "page_03.jpg"), []byte("third"), 0644))

		pages, err := fs.NewRenderer().RenderPages(context.Background(), dir)
		require.NoError(t, err)

		require.Len(t, pages, 3)
		assert.Equal(t, veridoc.PageImage{Page: 0, Data: []byte("first")}, pages[0])
		assert.Equal(t, veridoc.PageImage{Page: 1, Data: []byte("second")}, pages[1])
		assert.Equal(t, veridoc.PageImage{Page: 2, Data: []byte("third")}, pages[2])
	})

	t.Run("skips non-image files and subdirectories", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "page.png"), []byte("img"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("txt"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "thumbs"), 0755))

		pages, err := fs.NewRenderer().RenderPages(context.Background(), dir)
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, []byte("img"), pages[0].Data)
	})

	t.Run("missing directory returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewRenderer().RenderPages(context.Background(), "/nonexistent/pages")
		require.Error(t, err)
		assert.Equal(t, veridoc.ENOTFOUND, veridoc.ErrorCode(err))
	})

	t.Run("empty directory yields no pages", func(t *testing.T) {
		t.Parallel()

		pages, err := fs.NewRenderer().RenderPages(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, pages)
	})
}
