package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/veridoc"
	"github.com/fwojciec/veridoc/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ExtractPage_ReturnsErrorWhenDocIDEmpty(t *testing.T) {
	t.Parallel()

	extractor := gemini.NewExtractor(nil, "") // nil client ok for this test

	_, err := extractor.ExtractPage(context.Background(), "", 0, []byte("img"))

	require.Error(t, err)
	assert.Equal(t, veridoc.EINVALID, veridoc.ErrorCode(err))
	assert.Contains(t, veridoc.ErrorMessage(err), "document ID required")
}

func TestExtractor_ExtractPage_ReturnsErrorWhenImageEmpty(t *testing.T) {
	t.Parallel()

	extractor := gemini.NewExtractor(nil, "")

	_, err := extractor.ExtractPage(context.Background(), "doc1", 0, nil)

	require.Error(t, err)
	assert.Equal(t, veridoc.EINVALID, veridoc.ErrorCode(err))
	assert.Contains(t, veridoc.ErrorMessage(err), "page image required")
}

func TestBuildExtractPrompt(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildExtractPrompt("ds-3231", 4)

	assert.Contains(t, prompt, "page 4 of document ds-3231")
	assert.Contains(t, prompt, "units")
	assert.Contains(t, prompt, "bijections")
	assert.Contains(t, prompt, "grids")
	assert.Contains(t, prompt, "origin.x")
}

func TestBuildExtractConfig(t *testing.T) {
	t.Parallel()

	cfg := gemini.BuildExtractConfig()

	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	require.NotNil(t, cfg.Temperature)
	assert.Zero(t, *cfg.Temperature)
}

func TestDecodeRaw(t *testing.T) {
	t.Parallel()

	t.Run("plain JSON", func(t *testing.T) {
		t.Parallel()

		raw := gemini.DecodeRaw(`{"units": []}`)
		m, ok := raw.(map[string]any)
		require.True(t, ok)
		assert.Contains(t, m, "units")
	})

	t.Run("fenced JSON", func(t *testing.T) {
		t.Parallel()

		raw := gemini.DecodeRaw("```json\n{\"units\": [{\"value\": \"5\"}]}\n```")
		m, ok := raw.(map[string]any)
		require.True(t, ok)
		assert.Contains(t, m, "units")
	})

	t.Run("fence without language tag", func(t *testing.T) {
		t.Parallel()

		raw := gemini.DecodeRaw("```\n{\"grids\": []}\n```")
		assert.NotNil(t, raw)
	})

	t.Run("unparsable text decodes to nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, gemini.DecodeRaw("I could not find any facts."))
		assert.Nil(t, gemini.DecodeRaw(""))
		assert.Nil(t, gemini.DecodeRaw("   "))
	})
}
