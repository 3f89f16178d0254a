package slog_test

import (
	"bytes"
	"context"
	stdslog "log/slog"
	"testing"

	"github.com/fwojciec/veridoc"
	"github.com/fwojciec/veridoc/mock"
	vslog "github.com/fwojciec/veridoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractor_PassesThrough(t *testing.T) {
	t.Parallel()

	inner := &mock.Extractor{
		ExtractPageFn: func(_ context.Context, docID string, page int, image []byte) (any, error) {
			assert.Equal(t, "doc1", docID)
			assert.Equal(t, 2, page)
			return map[string]any{"units": []any{}}, nil
		},
	}

	buf := &bytes.Buffer{}
	logger := stdslog.New(stdslog.NewTextHandler(buf, nil))
	extractor := vslog.NewLoggingExtractor(inner, logger)

	raw, err := extractor.ExtractPage(context.Background(), "doc1", 2, []byte("img"))
	require.NoError(t, err)
	assert.NotNil(t, raw)
	assert.Contains(t, buf.String(), "doc1")
}

func TestLoggingExtractor_LogsFailureCode(t *testing.T) {
	t.Parallel()

	inner := &mock.Extractor{
		ExtractPageFn: func(_ context.Context, _ string, _ int, _ []byte) (any, error) {
			return nil, veridoc.Errorf(veridoc.ERATELIMIT, "quota exceeded")
		},
	}

	buf := &bytes.Buffer{}
	logger := stdslog.New(stdslog.NewTextHandler(buf, nil))
	extractor := vslog.NewLoggingExtractor(inner, logger)

	_, err := extractor.ExtractPage(context.Background(), "doc1", 0, []byte("img"))
	require.Error(t, err)
	assert.Equal(t, veridoc.ERATELIMIT, veridoc.ErrorCode(err))
	assert.Contains(t, buf.String(), veridoc.ERATELIMIT)
}
