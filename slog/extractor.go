// Package slog provides logging decorators for veridoc services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/veridoc"
)

// Ensure LoggingExtractor implements veridoc.Extractor.
var _ veridoc.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with per-page call logging.
type LoggingExtractor struct {
	next   veridoc.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next veridoc.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractPage delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) ExtractPage(ctx context.Context, docID string, page int, image []byte) (any, error) {
	begin := time.Now()
	raw, err := e.next.ExtractPage(ctx, docID, page, image)
	if err != nil {
		e.logger.Warn("page extraction failed",
			"doc", docID,
			"page", page,
			"code", veridoc.ErrorCode(err),
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	e.logger.Info("page extracted",
		"doc", docID,
		"page", page,
		"duration", time.Since(begin),
	)
	return raw, nil
}
