package slog

import (
	"log/slog"

	"github.com/fwojciec/veridoc"
)

// ProgressLogger returns a ProgressFunc that logs each ingestion phase.
func ProgressLogger(logger *slog.Logger) veridoc.ProgressFunc {
	return func(p veridoc.Progress) {
		logger.Info("ingest progress",
			"phase", string(p.Phase),
			"page", p.Page,
			"total", p.TotalPages,
		)
	}
}
