package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/veridoc"
	"github.com/fwojciec/veridoc/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	DB        *sqlite.DB
	Documents veridoc.DocumentService
	Facts     veridoc.FactService
	Extractor veridoc.Extractor
	Phraser   veridoc.Phraser

	// Logger is set in verbose mode; commands fall back to plain stdout
	// progress when nil.
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log extraction calls and progress to stderr"`

	Ingest IngestCmd `cmd:"" help:"Ingest documents and extract canonical facts"`
	Ask    AskCmd    `cmd:"" help:"Ask a question about an ingested document"`
	List   ListCmd   `cmd:"" help:"List ingested documents"`
	Facts  FactsCmd  `cmd:"" help:"Show canonical facts for a document"`
	Delete DeleteCmd `cmd:"" help:"Delete a document and its facts"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Paths       []string `arg:"" help:"PDF files or page-image directories"`
	ID          string   `help:"Document ID (single path only; generated when omitted)"`
	Concurrency int      `short:"c" default:"1" help:"Concurrent document limit"`
	RPS         float64  `name:"rps" help:"Shared extraction rate limit in requests per second"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	ID       string `arg:"" help:"Document ID"`
	Question string `arg:"" help:"Question to ask about the document"`
	JSON     bool   `help:"Print the raw verdict as JSON"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// FactsCmd is the "facts" subcommand.
type FactsCmd struct {
	ID   string `arg:"" help:"Document ID"`
	JSON bool   `help:"Print the full fact set as JSON"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Document ID"`
	Force bool   `help:"Confirm deletion"`
}
