package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/veridoc"
	"github.com/fwojciec/veridoc/gemini"
	"github.com/fwojciec/veridoc/sqlite"
	vslog "github.com/fwojciec/veridoc/slog"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	DocumentService veridoc.DocumentService
	FactService     veridoc.FactService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("veridoc"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'veridoc --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// First word of the resolved command ("ingest <paths>" -> "ingest");
	// global flags make args[0] unreliable for this.
	cmdName, _, _ := strings.Cut(kongCtx.Command(), " ")

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set VERIDOC_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.DocumentService = sqlite.NewDocumentService(m.DB)
	m.FactService = sqlite.NewFactService(m.DB)
	deps.DB = m.DB
	deps.Documents = m.DocumentService
	deps.Facts = m.FactService

	if cli.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	// The ingest command needs the vision model; ask uses it only for
	// best-effort phrasing and works offline without it.
	if cmdName == "ingest" || (cmdName == "ask" && os.Getenv("GEMINI_API_KEY") != "") {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		model := defaultModel()
		deps.Extractor = gemini.NewExtractor(client, model)
		deps.Phraser = gemini.NewPhraser(client, model)

		if deps.Logger != nil {
			deps.Extractor = vslog.NewLoggingExtractor(deps.Extractor, deps.Logger)
		}
	}

	return kongCtx.Run(deps)
}

func defaultModel() string {
	if model := os.Getenv("VERIDOC_GEMINI_MODEL"); model != "" {
		return model
	}
	return gemini.DefaultModel
}

func defaultDBPath() string {
	if path := os.Getenv("VERIDOC_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "veridoc.db"
	}
	dir := filepath.Join(home, ".veridoc")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "veridoc.db")
}
