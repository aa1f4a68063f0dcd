package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/entrypoint"
	"github.com/mrlokans/readinglog/internal/exporters"
)

type ExportMarkdownCommand struct {
	Username  string
	OutputDir string

	config *config.Config
}

func NewExportMarkdownCommand(cfg *config.Config) *ExportMarkdownCommand {
	return &ExportMarkdownCommand{config: cfg}
}

func (cmd *ExportMarkdownCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-markdown", flag.ContinueOnError)

	fs.StringVar(&cmd.Username, "user", "", "Username whose quotes to export (required)")
	fs.StringVar(&cmd.OutputDir, "out", cmd.config.Export.Dir, "Directory to write <username>.md into")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-markdown -user <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export a user's quotes, grouped by book, into a Markdown file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export-markdown -user alice\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export-markdown -user alice -out ./vault/quotes\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		fs.Usage()
		return fmt.Errorf("user is required")
	}

	return nil
}

func (cmd *ExportMarkdownCommand) Run() (exporters.ExportResult, error) {
	app, err := entrypoint.NewApp(cmd.config)
	if err != nil {
		return exporters.ExportResult{}, err
	}
	defer app.Close()

	exists, err := app.Users.Exists(cmd.Username)
	if err != nil {
		return exporters.ExportResult{}, err
	}
	if !exists {
		return exporters.ExportResult{}, fmt.Errorf("user %q not found", cmd.Username)
	}

	exporter := exporters.NewMarkdownExporter(cmd.OutputDir, app.Books, app.Quotes)
	result, err := exporter.Export(cmd.Username)
	if err != nil {
		return exporters.ExportResult{}, err
	}

	fmt.Printf("Exported %d quotes from %d books to %s\n", result.QuotesProcessed, result.BooksProcessed, result.Path)
	if result.OrphanQuotes > 0 {
		fmt.Printf("  %d quotes reference deleted books\n", result.OrphanQuotes)
	}
	return result, nil
}
