package exporters

import (
	"bytes"
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/readinglog/internal/database/books"
	"github.com/mrlokans/readinglog/internal/database/quotes"
	"github.com/mrlokans/readinglog/internal/entities"
	"github.com/mrlokans/readinglog/internal/utils"
)

// UnknownBookTitle heads the section for quotes whose book no longer exists.
const UnknownBookTitle = quotes.UnknownBookTitle

type BookLister interface {
	List(owner string, q books.Query) ([]entities.Book, error)
}

type QuoteLister interface {
	List(owner string, q quotes.Query) ([]entities.Quote, error)
}

type frontMatter struct {
	Title       string   `yaml:"title"`
	Owner       string   `yaml:"owner"`
	ContentType string   `yaml:"content_type"`
	ExportedAt  string   `yaml:"exported_at"`
	Books       int      `yaml:"books"`
	Quotes      int      `yaml:"quotes"`
	Tags        []string `yaml:"tags,flow"`
}

type bookSection struct {
	title  string
	author string
	quotes []entities.Quote
}

// GenerateMarkdown renders owner's quotes grouped by book. Sections follow
// the stored book order; quotes inside a section are ordered by page, and
// quotes referencing a missing book come last under UnknownBookTitle.
func GenerateMarkdown(owner string, bookList []entities.Book, quoteList []entities.Quote, exportedAt time.Time) ([]byte, ExportResult, error) {
	byBook := map[string][]entities.Quote{}
	for _, quote := range quoteList {
		byBook[quote.BookID] = append(byBook[quote.BookID], quote)
	}

	var sections []bookSection
	result := ExportResult{QuotesProcessed: len(quoteList)}
	for _, book := range bookList {
		bookQuotes, ok := byBook[book.ID]
		if !ok {
			continue
		}
		delete(byBook, book.ID)
		sections = append(sections, bookSection{title: book.Title, author: book.Author, quotes: bookQuotes})
		result.BooksProcessed++
	}

	var orphans []entities.Quote
	for _, quote := range quoteList {
		if _, ok := byBook[quote.BookID]; ok {
			orphans = append(orphans, quote)
		}
	}
	if len(orphans) > 0 {
		sections = append(sections, bookSection{title: UnknownBookTitle, quotes: orphans})
		result.OrphanQuotes = len(orphans)
	}

	header, err := yaml.Marshal(frontMatter{
		Title:       fmt.Sprintf("Quotes of %s", owner),
		Owner:       owner,
		ContentType: "quotes",
		ExportedAt:  exportedAt.UTC().Format(time.RFC3339),
		Books:       result.BooksProcessed,
		Quotes:      result.QuotesProcessed,
		Tags:        []string{"quotes", "books"},
	})
	if err != nil {
		return nil, ExportResult{}, fmt.Errorf("encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")

	for _, section := range sections {
		fmt.Fprintf(&buf, "## %s\n\n", section.title)
		if section.author != "" {
			fmt.Fprintf(&buf, "*%s*\n\n", section.author)
		}

		sorted := slices.Clone(section.quotes)
		slices.SortStableFunc(sorted, func(a, b entities.Quote) int {
			return comparePage(a.Page, b.Page)
		})
		for _, quote := range sorted {
			fmt.Fprintf(&buf, "> %s\n\n", strings.ReplaceAll(quote.Text, "\n", "\n> "))
			if meta := quoteMeta(quote); meta != "" {
				fmt.Fprintf(&buf, "%s\n\n", meta)
			}
		}
	}

	return buf.Bytes(), result, nil
}

func quoteMeta(quote entities.Quote) string {
	var parts []string
	if quote.Page != nil {
		parts = append(parts, fmt.Sprintf("Page %d", *quote.Page))
	}
	if len(quote.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(quote.Tags, ", "))
	}
	return strings.Join(parts, " | ")
}

// comparePage orders quotes without a page first.
func comparePage(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

// MarkdownExporter writes one <owner>.md file per user into a directory.
type MarkdownExporter struct {
	dir    string
	books  BookLister
	quotes QuoteLister
	now    func() time.Time
}

func NewMarkdownExporter(dir string, bookLister BookLister, quoteLister QuoteLister) *MarkdownExporter {
	return &MarkdownExporter{
		dir:    dir,
		books:  bookLister,
		quotes: quoteLister,
		now:    time.Now,
	}
}

// Render produces owner's export without writing it.
func (exporter *MarkdownExporter) Render(owner string) ([]byte, ExportResult, error) {
	bookList, err := exporter.books.List(owner, books.Query{})
	if err != nil {
		return nil, ExportResult{}, fmt.Errorf("load books: %w", err)
	}
	quoteList, err := exporter.quotes.List(owner, quotes.Query{})
	if err != nil {
		return nil, ExportResult{}, fmt.Errorf("load quotes: %w", err)
	}
	return GenerateMarkdown(owner, bookList, quoteList, exporter.now())
}

// Export renders owner's quotes and atomically replaces <dir>/<owner>.md.
func (exporter *MarkdownExporter) Export(owner string) (ExportResult, error) {
	content, result, err := exporter.Render(owner)
	if err != nil {
		return ExportResult{}, err
	}

	if err := os.MkdirAll(exporter.dir, 0755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	outputPath := filepath.Join(exporter.dir, utils.SanitizeFilename(owner)+".md")
	if err := utils.WriteFileAtomic(outputPath, content); err != nil {
		return ExportResult{}, fmt.Errorf("write export: %w", err)
	}

	result.Path = outputPath
	return result, nil
}
