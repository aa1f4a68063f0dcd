package exporters

// QuoteExporter writes a user's quote collection somewhere outside the data directory.
type QuoteExporter interface {
	Export(owner string) (ExportResult, error)
}

type ExportResult struct {
	Path            string `json:"path,omitempty"`
	BooksProcessed  int    `json:"books_processed"`
	QuotesProcessed int    `json:"quotes_processed"`
	OrphanQuotes    int    `json:"orphan_quotes"`
}
