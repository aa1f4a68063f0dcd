package http

import (
	"github.com/mrlokans/readinglog/internal/analytics"
	"github.com/mrlokans/readinglog/internal/database/books"
	"github.com/mrlokans/readinglog/internal/database/quotes"
	"github.com/mrlokans/readinglog/internal/entities"
	"github.com/mrlokans/readinglog/internal/exporters"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Every call is scoped to the owner username taken from the session.

// BookStore manages a user's books.
type BookStore interface {
	Add(owner string, in books.Input) (*entities.Book, error)
	List(owner string, q books.Query) ([]entities.Book, error)
	Get(owner, id string) (*entities.Book, error)
	Update(owner, id string, changes books.Update) (*entities.Book, error)
	Delete(owner, id string) error
}

// QuoteStore manages a user's quotes.
type QuoteStore interface {
	Add(owner string, in quotes.Input) (*entities.Quote, error)
	List(owner string, q quotes.Query) ([]entities.Quote, error)
	Get(owner, id string) (*entities.Quote, error)
	Update(owner, id string, changes quotes.Update) (*entities.Quote, error)
	Delete(owner, id string) error
}

// StatsProvider computes reading statistics.
type StatsProvider interface {
	Stats(owner string) (*analytics.Stats, error)
	FinishedInYear(owner string, year int) ([]entities.Book, error)
}

// MarkdownRenderer renders a user's quote export.
type MarkdownRenderer interface {
	Render(owner string) ([]byte, exporters.ExportResult, error)
}

// DocumentLister is satisfied by every record-store backend.
type DocumentLister interface {
	DocumentNames() ([]string, error)
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping() error
}
