package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/readinglog/internal/analytics"
	"github.com/mrlokans/readinglog/internal/auth"
	"github.com/mrlokans/readinglog/internal/database"
	"github.com/mrlokans/readinglog/internal/database/books"
	"github.com/mrlokans/readinglog/internal/database/quotes"
	"github.com/mrlokans/readinglog/internal/database/users"
	"github.com/mrlokans/readinglog/internal/exporters"
	"github.com/mrlokans/readinglog/internal/http"
	"github.com/mrlokans/readinglog/internal/recordstore"
	"github.com/mrlokans/readinglog/internal/validation"
)

// =============================================================================
// Storage
// =============================================================================

// Backend implementations
var _ recordstore.Backend = (*recordstore.FileBackend)(nil)
var _ recordstore.Backend = (*database.Database)(nil)

// Record implementations are checked by recordstore.Collection's type constraint.

// =============================================================================
// Data Access Layer
// =============================================================================

// Owner checks
var _ books.OwnerChecker = (*users.Repository)(nil)
var _ quotes.OwnerChecker = (*users.Repository)(nil)
var _ quotes.BookLister = (*books.Repository)(nil)

// Validators
var _ recordstore.Validator = (*validation.Validator)(nil)
var _ auth.Validator = (*validation.Validator)(nil)
var _ books.Validator = (*validation.Validator)(nil)
var _ quotes.Validator = (*validation.Validator)(nil)

// UserRepository implementations
var _ auth.UserRepository = (*users.Repository)(nil)

// =============================================================================
// HTTP Stores
// =============================================================================

var _ http.BookStore = (*books.Repository)(nil)
var _ http.QuoteStore = (*quotes.Repository)(nil)
var _ http.StatsProvider = (*analytics.Aggregator)(nil)
var _ http.MarkdownRenderer = (*exporters.MarkdownExporter)(nil)
var _ http.Pinger = (*database.Database)(nil)
var _ http.DocumentLister = (*recordstore.FileBackend)(nil)

// =============================================================================
// Analytics and Export
// =============================================================================

var _ analytics.BookLister = (*books.Repository)(nil)
var _ analytics.QuoteLister = (*quotes.Repository)(nil)
var _ exporters.BookLister = (*books.Repository)(nil)
var _ exporters.QuoteLister = (*quotes.Repository)(nil)
var _ exporters.QuoteExporter = (*exporters.MarkdownExporter)(nil)
