// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Storage Interfaces
//
//   - recordstore.Backend: whole-document reads and writes (internal/recordstore/backend.go).
//     Implemented by the JSON file backend and the SQLite database.
//   - recordstore.Record: anything kept in a Collection, keyed by Key().
//
// ## Data Access Interfaces
//
//   - books.OwnerChecker, quotes.OwnerChecker: owner existence checks, satisfied by users.Repository
//   - auth.UserRepository: user persistence used by the auth service
//   - analytics.BookLister, analytics.QuoteLister: per-owner listing for statistics
//   - exporters.BookLister, exporters.QuoteLister: per-owner listing for exports
//
// ## HTTP Stores
//
//   - BookStore, QuoteStore, StatsProvider, MarkdownRenderer (internal/http/stores.go)
//   - DocumentLister, Pinger: health checks
//
// # Adding a New Storage Backend
//
// A backend stores named documents. To keep records in, say, an object store:
//
//  1. Implement Backend in internal/recordstore/
//
//     type S3Backend struct {
//         client *s3.Client
//         bucket string
//     }
//
//     func (b *S3Backend) ReadDocument(name string) ([]byte, error)
//     func (b *S3Backend) WriteDocument(name string, data []byte) error
//     func (b *S3Backend) DocumentNames() ([]string, error)
//
//     var _ Backend = (*S3Backend)(nil)
//
//  2. Select it by STORAGE_BACKEND in entrypoint.NewApp
//
// ReadDocument must return recordstore.ErrDocumentNotFound for a document that has never been written.
//
// # Adding a New Export Format
//
//  1. Implement exporters.QuoteExporter
//
//     type CSVExporter struct {
//         books  BookLister
//         quotes QuoteLister
//     }
//
//     func (e *CSVExporter) Export(owner string) (ExportResult, error)
//
//  2. Add a command in internal/cli/ and a route in internal/http/router.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
