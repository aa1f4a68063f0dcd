package entrypoint

import (
	"fmt"
	"log"

	"github.com/mrlokans/readinglog/internal/analytics"
	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/database"
	"github.com/mrlokans/readinglog/internal/database/books"
	"github.com/mrlokans/readinglog/internal/database/quotes"
	"github.com/mrlokans/readinglog/internal/database/users"
	"github.com/mrlokans/readinglog/internal/exporters"
	"github.com/mrlokans/readinglog/internal/recordstore"
	"github.com/mrlokans/readinglog/internal/validation"
)

// App holds the data layer shared by the server and the CLI commands.
type App struct {
	Backend  recordstore.Backend
	Database *database.Database // nil for the JSON backend

	Validator  *validation.Validator
	Users      *users.Repository
	Books      *books.Repository
	Quotes     *quotes.Repository
	Aggregator *analytics.Aggregator
	Exporter   *exporters.MarkdownExporter
}

// NewApp opens the configured storage backend and wires the repositories on top of it.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{}

	switch cfg.Storage.Backend {
	case config.StorageJSON, "":
		backend, err := recordstore.NewFileBackend(cfg.Storage.DataDir)
		if err != nil {
			return nil, err
		}
		log.Printf("Storage: JSON documents in %s", backend.Dir())
		app.Backend = backend
	case config.StorageSQLite:
		db, err := database.NewDatabase(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Printf("Storage: SQLite database at %s", cfg.Storage.DatabasePath)
		app.Backend = db
		app.Database = db
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected %q or %q)",
			cfg.Storage.Backend, config.StorageJSON, config.StorageSQLite)
	}

	app.Validator = validation.New()
	app.Users = users.NewRepository(app.Backend, app.Validator)
	app.Books = books.NewRepository(app.Backend, app.Users, app.Validator)
	app.Quotes = quotes.NewRepository(app.Backend, app.Users, app.Books, app.Validator)
	app.Aggregator = analytics.NewAggregator(app.Books, app.Quotes)
	app.Exporter = exporters.NewMarkdownExporter(cfg.Export.Dir, app.Books, app.Quotes)

	return app, nil
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.Database != nil {
		return a.Database.Close()
	}
	return nil
}
