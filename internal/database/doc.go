// Package database provides the data access layer for the application.
//
// # Architecture
//
// Records live in whole-collection documents managed by internal/recordstore.
// This package provides the SQLite document backend and the typed
// repositories built on top of the record store:
//
//	database/
//	├── database.go      # SQLite document backend (gorm)
//	├── books/           # Book CRUD, filtering and sorting
//	├── quotes/          # Quote CRUD, filtering and sorting
//	└── users/           # User persistence
//
// # Choosing a Backend
//
// Repositories accept any recordstore.Backend:
//
//	// JSON files under ./data
//	backend, err := recordstore.NewFileBackend("./data")
//
//	// or a single SQLite file
//	backend, err := database.NewDatabase("./readinglog.db")
//
//	usersRepo := users.NewRepository(backend, v)
//	booksRepo := books.NewRepository(backend, usersRepo, v)
//
// Every repository call takes the owning username explicitly; nothing in
// this package keeps a "current user".
package database
