// Package recordstore persists typed record collections as whole JSON documents.
//
// A Backend stores opaque named documents. A Collection wraps a Backend for
// one record type: it decodes the document into a slice, validates records on
// save and replaces the document in full.
//
//	backend, err := recordstore.NewFileBackend("./data")
//	books := recordstore.NewCollection[entities.Book](backend, "books", validation.New())
//
//	err = books.Mutate(func(all []entities.Book) ([]entities.Book, error) {
//	    return append(all, book), nil
//	})
package recordstore

import "errors"

// ErrDocumentNotFound is returned by a Backend when the named document has never been written.
var ErrDocumentNotFound = errors.New("document not found")

// Backend stores whole documents by name.
type Backend interface {
	// ReadDocument returns the document contents or ErrDocumentNotFound.
	ReadDocument(name string) ([]byte, error)
	// WriteDocument replaces the document in full.
	WriteDocument(name string, data []byte) error
	// DocumentNames lists the stored documents in lexical order.
	DocumentNames() ([]string, error)
}
