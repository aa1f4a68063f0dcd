// Package books provides persistence, filtering and sorting for a user's books.
//
// # Usage
//
//	repo := books.NewRepository(backend, usersRepo, validation.New())
//	book, err := repo.Add("alice", books.Input{Title: "Dune", Author: "Herbert", Status: entities.StatusReading})
//	for book, err := range repo.All("alice", books.Query{Sort: books.SortRating, Desc: true}) {
//	    ...
//	}
package books

import (
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/readinglog/internal/entities"
	domainerrors "github.com/mrlokans/readinglog/internal/errors"
	"github.com/mrlokans/readinglog/internal/recordstore"
	"github.com/mrlokans/readinglog/internal/utils"
)

// CollectionName is the document holding every user's books.
const CollectionName = "books"

// OwnerChecker reports whether a username belongs to a registered user.
type OwnerChecker interface {
	Exists(username string) (bool, error)
}

// Validator validates a book before it is stored.
type Validator interface {
	Validate(s any) error
}

// Repository handles all book persistence.
type Repository struct {
	books     *recordstore.Collection[entities.Book]
	owners    OwnerChecker
	validator Validator
	now       func() time.Time
}

// NewRepository creates a new books repository.
func NewRepository(backend recordstore.Backend, owners OwnerChecker, validator Validator) *Repository {
	return &Repository{
		books:     recordstore.NewCollection[entities.Book](backend, CollectionName, validator),
		owners:    owners,
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Input holds the fields of a new book.
type Input struct {
	Title  string              `json:"title"`
	Author string              `json:"author"`
	Genres []string            `json:"genres"`
	Status entities.BookStatus `json:"status"`
	Rating *int                `json:"rating"`
	Notes  string              `json:"notes"`
	Year   int                 `json:"year"`
}

// Update holds the fields to change on an existing book. Nil fields are left untouched.
type Update struct {
	Title       *string              `json:"title"`
	Author      *string              `json:"author"`
	Genres      *[]string            `json:"genres"`
	Status      *entities.BookStatus `json:"status"`
	Rating      *int                 `json:"rating"`
	ClearRating bool                 `json:"clear_rating"`
	Notes       *string              `json:"notes"`
	Year        *int                 `json:"year"`
}

// Add stores a new book for owner. An empty status means to-read.
func (r *Repository) Add(owner string, in Input) (*entities.Book, error) {
	if err := r.checkOwner(owner); err != nil {
		return nil, err
	}

	now := r.now()
	book := entities.Book{
		ID:        uuid.NewString(),
		Owner:     owner,
		Title:     utils.NormalizeLabel(in.Title),
		Author:    utils.NormalizeLabel(in.Author),
		Genres:    utils.NormalizeSet(in.Genres),
		Status:    in.Status,
		Rating:    copyInt(in.Rating),
		Notes:     in.Notes,
		Year:      in.Year,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if book.Status == "" {
		book.Status = entities.StatusToRead
	}
	if book.Status == entities.StatusFinished {
		book.FinishedAt = &now
	}
	if err := r.validator.Validate(book); err != nil {
		return nil, err
	}

	err := r.books.Mutate(func(all []entities.Book) ([]entities.Book, error) {
		return append(all, book), nil
	})
	if err != nil {
		return nil, fmt.Errorf("add book: %w", err)
	}
	return &book, nil
}

// List returns the owner's books matching q, re-reading storage on every call.
func (r *Repository) List(owner string, q Query) ([]entities.Book, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	all, err := r.books.Load()
	if err != nil {
		return nil, err
	}

	result := []entities.Book{}
	for _, book := range all {
		if book.Owner == owner && q.matches(book) {
			result = append(result, book)
		}
	}
	q.sort(result)
	return result, nil
}

// All is the lazy form of List. Each range re-reads storage, so the sequence
// can be restarted and always reflects the latest state.
func (r *Repository) All(owner string, q Query) iter.Seq2[entities.Book, error] {
	return func(yield func(entities.Book, error) bool) {
		books, err := r.List(owner, q)
		if err != nil {
			yield(entities.Book{}, err)
			return
		}
		for _, book := range books {
			if !yield(book, nil) {
				return
			}
		}
	}
}

// Get retrieves one of owner's books.
func (r *Repository) Get(owner, id string) (*entities.Book, error) {
	all, err := r.books.Load()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Owner == owner && all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, notFound(id)
}

// Update applies changes to one of owner's books and returns the result.
func (r *Repository) Update(owner, id string, changes Update) (*entities.Book, error) {
	var updated entities.Book
	err := r.books.Mutate(func(all []entities.Book) ([]entities.Book, error) {
		idx := indexOf(all, owner, id)
		if idx < 0 {
			return nil, notFound(id)
		}

		book := all[idx]
		r.apply(&book, changes)
		if err := r.validator.Validate(book); err != nil {
			return nil, err
		}

		all[idx] = book
		updated = book
		return all, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return &updated, nil
}

// Delete removes one of owner's books. Quotes referencing it are left alone.
func (r *Repository) Delete(owner, id string) error {
	err := r.books.Mutate(func(all []entities.Book) ([]entities.Book, error) {
		idx := indexOf(all, owner, id)
		if idx < 0 {
			return nil, notFound(id)
		}
		return append(all[:idx], all[idx+1:]...), nil
	})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

func (r *Repository) apply(book *entities.Book, changes Update) {
	now := r.now()

	if changes.Title != nil {
		book.Title = utils.NormalizeLabel(*changes.Title)
	}
	if changes.Author != nil {
		book.Author = utils.NormalizeLabel(*changes.Author)
	}
	if changes.Genres != nil {
		book.Genres = utils.NormalizeSet(*changes.Genres)
	}
	if changes.Status != nil && *changes.Status != book.Status {
		switch {
		case *changes.Status == entities.StatusFinished:
			book.FinishedAt = &now
		case book.Status == entities.StatusFinished:
			book.FinishedAt = nil
		}
		book.Status = *changes.Status
	}
	if changes.ClearRating {
		book.Rating = nil
	} else if changes.Rating != nil {
		book.Rating = copyInt(changes.Rating)
	}
	if changes.Notes != nil {
		book.Notes = *changes.Notes
	}
	if changes.Year != nil {
		book.Year = *changes.Year
	}
	book.UpdatedAt = now
}

func (r *Repository) checkOwner(owner string) error {
	ok, err := r.owners.Exists(owner)
	if err != nil {
		return err
	}
	if !ok {
		return domainerrors.NotFound(fmt.Sprintf("user %q not found", owner))
	}
	return nil
}

func indexOf(all []entities.Book, owner, id string) int {
	for i := range all {
		if all[i].Owner == owner && all[i].ID == id {
			return i
		}
	}
	return -1
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func notFound(id string) error {
	return domainerrors.NotFound(fmt.Sprintf("book %q not found", id))
}
