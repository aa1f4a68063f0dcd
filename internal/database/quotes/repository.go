// Package quotes provides persistence, filtering and sorting for a user's quotes.
//
// A quote's BookID is a weak reference: Add does not check that the book
// exists, and deleting a book leaves its quotes in place.
package quotes

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/readinglog/internal/database/books"
	"github.com/mrlokans/readinglog/internal/entities"
	domainerrors "github.com/mrlokans/readinglog/internal/errors"
	"github.com/mrlokans/readinglog/internal/recordstore"
	"github.com/mrlokans/readinglog/internal/utils"
)

// CollectionName is the document holding every user's quotes.
const CollectionName = "quotes"

type OwnerChecker interface {
	Exists(username string) (bool, error)
}

type Validator interface {
	Validate(s any) error
}

// BookLister resolves the books quotes refer to when filtering or sorting by book.
type BookLister interface {
	List(owner string, q books.Query) ([]entities.Book, error)
}

// Repository handles all quote persistence.
type Repository struct {
	quotes    *recordstore.Collection[entities.Quote]
	owners    OwnerChecker
	books     BookLister
	validator Validator
	now       func() time.Time
}

func NewRepository(backend recordstore.Backend, owners OwnerChecker, bookLister BookLister, validator Validator) *Repository {
	return &Repository{
		quotes:    recordstore.NewCollection[entities.Quote](backend, CollectionName, validator),
		owners:    owners,
		books:     bookLister,
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type Input struct {
	Text   string   `json:"text"`
	BookID string   `json:"book_id"`
	Tags   []string `json:"tags"`
	Page   *int     `json:"page"`
}

// Update holds the fields to change on an existing quote. Nil fields are left untouched.
type Update struct {
	Text      *string   `json:"text"`
	BookID    *string   `json:"book_id"`
	Tags      *[]string `json:"tags"`
	Page      *int      `json:"page"`
	ClearPage bool      `json:"clear_page"`
}

// Add stores a new quote for owner without resolving its book.
func (r *Repository) Add(owner string, in Input) (*entities.Quote, error) {
	if err := r.checkOwner(owner); err != nil {
		return nil, err
	}

	quote := entities.Quote{
		ID:        uuid.NewString(),
		Owner:     owner,
		Text:      strings.TrimSpace(in.Text),
		BookID:    strings.TrimSpace(in.BookID),
		Tags:      utils.NormalizeSet(in.Tags),
		Page:      copyInt(in.Page),
		CreatedAt: r.now(),
	}
	if err := r.validator.Validate(quote); err != nil {
		return nil, err
	}

	err := r.quotes.Mutate(func(all []entities.Quote) ([]entities.Quote, error) {
		return append(all, quote), nil
	})
	if err != nil {
		return nil, fmt.Errorf("add quote: %w", err)
	}
	return &quote, nil
}

// List returns the owner's quotes matching q, re-reading storage on every call.
func (r *Repository) List(owner string, q Query) ([]entities.Quote, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	all, err := r.quotes.Load()
	if err != nil {
		return nil, err
	}

	var refs bookRefs
	if q.needsBooks() {
		bookList, err := r.books.List(owner, books.Query{})
		if err != nil {
			return nil, fmt.Errorf("resolve books: %w", err)
		}
		refs = newBookRefs(bookList)
	}

	result := []entities.Quote{}
	for _, quote := range all {
		if quote.Owner == owner && q.matches(quote, refs) {
			result = append(result, quote)
		}
	}
	q.sort(result, refs)
	return result, nil
}

// All is the lazy form of List; every range re-reads storage.
func (r *Repository) All(owner string, q Query) iter.Seq2[entities.Quote, error] {
	return func(yield func(entities.Quote, error) bool) {
		quotes, err := r.List(owner, q)
		if err != nil {
			yield(entities.Quote{}, err)
			return
		}
		for _, quote := range quotes {
			if !yield(quote, nil) {
				return
			}
		}
	}
}

func (r *Repository) Get(owner, id string) (*entities.Quote, error) {
	all, err := r.quotes.Load()
	if err != nil {
		return nil, err
	}
	if idx := indexOf(all, owner, id); idx >= 0 {
		return &all[idx], nil
	}
	return nil, notFound(id)
}

func (r *Repository) Update(owner, id string, changes Update) (*entities.Quote, error) {
	var updated entities.Quote
	err := r.quotes.Mutate(func(all []entities.Quote) ([]entities.Quote, error) {
		idx := indexOf(all, owner, id)
		if idx < 0 {
			return nil, notFound(id)
		}

		quote := all[idx]
		if changes.Text != nil {
			quote.Text = strings.TrimSpace(*changes.Text)
		}
		if changes.BookID != nil {
			quote.BookID = strings.TrimSpace(*changes.BookID)
		}
		if changes.Tags != nil {
			quote.Tags = utils.NormalizeSet(*changes.Tags)
		}
		if changes.ClearPage {
			quote.Page = nil
		} else if changes.Page != nil {
			quote.Page = copyInt(changes.Page)
		}
		if err := r.validator.Validate(quote); err != nil {
			return nil, err
		}

		all[idx] = quote
		updated = quote
		return all, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update quote: %w", err)
	}
	return &updated, nil
}

func (r *Repository) Delete(owner, id string) error {
	err := r.quotes.Mutate(func(all []entities.Quote) ([]entities.Quote, error) {
		idx := indexOf(all, owner, id)
		if idx < 0 {
			return nil, notFound(id)
		}
		return append(all[:idx], all[idx+1:]...), nil
	})
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}

// CountByBook counts the owner's quotes per referenced book id, including ids
// whose book no longer exists.
func (r *Repository) CountByBook(owner string) (map[string]int, error) {
	all, err := r.quotes.Load()
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, quote := range all {
		if quote.Owner == owner {
			counts[quote.BookID]++
		}
	}
	return counts, nil
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

func indexOf(all []entities.Quote, owner, id string) int {
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
	return domainerrors.NotFound(fmt.Sprintf("quote %q not found", id))
}
