package quotes

import (
	"cmp"
	"slices"

	"github.com/mrlokans/readinglog/internal/entities"
	domainerrors "github.com/mrlokans/readinglog/internal/errors"
	"github.com/mrlokans/readinglog/internal/utils"
)

type SortField string

const (
	SortNone    SortField = ""
	SortCreated SortField = "created"
	SortPage    SortField = "page"
	SortBook    SortField = "book"
)

// Query filters and orders a quote listing. The zero Query lists every quote in stored order.
type Query struct {
	BookID string
	// BookTitle matches part of the referenced book's title, case-insensitively.
	// Quotes of deleted books are matched against UnknownBookTitle.
	BookTitle string
	Tag       string
	// Search matches quote text, case-insensitively.
	Search string
	Sort   SortField
	Desc   bool
}

func (q Query) Validate() error {
	switch q.Sort {
	case SortNone, SortCreated, SortPage, SortBook:
		return nil
	}
	return domainerrors.ValidationWithDetails("invalid quote query", map[string]string{
		"sort": "must be one of: created, page, book",
	})
}

// needsBooks reports whether the query has to resolve book titles.
func (q Query) needsBooks() bool {
	return q.BookTitle != "" || q.Sort == SortBook
}

func (q Query) matches(quote entities.Quote, refs bookRefs) bool {
	if q.BookID != "" && quote.BookID != q.BookID {
		return false
	}
	if q.BookTitle != "" && !utils.ContainsFold(refs.lookup(quote.BookID).Title, q.BookTitle) {
		return false
	}
	if q.Tag != "" && !utils.AnyEqualFold(quote.Tags, q.Tag) {
		return false
	}
	if q.Search != "" && !utils.ContainsFold(quote.Text, q.Search) {
		return false
	}
	return true
}

func (q Query) sort(quotes []entities.Quote, refs bookRefs) {
	if q.Sort == SortNone {
		if q.Desc {
			slices.Reverse(quotes)
		}
		return
	}

	collator := utils.NewCollator()
	compare := func(a, b entities.Quote) int {
		switch q.Sort {
		case SortCreated:
			return a.CreatedAt.Compare(b.CreatedAt)
		case SortPage:
			return comparePage(a.Page, b.Page)
		case SortBook:
			if c := refs.lookup(a.BookID).compare(refs.lookup(b.BookID), collator); c != 0 {
				return c
			}
			// keep each book's quotes together when title and author tie
			if c := cmp.Compare(refs.position(a.BookID), refs.position(b.BookID)); c != 0 {
				return c
			}
			if c := cmp.Compare(a.BookID, b.BookID); c != 0 {
				return c
			}
			return comparePage(a.Page, b.Page)
		}
		return 0
	}

	slices.SortStableFunc(quotes, func(a, b entities.Quote) int {
		if q.Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
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

// UnknownBookTitle stands in for the title of a deleted book.
const UnknownBookTitle = "Unknown book"

type bookRef struct {
	Title  string
	Author string
	Exists bool
	index  int
}

// compare orders by title then author; deleted books go last.
func (r bookRef) compare(other bookRef, collator *utils.Collator) int {
	switch {
	case r.Exists != other.Exists:
		if r.Exists {
			return -1
		}
		return 1
	case !r.Exists:
		return 0
	}
	if c := collator.Compare(r.Title, other.Title); c != 0 {
		return c
	}
	return collator.Compare(r.Author, other.Author)
}

// bookRefs maps book ids to the owner's books at listing time.
type bookRefs map[string]bookRef

func newBookRefs(bookList []entities.Book) bookRefs {
	refs := make(bookRefs, len(bookList))
	for i, book := range bookList {
		refs[book.ID] = bookRef{Title: book.Title, Author: book.Author, Exists: true, index: i}
	}
	return refs
}

func (refs bookRefs) lookup(id string) bookRef {
	if ref, ok := refs[id]; ok {
		return ref
	}
	return bookRef{Title: UnknownBookTitle}
}

// position is the book's stored position; unknown ids sort after known ones.
func (refs bookRefs) position(id string) int {
	if ref, ok := refs[id]; ok {
		return ref.index
	}
	return len(refs)
}
