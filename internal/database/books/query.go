package books

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mrlokans/readinglog/internal/entities"
	domainerrors "github.com/mrlokans/readinglog/internal/errors"
	"github.com/mrlokans/readinglog/internal/utils"
)

// SortField names the attribute books are ordered by.
type SortField string

const (
	SortNone    SortField = ""
	SortTitle   SortField = "title"
	SortAuthor  SortField = "author"
	SortRating  SortField = "rating"
	SortStatus  SortField = "status"
	SortYear    SortField = "year"
	SortCreated SortField = "created"
)

var sortFields = []SortField{SortNone, SortTitle, SortAuthor, SortRating, SortStatus, SortYear, SortCreated}

// Query filters and orders a book listing. The zero Query lists every book in stored order.
type Query struct {
	Status    entities.BookStatus
	Genre     string
	MinRating *int
	MaxRating *int
	// Search matches title or author, case-insensitively.
	Search string
	Sort   SortField
	Desc   bool
}

// Validate rejects unknown statuses and sort fields.
func (q Query) Validate() error {
	details := map[string]string{}
	if q.Status != "" && !q.Status.Valid() {
		details["status"] = "must be one of: to-read, reading, finished"
	}
	if !slices.Contains(sortFields, q.Sort) {
		details["sort"] = "must be one of: title, author, rating, status, year, created"
	}
	if q.MinRating != nil && q.MaxRating != nil && *q.MinRating > *q.MaxRating {
		details["min_rating"] = fmt.Sprintf("must not exceed max_rating (%d)", *q.MaxRating)
	}
	if len(details) > 0 {
		return domainerrors.ValidationWithDetails("invalid book query", details)
	}
	return nil
}

func (q Query) matches(book entities.Book) bool {
	if q.Status != "" && book.Status != q.Status {
		return false
	}
	if q.Genre != "" && !utils.AnyEqualFold(book.Genres, q.Genre) {
		return false
	}
	if q.MinRating != nil && (book.Rating == nil || *book.Rating < *q.MinRating) {
		return false
	}
	if q.MaxRating != nil && (book.Rating == nil || *book.Rating > *q.MaxRating) {
		return false
	}
	if q.Search != "" && !utils.ContainsFold(book.Title, q.Search) && !utils.ContainsFold(book.Author, q.Search) {
		return false
	}
	return true
}

// sort orders books in place. Ties keep stored order in both directions.
func (q Query) sort(books []entities.Book) {
	if q.Sort == SortNone {
		if q.Desc {
			slices.Reverse(books)
		}
		return
	}

	collator := utils.NewCollator()
	compare := func(a, b entities.Book) int {
		switch q.Sort {
		case SortTitle:
			return collator.Compare(a.Title, b.Title)
		case SortAuthor:
			return collator.Compare(a.Author, b.Author)
		case SortRating:
			return compareRating(a.Rating, b.Rating)
		case SortStatus:
			return cmp.Compare(statusRank(a.Status), statusRank(b.Status))
		case SortYear:
			return cmp.Compare(a.Year, b.Year)
		case SortCreated:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
		return 0
	}

	slices.SortStableFunc(books, func(a, b entities.Book) int {
		if q.Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

// compareRating orders unrated books below every rated one.
func compareRating(a, b *int) int {
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

func statusRank(s entities.BookStatus) int {
	return slices.Index(entities.BookStatuses, s)
}
