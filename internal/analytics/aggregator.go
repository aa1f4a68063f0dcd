// Package analytics computes reading statistics from a user's books and quotes.
//
// Statistics are derived on every call; nothing is cached between requests.
package analytics

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mrlokans/readinglog/internal/database/books"
	"github.com/mrlokans/readinglog/internal/database/quotes"
	"github.com/mrlokans/readinglog/internal/entities"
	"github.com/mrlokans/readinglog/internal/utils"
)

const (
	topGenresLimit   = 10
	recentBooksLimit = 3
)

// GenreCount is the number of books tagged with a genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// QuotedBook is the book referenced by the most quotes. Exists is false when
// the book has since been deleted; Title is empty in that case.
type QuotedBook struct {
	BookID string `json:"book_id"`
	Title  string `json:"title"`
	Exists bool   `json:"exists"`
	Count  int    `json:"count"`
}

// AuthorCount is the number of books by an author.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// Stats is the summary shown on a user's statistics view.
type Stats struct {
	TotalBooks     int                         `json:"total_books"`
	TotalQuotes    int                         `json:"total_quotes"`
	ByStatus       map[entities.BookStatus]int `json:"by_status"`
	FavoriteGenres []string                    `json:"favorite_genres"`
	GenreCounts    []GenreCount                `json:"genre_counts"`
	MostQuoted     *QuotedBook                 `json:"most_quoted,omitempty"`
	AverageRating  *float64                    `json:"average_rating,omitempty"`
	RatedBooks     int                         `json:"rated_books"`
	RecentBooks    []entities.Book             `json:"recent_books"`
	TopAuthor      *AuthorCount                `json:"top_author,omitempty"`
}

// Summarize computes statistics over books and quotes in their stored order.
func Summarize(bookList []entities.Book, quoteList []entities.Quote) Stats {
	stats := Stats{
		TotalBooks:     len(bookList),
		TotalQuotes:    len(quoteList),
		ByStatus:       make(map[entities.BookStatus]int, len(entities.BookStatuses)),
		FavoriteGenres: []string{},
		GenreCounts:    []GenreCount{},
		RecentBooks:    []entities.Book{},
	}
	for _, status := range entities.BookStatuses {
		stats.ByStatus[status] = 0
	}

	ratingSum := 0
	for _, book := range bookList {
		stats.ByStatus[book.Status]++
		if book.HasRating() {
			ratingSum += *book.Rating
			stats.RatedBooks++
		}
	}
	if stats.RatedBooks > 0 {
		avg := float64(ratingSum) / float64(stats.RatedBooks)
		stats.AverageRating = &avg
	}

	genres := countGenres(bookList)
	if len(genres) > 0 {
		top := slices.MaxFunc(genres, func(a, b GenreCount) int {
			return cmp.Compare(a.Count, b.Count)
		}).Count
		for _, g := range genres {
			if g.Count == top {
				stats.FavoriteGenres = append(stats.FavoriteGenres, g.Genre)
			}
		}
		// Favorites keep first-seen order, so take them before ranking.
		slices.SortStableFunc(genres, func(a, b GenreCount) int {
			return cmp.Compare(b.Count, a.Count)
		})
		stats.GenreCounts = genres[:min(len(genres), topGenresLimit)]
	}

	stats.MostQuoted = mostQuoted(bookList, quoteList)
	stats.TopAuthor = topAuthor(bookList)
	stats.RecentBooks = recentBooks(bookList)
	return stats
}

// countGenres counts genres case-insensitively in first-seen order. The
// first spelling seen is the one reported.
func countGenres(bookList []entities.Book) []GenreCount {
	var counts []GenreCount
	index := map[string]int{}
	for _, book := range bookList {
		for _, genre := range book.Genres {
			key := utils.FoldKey(genre)
			if i, ok := index[key]; ok {
				counts[i].Count++
				continue
			}
			index[key] = len(counts)
			counts = append(counts, GenreCount{Genre: genre, Count: 1})
		}
	}
	return counts
}

func mostQuoted(bookList []entities.Book, quoteList []entities.Quote) *QuotedBook {
	var order []string
	counts := map[string]int{}
	for _, quote := range quoteList {
		if _, seen := counts[quote.BookID]; !seen {
			order = append(order, quote.BookID)
		}
		counts[quote.BookID]++
	}
	if len(order) == 0 {
		return nil
	}

	best := order[0]
	for _, id := range order[1:] {
		if counts[id] > counts[best] {
			best = id
		}
	}

	result := &QuotedBook{BookID: best, Count: counts[best]}
	for _, book := range bookList {
		if book.ID == best {
			result.Title = book.Title
			result.Exists = true
			break
		}
	}
	return result
}

func topAuthor(bookList []entities.Book) *AuthorCount {
	var counts []AuthorCount
	index := map[string]int{}
	for _, book := range bookList {
		key := utils.FoldKey(book.Author)
		if i, ok := index[key]; ok {
			counts[i].Count++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, AuthorCount{Author: book.Author, Count: 1})
	}
	if len(counts) == 0 {
		return nil
	}

	best := counts[0]
	for _, c := range counts[1:] {
		if c.Count > best.Count {
			best = c
		}
	}
	return &best
}

func recentBooks(bookList []entities.Book) []entities.Book {
	recent := slices.Clone(bookList)
	slices.SortStableFunc(recent, func(a, b entities.Book) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return recent[:min(len(recent), recentBooksLimit)]
}

// BookLister lists a user's books.
type BookLister interface {
	List(owner string, q books.Query) ([]entities.Book, error)
}

// QuoteLister lists a user's quotes.
type QuoteLister interface {
	List(owner string, q quotes.Query) ([]entities.Quote, error)
}

// Aggregator loads a user's collections and summarizes them.
type Aggregator struct {
	books  BookLister
	quotes QuoteLister
}

// NewAggregator creates an aggregator over the given repositories.
func NewAggregator(bookLister BookLister, quoteLister QuoteLister) *Aggregator {
	return &Aggregator{books: bookLister, quotes: quoteLister}
}

// Stats returns the statistics for owner.
func (a *Aggregator) Stats(owner string) (*Stats, error) {
	bookList, err := a.books.List(owner, books.Query{})
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	quoteList, err := a.quotes.List(owner, quotes.Query{})
	if err != nil {
		return nil, fmt.Errorf("load quotes: %w", err)
	}

	stats := Summarize(bookList, quoteList)
	return &stats, nil
}

// FinishedInYear returns owner's finished books whose finish date falls in
// year, oldest first.
func (a *Aggregator) FinishedInYear(owner string, year int) ([]entities.Book, error) {
	bookList, err := a.books.List(owner, books.Query{Status: entities.StatusFinished})
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}

	result := []entities.Book{}
	for _, book := range bookList {
		if book.FinishedAt != nil && book.FinishedAt.Year() == year {
			result = append(result, book)
		}
	}
	slices.SortStableFunc(result, func(a, b entities.Book) int {
		return a.FinishedAt.Compare(*b.FinishedAt)
	})
	return result, nil
}
