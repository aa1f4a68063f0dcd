package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglog/internal/database/books"
	"github.com/mrlokans/readinglog/internal/entities"
)

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{
		store: store,
	}
}

// ListBooks supports ?status=&genre=&min_rating=&max_rating=&q=&sort=&order=desc.
func (controller *BooksController) ListBooks(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	minRating, ok := parseOptionalIntQuery(c, "min_rating")
	if !ok {
		return
	}
	maxRating, ok := parseOptionalIntQuery(c, "max_rating")
	if !ok {
		return
	}

	query := books.Query{
		Status:    entities.BookStatus(strings.TrimSpace(c.Query("status"))),
		Genre:     c.Query("genre"),
		MinRating: minRating,
		MaxRating: maxRating,
		Search:    c.Query("q"),
		Sort:      books.SortField(c.Query("sort")),
		Desc:      isDescending(c),
	}

	result, err := controller.store.List(owner, query)
	if err != nil {
		respondDomainError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": result, "count": len(result)})
}

func (controller *BooksController) CreateBook(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	var input books.Input
	if !bindJSON(c, &input) {
		return
	}

	book, err := controller.store.Add(owner, input)
	if err != nil {
		respondDomainError(c, err, "add book")
		return
	}
	respondCreated(c, book)
}

func (controller *BooksController) GetBook(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	book, err := controller.store.Get(owner, c.Param("id"))
	if err != nil {
		respondDomainError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	var changes books.Update
	if !bindJSON(c, &changes) {
		return
	}

	book, err := controller.store.Update(owner, c.Param("id"), changes)
	if err != nil {
		respondDomainError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes the book only; its quotes stay and keep the dangling book_id.
func (controller *BooksController) DeleteBook(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	if err := controller.store.Delete(owner, c.Param("id")); err != nil {
		respondDomainError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted")
}
