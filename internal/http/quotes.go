package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglog/internal/database/quotes"
)

type QuotesController struct {
	store QuoteStore
}

func NewQuotesController(store QuoteStore) *QuotesController {
	return &QuotesController{store: store}
}

// ListQuotes supports ?book_id=&book=&tag=&q=&sort=&order=desc.
func (controller *QuotesController) ListQuotes(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	query := quotes.Query{
		BookID:    c.Query("book_id"),
		BookTitle: c.Query("book"),
		Tag:       c.Query("tag"),
		Search:    c.Query("q"),
		Sort:      quotes.SortField(c.Query("sort")),
		Desc:      isDescending(c),
	}

	result, err := controller.store.List(owner, query)
	if err != nil {
		respondDomainError(c, err, "list quotes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": result, "count": len(result)})
}

func (controller *QuotesController) CreateQuote(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	var input quotes.Input
	if !bindJSON(c, &input) {
		return
	}

	quote, err := controller.store.Add(owner, input)
	if err != nil {
		respondDomainError(c, err, "add quote")
		return
	}
	respondCreated(c, quote)
}

func (controller *QuotesController) GetQuote(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	quote, err := controller.store.Get(owner, c.Param("id"))
	if err != nil {
		respondDomainError(c, err, "get quote")
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (controller *QuotesController) UpdateQuote(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	var changes quotes.Update
	if !bindJSON(c, &changes) {
		return
	}

	quote, err := controller.store.Update(owner, c.Param("id"), changes)
	if err != nil {
		respondDomainError(c, err, "update quote")
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (controller *QuotesController) DeleteQuote(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	if err := controller.store.Delete(owner, c.Param("id")); err != nil {
		respondDomainError(c, err, "delete quote")
		return
	}
	respondSuccess(c, "quote deleted")
}
