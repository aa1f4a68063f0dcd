package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglog/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Storage, cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")
	if cfg.APIRateLimiter != nil {
		api.Use(cfg.APIRateLimiter.Middleware())
	}

	// Clients fetch a token here before their first unsafe request
	api.GET("/csrf", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"csrf_token": auth.GetCSRFToken(c),
			"header":     auth.CSRFTokenHeader,
		})
	})

	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(api.Group("/auth"))
	}

	if cfg.Books != nil {
		booksController := NewBooksController(cfg.Books)
		api.GET("/books", booksController.ListBooks)
		api.POST("/books", booksController.CreateBook)
		api.GET("/books/:id", booksController.GetBook)
		api.PATCH("/books/:id", booksController.UpdateBook)
		api.DELETE("/books/:id", booksController.DeleteBook)
	}

	if cfg.Quotes != nil {
		quotesController := NewQuotesController(cfg.Quotes)
		api.GET("/quotes", quotesController.ListQuotes)
		api.POST("/quotes", quotesController.CreateQuote)
		api.GET("/quotes/:id", quotesController.GetQuote)
		api.PATCH("/quotes/:id", quotesController.UpdateQuote)
		api.DELETE("/quotes/:id", quotesController.DeleteQuote)
	}

	if cfg.Stats != nil {
		statsController := NewStatsController(cfg.Stats)
		api.GET("/stats", statsController.GetStats)
		api.GET("/stats/finished", statsController.GetFinished)
	}

	if cfg.Exporter != nil {
		exportController := NewExportController(cfg.Exporter)
		api.GET("/export/markdown", exportController.DownloadMarkdown)
	}

	return router
}
