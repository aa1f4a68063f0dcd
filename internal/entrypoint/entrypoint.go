package entrypoint

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglog/internal/auth"
	"github.com/mrlokans/readinglog/internal/config"
	http_controllers "github.com/mrlokans/readinglog/internal/http"
	"github.com/mrlokans/readinglog/internal/ratelimit"
	"github.com/mrlokans/readinglog/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT; SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// csrfSecret decodes a hex secret, falling back to the raw bytes, or generates
// a fresh one when none is configured.
func csrfSecret(configured string) ([]byte, error) {
	if configured != "" {
		secret, err := hex.DecodeString(configured)
		if err != nil {
			return []byte(configured), nil
		}
		return secret, nil
	}

	generated, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, err
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(generated)
}

// NewRouterConfig wires authentication, rate limiting and the data layer into
// a router configuration. The returned cleanup stops background goroutines.
func NewRouterConfig(app *App, cfg *config.Config, version string) (http_controllers.RouterConfig, func(), error) {
	var sqlDB *sql.DB
	if app.Database != nil {
		var err error
		sqlDB, err = app.Database.SQLDB()
		if err != nil {
			return http_controllers.RouterConfig{}, nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
		}
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		return http_controllers.RouterConfig{}, nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}

	authService := auth.NewService(app.Users, app.Validator, cfg.Auth)
	authController := auth.NewAuthController(authService, sessionManager, cfg.Auth)
	cleanups := []func(){authController.Stop}

	routerCfg := http_controllers.RouterConfig{
		Books:          app.Books,
		Quotes:         app.Quotes,
		Stats:          app.Aggregator,
		Exporter:       app.Exporter,
		Storage:        app.Backend,
		AuthController: authController,
		AuthMiddleware: auth.NewMiddleware(authService, sessionManager),
		SessionManager: sessionManager,
		SecureCookies:  cfg.Auth.SecureCookies,
		Version:        version,
	}
	if app.Database != nil {
		routerCfg.Database = app.Database
	}

	if cfg.Auth.CSRFEnabled {
		secret, err := csrfSecret(cfg.Auth.SessionSecret)
		if err != nil {
			return http_controllers.RouterConfig{}, nil, fmt.Errorf("failed to generate CSRF secret: %w", err)
		}
		routerCfg.CSRFSecret = secret
	} else {
		log.Printf("WARNING: CSRF protection is disabled")
	}

	if cfg.APIRateLimit.RPS > 0 {
		limiter := ratelimit.New(cfg.APIRateLimit.RPS, cfg.APIRateLimit.Burst)
		routerCfg.APIRateLimiter = limiter
		cleanups = append(cleanups, limiter.Stop)
	}

	if hasUsers, err := authService.HasUsers(); err == nil && !hasUsers {
		log.Printf("No users found. POST /api/auth/register to create an account.")
	}

	cleanup := func() {
		for _, fn := range cleanups {
			fn()
		}
	}
	return routerCfg, cleanup, nil
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Reading Log v%s", version)

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	routerCfg, cleanup, err := NewRouterConfig(app, cfg, version)
	if err != nil {
		log.Fatalf("Failed to configure router: %v", err)
	}
	defer cleanup()

	backupScheduler := scheduler.NewBackupScheduler(app.Backend, cfg.Backup)
	if err := backupScheduler.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start backup scheduler: %v", err)
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		backupScheduler.Stop()
	}

	Serve(router, cfg, onShutdown)
}
