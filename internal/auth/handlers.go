package auth

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglog/internal/config"
	domainerrors "github.com/mrlokans/readinglog/internal/errors"
)

// AuthController handles the JSON authentication endpoints.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	loginGuard     *LoginGuard
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service, sessionManager *SessionManager, cfg config.Auth) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		loginGuard:     NewLoginGuard(cfg),
	}
}

// RegisterRoutes registers authentication routes under the given group.
func (ac *AuthController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/register", ac.Register)
	group.POST("/login", ac.Login)
	group.POST("/logout", ac.Logout)
	group.GET("/me", ac.Me)
}

// Stop cleans up resources (login guard background goroutine).
func (ac *AuthController) Stop() {
	ac.loginGuard.Stop()
}

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account. It does not log the new user in.
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := ac.service.Register(req.Username, req.Password, req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user.Profile())
}

// Login checks credentials and starts a session.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	clientIP := c.ClientIP()

	allowed, retryAfter := ac.loginGuard.Allow(clientIP, req.Username)
	if !allowed {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       "too many login attempts",
			"retry_after": retryAfter.String(),
		})
		return
	}

	user, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrInvalidCredentials) {
			ac.loginGuard.RecordFailure(clientIP, req.Username)
		}
		respondError(c, err)
		return
	}

	ac.loginGuard.RecordSuccess(clientIP, req.Username)

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session for %s: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Profile()})
}

// Logout destroys the session. Logging out without a session is not an error.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		log.Printf("Failed to destroy session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to destroy session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the logged-in user.
func (ac *AuthController) Me(c *gin.Context) {
	user := GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	resp := gin.H{"user": user.Profile()}
	if data := ac.sessionManager.GetSessionData(c.Request); data != nil {
		resp["login_at"] = data.LoginAt
	}
	c.JSON(http.StatusOK, resp)
}

// respondError writes a domain error as JSON; anything else becomes a 500.
func respondError(c *gin.Context, err error) {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) && domainErr.Code != domainerrors.CodeIOFailure {
		c.JSON(domainErr.HTTPStatus(), gin.H{
			"error":   domainErr.Message,
			"code":    domainErr.Code,
			"details": domainErr.Details,
		})
		return
	}

	log.Printf("Auth request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
