package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/entities"
	domainerrors "github.com/mrlokans/readinglog/internal/errors"
)

// UserRepository defines the user persistence the service needs.
type UserRepository interface {
	Create(user entities.User) (*entities.User, error)
	GetByUsername(username string) (*entities.User, error)
	Count() (int, error)
}

// Validator checks a user record and single values.
type Validator interface {
	Validate(s any) error
	Var(field string, value any, tag string) error
}

// Service handles registration and authentication.
type Service struct {
	users     UserRepository
	validator Validator
	config    config.Auth
	now       func() time.Time

	// dummyHash is compared against when the username is unknown so that a
	// missing user and a wrong password take the same time.
	dummyHash []byte
}

// NewService creates a new authentication service.
func NewService(users UserRepository, validator Validator, cfg config.Auth) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("readinglog-dummy-password"), cfg.BcryptCost)

	return &Service{
		users:     users,
		validator: validator,
		config:    cfg,
		now:       func() time.Time { return time.Now().UTC() },
		dummyHash: dummy,
	}
}

// Register creates a new user. It fails with ALREADY_EXISTS when the
// username is taken (case-sensitive) and VALIDATION for a malformed username
// or password.
func (s *Service) Register(username, password, displayName string) (*entities.User, error) {
	if err := s.validator.Var("username", username, "required,username"); err != nil {
		return nil, err
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	switch {
	case errors.Is(err, ErrPasswordRequired), errors.Is(err, ErrPasswordTooLong):
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"password": strings.TrimPrefix(err.Error(), "password "),
		})
	case err != nil:
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entities.User{
		Username:     username,
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(displayName),
		CreatedAt:    s.now(),
	}
	if err := s.validator.Validate(user); err != nil {
		return nil, err
	}

	return s.users.Create(user)
}

// Authenticate validates credentials and returns the user. An unknown
// username and a wrong password both fail with INVALID_CREDENTIALS.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.users.GetByUsername(username)
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, fmt.Errorf("failed to check password: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by username.
func (s *Service) GetUser(username string) (*entities.User, error) {
	return s.users.GetByUsername(username)
}

// HasUsers returns true if anyone has registered.
func (s *Service) HasUsers() (bool, error) {
	count, err := s.users.Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
