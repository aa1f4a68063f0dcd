// Package users provides persistence for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(backend, validation.New())
//	user, err := repo.GetByUsername("alice")
package users

import (
	"fmt"

	"github.com/mrlokans/readinglog/internal/entities"
	domainerrors "github.com/mrlokans/readinglog/internal/errors"
	"github.com/mrlokans/readinglog/internal/recordstore"
)

// CollectionName is the document holding every user.
const CollectionName = "users"

// Repository handles all user persistence.
type Repository struct {
	users *recordstore.Collection[entities.User]
}

// NewRepository creates a new users repository.
func NewRepository(backend recordstore.Backend, validator recordstore.Validator) *Repository {
	return &Repository{
		users: recordstore.NewCollection[entities.User](backend, CollectionName, validator),
	}
}

// Create appends a user. Usernames are compared case-sensitively.
func (r *Repository) Create(user entities.User) (*entities.User, error) {
	err := r.users.Mutate(func(all []entities.User) ([]entities.User, error) {
		for _, existing := range all {
			if existing.Username == user.Username {
				return nil, domainerrors.AlreadyExists(fmt.Sprintf("user %q already exists", user.Username))
			}
		}
		return append(all, user), nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user or fails with NotFound.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	all, err := r.users.Load()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Username == username {
			return &all[i], nil
		}
	}
	return nil, domainerrors.NotFound(fmt.Sprintf("user %q not found", username))
}

// Exists reports whether a user with this exact username is registered.
func (r *Repository) Exists(username string) (bool, error) {
	_, err := r.GetByUsername(username)
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the number of registered users.
func (r *Repository) Count() (int, error) {
	all, err := r.users.Load()
	if err != nil {
		return 0, err
	}
	return len(all), nil
}
