package recordstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	domainerrors "github.com/mrlokans/readinglog/internal/errors"
)

// Record is anything stored in a Collection. Key must be unique within the collection.
type Record interface {
	Key() string
}

// Validator checks a record before it is written.
type Validator interface {
	Validate(s any) error
}

var (
	locksMu sync.Mutex
	locks   = map[lockKey]*sync.Mutex{}
)

type lockKey struct {
	backend Backend
	name    string
}

// lockFor returns the process-wide mutex for a document, shared by every
// Collection opened on the same backend and name.
func lockFor(backend Backend, name string) *sync.Mutex {
	locksMu.Lock()
	defer locksMu.Unlock()

	key := lockKey{backend: backend, name: name}
	mu, ok := locks[key]
	if !ok {
		mu = &sync.Mutex{}
		locks[key] = mu
	}
	return mu
}

// Collection is a typed view over one document of a Backend.
type Collection[T Record] struct {
	backend   Backend
	name      string
	validator Validator
	mu        *sync.Mutex
}

// NewCollection opens the named collection. A nil validator skips struct validation.
func NewCollection[T Record](backend Backend, name string, validator Validator) *Collection[T] {
	return &Collection[T]{
		backend:   backend,
		name:      name,
		validator: validator,
		mu:        lockFor(backend, name),
	}
}

// Name returns the document name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Load returns every record in stored order. A missing document is an empty collection.
func (c *Collection[T]) Load() ([]T, error) {
	data, err := c.backend.ReadDocument(c.name)
	if errors.Is(err, ErrDocumentNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, domainerrors.IOFailure("failed to load "+c.name, err)
	}

	records := []T{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, domainerrors.IOFailure("failed to decode "+c.name, err)
	}
	return records, nil
}

// Save validates records and replaces the stored document with them.
func (c *Collection[T]) Save(records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(records)
}

// Mutate runs a load, fn, save cycle while holding the collection lock.
// If fn returns an error nothing is written.
func (c *Collection[T]) Mutate(fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.Load()
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return c.save(updated)
}

func (c *Collection[T]) save(records []T) error {
	if records == nil {
		records = []T{}
	}
	if err := c.check(records); err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return domainerrors.IOFailure("failed to encode "+c.name, err)
	}
	if err := c.backend.WriteDocument(c.name, data); err != nil {
		return domainerrors.IOFailure("failed to save "+c.name, err)
	}
	return nil
}

func (c *Collection[T]) check(records []T) error {
	seen := make(map[string]struct{}, len(records))
	for i, record := range records {
		if c.validator != nil {
			if err := c.validator.Validate(record); err != nil {
				return fmt.Errorf("%s[%d]: %w", c.name, i, err)
			}
		}
		key := record.Key()
		if _, dup := seen[key]; dup {
			return domainerrors.Validation(fmt.Sprintf("duplicate key %q in %s", key, c.name))
		}
		seen[key] = struct{}{}
	}
	return nil
}
