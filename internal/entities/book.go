package entities

import (
	"fmt"
	"time"
)

// BookStatus is the reading state of a book. The set of statuses is closed.
type BookStatus string

const (
	StatusToRead   BookStatus = "to-read"
	StatusReading  BookStatus = "reading"
	StatusFinished BookStatus = "finished"
)

// BookStatuses lists every valid status in display order.
var BookStatuses = []BookStatus{StatusToRead, StatusReading, StatusFinished}

// Valid reports whether s is one of BookStatuses.
func (s BookStatus) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusFinished:
		return true
	}
	return false
}

// ParseBookStatus converts s into a BookStatus.
func ParseBookStatus(s string) (BookStatus, error) {
	status := BookStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown book status %q", s)
	}
	return status, nil
}

// Rating bounds, inclusive.
const (
	MinRating = 0
	MaxRating = 5
)

type Book struct {
	ID         string     `json:"id" validate:"required"`
	Owner      string     `json:"owner" validate:"required"`
	Title      string     `json:"title" validate:"required,max=512"`
	Author     string     `json:"author" validate:"required,max=256"`
	Genres     []string   `json:"genres" validate:"dive,required,max=100"`
	Status     BookStatus `json:"status" validate:"required,oneof=to-read reading finished"`
	Rating     *int       `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Notes      string     `json:"notes,omitempty" validate:"max=10000"`
	Year       int        `json:"year,omitempty" validate:"min=0,max=9999"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Key implements recordstore.Record. Book ids are unique per owner.
func (b Book) Key() string {
	return b.Owner + "/" + b.ID
}

// HasRating reports whether the book has been rated.
func (b Book) HasRating() bool {
	return b.Rating != nil
}
