package entities

import "time"

// Quote is a passage saved from a book. BookID is a weak reference: the book
// may have been deleted since, and the quote stays valid.
type Quote struct {
	ID        string    `json:"id" validate:"required"`
	Owner     string    `json:"owner" validate:"required"`
	Text      string    `json:"text" validate:"required,max=10000"`
	BookID    string    `json:"book_id" validate:"required"`
	Tags      []string  `json:"tags" validate:"dive,required,max=100"`
	Page      *int      `json:"page,omitempty" validate:"omitempty,min=0"`
	CreatedAt time.Time `json:"created_at"`
}

// Key implements recordstore.Record. Quote ids are unique per owner.
func (q Quote) Key() string {
	return q.Owner + "/" + q.ID
}
