package entities

import "time"

// Document is a whole collection serialized as one JSON array, as stored by the SQLite backend.
type Document struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Body      []byte    `gorm:"type:blob;not null"`
	UpdatedAt time.Time
}

func (Document) TableName() string {
	return "documents"
}
