package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Book struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Published int                `bson:"published" json:"published"`
	Author    primitive.ObjectID `bson:"author" json:"author"` // references authors._id
	Genres    []string           `bson:"genres" json:"genres"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Validate checks the fields a book must carry before it is stored.
func (b *Book) Validate() error {
	if err := b.ValidateFields(); err != nil {
		return err
	}
	if b.Author.IsZero() {
		return &ValidationError{Field: "author", Reason: "is required"}
	}
	return nil
}

// ValidateFields checks everything except the author reference, which is
// only known once the author has been stored.
func (b *Book) ValidateFields() error {
	if strings.TrimSpace(b.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if b.Genres == nil {
		b.Genres = []string{}
	}
	for _, g := range b.Genres {
		if strings.TrimSpace(g) == "" {
			return &ValidationError{Field: "genres", Reason: "must not contain empty values"}
		}
	}
	return nil
}

// HasGenre reports whether genre is one of the book's genres.
func (b *Book) HasGenre(genre string) bool {
	for _, g := range b.Genres {
		if g == genre {
			return true
		}
	}
	return false
}
