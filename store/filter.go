package store

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevinaaaquil/library-graphql/models"
)

// BookFilter narrows a book listing. Nil fields do not filter.
type BookFilter struct {
	AuthorID *primitive.ObjectID
	Genre    *string
}

// BSON renders the filter as a query document. A scalar match on the genres
// array field matches any element.
func (f BookFilter) BSON() bson.M {
	q := bson.M{}
	if f.AuthorID != nil {
		q["author"] = *f.AuthorID
	}
	if f.Genre != nil {
		q["genres"] = *f.Genre
	}
	return q
}

// Matches applies the filter to a book held in memory.
func (f BookFilter) Matches(b *models.Book) bool {
	if f.AuthorID != nil && b.Author != *f.AuthorID {
		return false
	}
	if f.Genre != nil && !b.HasGenre(*f.Genre) {
		return false
	}
	return true
}
