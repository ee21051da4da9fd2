package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBookValidate(t *testing.T) {
	author := primitive.NewObjectID()
	tests := []struct {
		name  string
		book  Book
		field string
	}{
		{"valid", Book{Title: "The Hobbit", Author: author, Genres: []string{"fantasy"}}, ""},
		{"nil genres", Book{Title: "The Hobbit", Author: author}, ""},
		{"blank title", Book{Title: "  ", Author: author}, "title"},
		{"missing author", Book{Title: "The Hobbit"}, "author"},
		{"empty genre", Book{Title: "The Hobbit", Author: author, Genres: []string{"fantasy", ""}}, "genres"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.book.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				assert.NotNil(t, tc.book.Genres)
				return
			}
			var verr *ValidationError
			if assert.ErrorAs(t, err, &verr) {
				assert.Equal(t, tc.field, verr.Field)
			}
		})
	}
}

func TestUserValidate(t *testing.T) {
	assert.NoError(t, (&User{Username: "abc", FavoriteGenre: "crime"}).Validate())
	assert.EqualError(t, (&User{Username: "ab", FavoriteGenre: "crime"}).Validate(), "username must be at least 3 characters")
	assert.EqualError(t, (&User{Username: "abc"}).Validate(), "favoriteGenre is required")
}

func TestHasGenre(t *testing.T) {
	b := Book{Genres: []string{"fantasy", "classic"}}
	assert.True(t, b.HasGenre("classic"))
	assert.False(t, b.HasGenre("Fantasy"))
}
