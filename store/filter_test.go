package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevinaaaquil/library-graphql/models"
)

func TestBookFilter(t *testing.T) {
	authorID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	genre := "fantasy"

	tests := []struct {
		name   string
		filter BookFilter
		bson   bson.M
		match  []bool // hobbit, dune, silmarillion-by-other
	}{
		{"empty", BookFilter{}, bson.M{}, []bool{true, true, true}},
		{"author", BookFilter{AuthorID: &authorID}, bson.M{"author": authorID}, []bool{true, true, false}},
		{"genre", BookFilter{Genre: &genre}, bson.M{"genres": "fantasy"}, []bool{true, false, true}},
		{"both", BookFilter{AuthorID: &authorID, Genre: &genre}, bson.M{"author": authorID, "genres": "fantasy"}, []bool{true, false, false}},
	}
	books := []models.Book{
		{Title: "The Hobbit", Author: authorID, Genres: []string{"classic", "fantasy"}},
		{Title: "Dune", Author: authorID, Genres: []string{"scifi"}},
		{Title: "Other", Author: other, Genres: []string{"fantasy"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.bson, tc.filter.BSON())
			for i := range books {
				assert.Equal(t, tc.match[i], tc.filter.Matches(&books[i]), books[i].Title)
			}
		})
	}
}
