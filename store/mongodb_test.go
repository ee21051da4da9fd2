package store

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/kevinaaaquil/library-graphql/models"
)

const (
	authorsNS = "library.authors"
	booksNS   = "library.books"
)

func newMockDB(mt *mtest.T) *DB {
	return &DB{Client: mt.Client, Database: mt.DB, log: zerolog.Nop()}
}

func authorDoc(id primitive.ObjectID, name string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "name", Value: name}}
}

func duplicateKeyResponse() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{
		Code:    11000,
		Name:    "DuplicateKey",
		Message: "E11000 duplicate key error collection: library.authors index: name_1",
	})
}

func TestUpsertAuthor(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	tests := []struct {
		name      string
		responses []bson.D
		want      *models.Author
		wantErr   error
	}{
		{
			name:      "created or found",
			responses: []bson.D{mtest.CreateSuccessResponse(bson.E{Key: "value", Value: authorDoc(id, "Tolkien")})},
			want:      &models.Author{ID: id, Name: "Tolkien"},
		},
		{
			name: "lost the insert race and re-reads",
			responses: []bson.D{
				duplicateKeyResponse(),
				mtest.CreateCursorResponse(0, authorsNS, mtest.FirstBatch, authorDoc(id, "Tolkien")),
			},
			want: &models.Author{ID: id, Name: "Tolkien"},
		},
		{
			name: "duplicate without a winner to read",
			responses: []bson.D{
				duplicateKeyResponse(),
				mtest.CreateCursorResponse(0, authorsNS, mtest.FirstBatch),
			},
			wantErr: ErrDuplicate,
		},
	}
	for _, tc := range tests {
		mt.Run(tc.name, func(mt *mtest.T) {
			mt.AddMockResponses(tc.responses...)
			got, err := newMockDB(mt).UpsertAuthor(context.Background(), "Tolkien")
			if tc.wantErr != nil {
				assert.True(mt, errors.Is(err, tc.wantErr), "got %v", err)
				assert.Nil(mt, got)
				return
			}
			require.NoError(mt, err)
			assert.Equal(mt, tc.want, got)
		})
	}

	mt.Run("blank name is rejected without a round trip", func(mt *mtest.T) {
		_, err := newMockDB(mt).UpsertAuthor(context.Background(), "  ")
		var verr *models.ValidationError
		assert.True(mt, errors.As(err, &verr))
	})
}

func TestSetAuthorBorn(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("updated document is returned", func(mt *mtest.T) {
		doc := append(authorDoc(id, "Tolkien"), bson.E{Key: "born", Value: int32(1892)})
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc}))

		got, err := newMockDB(mt).SetAuthorBorn(context.Background(), "Tolkien", 1892)
		require.NoError(mt, err)
		require.NotNil(mt, got)
		require.NotNil(mt, got.Born)
		assert.Equal(mt, 1892, *got.Born)
	})

	mt.Run("unknown name is nil without error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		got, err := newMockDB(mt).SetAuthorBorn(context.Background(), "Nobody", 1900)
		assert.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("server error is wrapped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad"}))

		got, err := newMockDB(mt).SetAuthorBorn(context.Background(), "Tolkien", 1892)
		assert.ErrorContains(mt, err, "set author born")
		assert.Nil(mt, got)
	})
}

func TestAuthorLookups(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	tolkien, leGuin := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("by name missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, authorsNS, mtest.FirstBatch))
		got, err := newMockDB(mt).AuthorByName(context.Background(), "Nobody")
		assert.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("all authors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, authorsNS, mtest.FirstBatch,
			authorDoc(leGuin, "Le Guin"), authorDoc(tolkien, "Tolkien")))
		got, err := newMockDB(mt).AllAuthors(context.Background())
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "Le Guin", got[0].Name)
		assert.Equal(mt, "Tolkien", got[1].Name)
	})

	mt.Run("by ids keyed by id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, authorsNS, mtest.FirstBatch,
			authorDoc(tolkien, "Tolkien"), authorDoc(leGuin, "Le Guin")))
		got, err := newMockDB(mt).AuthorsByIDs(context.Background(), []primitive.ObjectID{tolkien, leGuin})
		require.NoError(mt, err)
		assert.Equal(mt, "Tolkien", got[tolkien].Name)
		assert.Equal(mt, "Le Guin", got[leGuin].Name)
	})

	mt.Run("by no ids skips the query", func(mt *mtest.T) {
		got, err := newMockDB(mt).AuthorsByIDs(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, got)
	})
}

func TestBookCountsByAuthor(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	tolkien, leGuin := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("group rows decode into counts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, booksNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: tolkien}, {Key: "count", Value: int32(3)}},
			bson.D{{Key: "_id", Value: leGuin}, {Key: "count", Value: int32(1)}},
		))
		got, err := newMockDB(mt).BookCountsByAuthor(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, map[primitive.ObjectID]int64{tolkien: 3, leGuin: 1}, got)
	})

	mt.Run("no books", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, booksNS, mtest.FirstBatch))
		got, err := newMockDB(mt).BookCountsByAuthor(context.Background())
		require.NoError(mt, err)
		assert.Empty(mt, got)
	})
}

func TestInsertBook(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns an id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		book := &models.Book{Title: "The Hobbit", Published: 1937, Author: primitive.NewObjectID()}
		id, err := newMockDB(mt).InsertBook(context.Background(), book)
		require.NoError(mt, err)
		assert.False(mt, id.IsZero())
	})

	mt.Run("missing author is rejected before writing", func(mt *mtest.T) {
		_, err := newMockDB(mt).InsertBook(context.Background(), &models.Book{Title: "The Hobbit", Published: 1937})
		var verr *models.ValidationError
		require.True(mt, errors.As(err, &verr))
		assert.Equal(mt, "author", verr.Field)
	})
}

func TestCreateUserDuplicate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unique index violation maps to ErrDuplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: library.users index: username_1",
		}))
		_, err := newMockDB(mt).CreateUser(context.Background(), &models.User{Username: "mluukkai", FavoriteGenre: "fantasy"})
		assert.True(mt, errors.Is(err, ErrDuplicate), "got %v", err)
	})

	mt.Run("missing user is nil", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "library.users", mtest.FirstBatch))
		got, err := newMockDB(mt).UserByUsername(context.Background(), "ghost")
		assert.NoError(mt, err)
		assert.Nil(mt, got)
	})
}
