package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kevinaaaquil/library-graphql/models"
)

func (db *DB) CountBooks(ctx context.Context) (int64, error) {
	n, err := db.Books().CountDocuments(ctx, bson.M{})
	return n, errors.Wrap(err, "count books")
}

func (db *DB) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	if err := book.Validate(); err != nil {
		return primitive.NilObjectID, err
	}
	res, err := db.Books().InsertOne(ctx, book, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, wrapWrite(err, "insert book")
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) FindBooks(ctx context.Context, filter BookFilter) ([]models.Book, error) {
	cur, err := db.Books().Find(ctx, filter.BSON())
	if err != nil {
		return nil, errors.Wrap(err, "find books")
	}
	defer cur.Close(ctx)
	books := []models.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, errors.Wrap(err, "decode books")
	}
	return books, nil
}

// CountBooksByAuthor counts the books referencing a single author.
func (db *DB) CountBooksByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	n, err := db.Books().CountDocuments(ctx, bson.M{"author": authorID})
	return n, errors.Wrap(err, "count books by author")
}

// BookCountsByAuthor groups the books collection by author in one pass.
// Authors without books are absent from the result.
func (db *DB) BookCountsByAuthor(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$author"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := db.Books().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate book counts")
	}
	defer cur.Close(ctx)
	var rows []struct {
		Author primitive.ObjectID `bson:"_id"`
		Count  int64              `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "decode book counts")
	}
	counts := make(map[primitive.ObjectID]int64, len(rows))
	for _, r := range rows {
		counts[r.Author] = r.Count
	}
	return counts, nil
}
