package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kevinaaaquil/library-graphql/models"
)

func (db *DB) CountAuthors(ctx context.Context) (int64, error) {
	n, err := db.Authors().CountDocuments(ctx, bson.M{})
	return n, errors.Wrap(err, "count authors")
}

func (db *DB) AllAuthors(ctx context.Context) ([]models.Author, error) {
	cur, err := db.Authors().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, errors.Wrap(err, "find authors")
	}
	defer cur.Close(ctx)
	authors := []models.Author{}
	if err := cur.All(ctx, &authors); err != nil {
		return nil, errors.Wrap(err, "decode authors")
	}
	return authors, nil
}

func (db *DB) AuthorByName(ctx context.Context, name string) (*models.Author, error) {
	return db.findAuthor(ctx, bson.M{"name": name})
}

func (db *DB) AuthorByID(ctx context.Context, id primitive.ObjectID) (*models.Author, error) {
	return db.findAuthor(ctx, bson.M{"_id": id})
}

func (db *DB) findAuthor(ctx context.Context, filter bson.M) (*models.Author, error) {
	var a models.Author
	err := db.Authors().FindOne(ctx, filter).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find author")
	}
	return &a, nil
}

// AuthorsByIDs loads the given authors in one query, keyed by id.
func (db *DB) AuthorsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Author, error) {
	out := make(map[primitive.ObjectID]models.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := db.Authors().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "find authors by id")
	}
	defer cur.Close(ctx)
	var authors []models.Author
	if err := cur.All(ctx, &authors); err != nil {
		return nil, errors.Wrap(err, "decode authors")
	}
	for _, a := range authors {
		out[a.ID] = a
	}
	return out, nil
}

// UpsertAuthor returns the author with the given name, creating it if needed.
// Two concurrent upserts of a new name race on the unique name index; the
// loser sees a duplicate key error and re-reads the winner's document.
func (db *DB) UpsertAuthor(ctx context.Context, name string) (*models.Author, error) {
	if err := models.ValidateAuthorName(name); err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{"$setOnInsert": bson.M{"createdAt": time.Now()}}
	var a models.Author
	err := db.Authors().FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&a)
	if mongo.IsDuplicateKeyError(err) {
		existing, findErr := db.AuthorByName(ctx, name)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, errors.Wrap(ErrDuplicate, "upsert author")
		}
		return existing, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "upsert author")
	}
	return &a, nil
}

// SetAuthorBorn sets born on the named author and returns the updated
// document, or nil if no author has that name.
func (db *DB) SetAuthorBorn(ctx context.Context, name string, born int) (*models.Author, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a models.Author
	err := db.Authors().FindOneAndUpdate(ctx, bson.M{"name": name}, bson.M{"$set": bson.M{"born": born}}, opts).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "set author born")
	}
	return &a, nil
}
