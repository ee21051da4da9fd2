package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("duplicate key")

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
	log      zerolog.Logger
}

func NewMongoDB(ctx context.Context, uri, dbName string, logger zerolog.Logger) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping")
	}
	logger.Info().Str("db", dbName).Msg("connected to MongoDB")
	return &DB{
		Client:   client,
		Database: client.Database(dbName),
		log:      logger,
	}, nil
}

func (db *DB) Books() *mongo.Collection {
	return db.Database.Collection("books")
}

func (db *DB) Authors() *mongo.Collection {
	return db.Database.Collection("authors")
}

func (db *DB) Users() *mongo.Collection {
	return db.Database.Collection("users")
}

// EnsureIndexes creates the unique name/username indexes that make author
// upserts and user creation race free, plus lookup indexes for book filters.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := []struct {
		coll *mongo.Collection
		idx  mongo.IndexModel
	}{
		{db.Authors(), mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
		{db.Users(), mongo.IndexModel{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique}},
		{db.Books(), mongo.IndexModel{Keys: bson.D{{Key: "author", Value: 1}}}},
		{db.Books(), mongo.IndexModel{Keys: bson.D{{Key: "genres", Value: 1}}}},
	}
	for _, s := range specs {
		name, err := s.coll.Indexes().CreateOne(ctx, s.idx)
		if err != nil {
			return errors.Wrapf(err, "create index on %s", s.coll.Name())
		}
		db.log.Debug().Str("collection", s.coll.Name()).Str("index", name).Msg("index ready")
	}
	return nil
}

func (db *DB) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}

func wrapWrite(err error, op string) error {
	if mongo.IsDuplicateKeyError(err) {
		return errors.Wrap(ErrDuplicate, op)
	}
	return errors.Wrap(err, op)
}
